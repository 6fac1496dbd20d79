package menu

import (
	"slices"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Operation is one entry of a role menu.
type Operation int

const (
	OpAdd Operation = iota
	OpDisplay
	OpSearch
	OpUpdate
	OpDelete
	OpLogout
)

var operationNames = map[Operation]string{
	OpAdd:     "Add Student",
	OpDisplay: "Display Students",
	OpSearch:  "Search Student",
	OpUpdate:  "Update Student",
	OpDelete:  "Delete Student",
	OpLogout:  "Logout",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "Unknown"
}

// roleOperations lists, in menu order, what each role may do.
var roleOperations = map[types.Role][]Operation{
	types.RoleAdmin: {OpAdd, OpDisplay, OpSearch, OpUpdate, OpDelete, OpLogout},
	types.RoleStaff: {OpDisplay, OpSearch, OpLogout},
	types.RoleGuest: {OpDisplay, OpLogout},
}

// Operations returns the operations permitted for role in the order they
// are numbered on screen (starting at 1). Unknown roles get the guest set.
func Operations(role types.Role) []Operation {
	ops, ok := roleOperations[role]
	if !ok {
		ops = roleOperations[types.RoleGuest]
	}
	return slices.Clone(ops)
}

// Permitted reports whether role may invoke op.
func Permitted(role types.Role, op Operation) bool {
	return slices.Contains(Operations(role), op)
}
