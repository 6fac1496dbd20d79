// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// the codec, the stores and the menu can all import types without
// depending on each other.
package types

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxNameLength is the longest name (in characters) a record may carry.
const MaxNameLength = 127

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"...": controls how the field appears when encoded to JSON.
//
//  2. validate:"...": rules checked by the go-playground/validator
//     package before a record is written to the store:
//     roll must be positive, name must be present, at most
//     MaxNameLength characters and free of the "|" delimiter, and
//     marks must be a finite number ("finite" is registered by
//     NewValidator).
type Student struct {
	Roll  int     `json:"roll"  validate:"gt=0"`
	Name  string  `json:"name"  validate:"required,max=127,excludes=0x7C"`
	Marks float64 `json:"marks" validate:"finite"`
}

// NewStudent builds a Student from raw console input.
//
// This is the one place where a record is sanitised:
//   - "|" (the store delimiter) and line breaks in the name become spaces
//   - marks are rounded to two decimals, the precision of the store file,
//     so a record read back from disk equals the record that was written.
//
// NewStudent does not validate; callers run the validator on the result.
func NewStudent(roll int, name string, marks float64) Student {
	return Student{
		Roll:  roll,
		Name:  SanitizeName(name),
		Marks: RoundMarks(marks),
	}
}

var nameReplacer = strings.NewReplacer("|", " ", "\r", " ", "\n", " ")

// SanitizeName replaces characters that cannot appear inside a stored
// name field with spaces.
func SanitizeName(name string) string {
	return nameReplacer.Replace(name)
}

// RoundMarks rounds m to two decimal places. Values too large for the
// scaling step already have no fractional digits and are returned as-is.
func RoundMarks(m float64) float64 {
	r := math.Round(m*100) / 100
	if math.IsInf(r, 0) && !math.IsInf(m, 0) {
		return m
	}
	return r
}

// NewValidator returns a validator that understands the custom tags used
// on Student.
func NewValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("finite", isFinite)
	return v
}

func isFinite(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

// Role is an access tier. It decides which menu operations a session
// may invoke.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
	RoleGuest Role = "GUEST"
)

// ParseRole maps a role token from the credential table to a Role.
// Matching is case-insensitive; anything that is not ADMIN or STAFF is
// treated as GUEST.
func ParseRole(s string) Role {
	switch {
	case strings.EqualFold(s, string(RoleAdmin)):
		return RoleAdmin
	case strings.EqualFold(s, string(RoleStaff)):
		return RoleStaff
	default:
		return RoleGuest
	}
}

// Credential is one row of the credential table:
//
//	username password role
//
// Passwords are stored and compared in plain text.
type Credential struct {
	Username string
	Password string
	Role     string
}

// Session identifies the logged-in user for the lifetime of the process.
// It is created by a successful login and passed explicitly to the menu.
type Session struct {
	Username string
	Role     Role

	// RoleName is the role token exactly as written in the credential
	// table. It is only used for display.
	RoleName string
}
