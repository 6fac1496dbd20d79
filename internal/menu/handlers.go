package menu

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// add handles "Add Student".
//
// The roll is checked for duplicates before the name and marks are asked
// for, so a conflict aborts early and never touches the store.
// ─────────────────────────────────────────────────────────────────────────────
func (m *Menu) add(session types.Session) {
	roll, err := m.prompt.Int("\nEnter Roll: ")
	if err != nil {
		m.inputError(err, "Invalid roll number.")
		return
	}

	exists, err := m.store.Exists(roll)
	if err != nil {
		m.storeWarning("failed to read student store", err)
		return
	}
	if exists {
		m.ui.Error(fmt.Sprintf("Error: a student with roll %d already exists.", roll))
		return
	}

	name, err := m.prompt.Line("Enter Name (spaces allowed): ")
	if err != nil {
		m.inputError(err, "Invalid name.")
		return
	}

	marks, err := m.prompt.Float("Enter Marks: ")
	if err != nil {
		m.inputError(err, "Invalid marks.")
		return
	}

	student := types.NewStudent(roll, name, marks)
	if err := types.NewValidator().Struct(student); err != nil {
		m.ui.Error(response.GeneralError(err))
		return
	}

	if err := storage.Add(m.store, student); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			m.ui.Error(fmt.Sprintf("Error: a student with roll %d already exists.", roll))
			return
		}
		m.storeWarning("failed to write student store", err)
		return
	}

	slog.Info("student added",
		slog.String("username", session.Username),
		slog.Int("roll", student.Roll))
	m.ui.Info("Student added successfully.")
}

// display handles "Display Students".
func (m *Menu) display() {
	students, err := m.store.ReadAll()
	if err != nil {
		m.storeWarning("failed to read student store", err)
		return
	}

	if len(students) == 0 {
		m.ui.Output("No student records found.")
		return
	}

	m.ui.Output(fmt.Sprintf("\n%-6s  %-30s  %6s", "Roll", "Name", "Marks"))
	m.ui.Output("--------------------------------------------------------------")
	for _, st := range students {
		m.ui.Output(fmt.Sprintf("%-6d  %-30s  %6.2f", st.Roll, st.Name, st.Marks))
	}
}

// search handles "Search Student".
func (m *Menu) search() {
	roll, err := m.prompt.Int("Enter Roll to search: ")
	if err != nil {
		m.inputError(err, "Invalid roll.")
		return
	}

	st, err := storage.Find(m.store, roll)
	if err != nil {
		m.notFoundOrWarn(roll, err)
		return
	}

	m.ui.Output(fmt.Sprintf("\nRecord Found:\nRoll : %d\nName : %s\nMarks: %.2f", st.Roll, st.Name, st.Marks))
}

// ─────────────────────────────────────────────────────────────────────────────
// update handles "Update Student".
//
// The current values are shown first. A blank answer keeps the current
// name or marks; unparseable marks are reported and the current marks
// are kept. End of input aborts without changing anything.
// ─────────────────────────────────────────────────────────────────────────────
func (m *Menu) update(session types.Session) {
	roll, err := m.prompt.Int("Enter Roll to update: ")
	if err != nil {
		m.inputError(err, "Invalid roll.")
		return
	}

	current, err := storage.Find(m.store, roll)
	if err != nil {
		m.notFoundOrWarn(roll, err)
		return
	}

	m.ui.Output(fmt.Sprintf("Current Name : %s", current.Name))
	m.ui.Output(fmt.Sprintf("Current Marks: %.2f", current.Marks))

	name := current.Name
	newName, ok, err := m.prompt.OptionalLine("Enter new Name (blank to keep current): ")
	if err != nil {
		m.inputError(err, "Invalid name.")
		return
	}
	if ok {
		name = newName
	}

	marks := current.Marks
	newMarks, ok, err := m.prompt.OptionalFloat("Enter new Marks (blank to keep current): ")
	switch {
	case errors.Is(err, console.ErrInvalidInput):
		m.ui.Error("Invalid marks input; keeping current marks.")
	case err != nil:
		m.inputError(err, "Invalid marks.")
		return
	case ok:
		marks = newMarks
	}

	updated := types.NewStudent(roll, name, marks)
	if err := types.NewValidator().Struct(updated); err != nil {
		m.ui.Error(response.GeneralError(err))
		return
	}

	err = storage.Update(m.store, roll, func(types.Student) types.Student {
		return updated
	})
	if err != nil {
		m.notFoundOrWarn(roll, err)
		return
	}

	slog.Info("student updated",
		slog.String("username", session.Username),
		slog.Int("roll", roll))
	m.ui.Info(fmt.Sprintf("Record updated for roll %d.", roll))
}

// delete handles "Delete Student".
func (m *Menu) delete(session types.Session) {
	roll, err := m.prompt.Int("Enter Roll to delete: ")
	if err != nil {
		m.inputError(err, "Invalid roll.")
		return
	}

	if err := storage.Delete(m.store, roll); err != nil {
		m.notFoundOrWarn(roll, err)
		return
	}

	slog.Info("student deleted",
		slog.String("username", session.Username),
		slog.Int("roll", roll))
	m.ui.Info(fmt.Sprintf("Record deleted for roll %d.", roll))
}

// inputError reports a failed read. End of input is silent: the current
// operation is abandoned and the menu loop notices the closed input on
// its next prompt.
func (m *Menu) inputError(err error, invalidMsg string) {
	switch {
	case errors.Is(err, io.EOF):
		slog.Debug("input closed during operation")
	case errors.Is(err, console.ErrInvalidInput):
		m.ui.Error(invalidMsg)
	default:
		m.ui.Warn(fmt.Sprintf("Warning: failed to read input: %s", err))
		slog.Error("read input", slog.String("error", err.Error()))
	}
}

func (m *Menu) notFoundOrWarn(roll int, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		m.ui.Output(fmt.Sprintf("Record not found for roll %d.", roll))
		return
	}
	m.storeWarning("student store operation failed", err)
}

func (m *Menu) storeWarning(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	m.ui.Warn(fmt.Sprintf("Warning: %s: %s", msg, err))
}
