package menu

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/aanand-mishra/student-records/internal/storage/flatfile"
	"github.com/aanand-mishra/student-records/internal/types"
)

const storePath = "/data/student.txt"

var (
	admin = types.Session{Username: "admin", Role: types.RoleAdmin, RoleName: "ADMIN"}
	staff = types.Session{Username: "sam", Role: types.RoleStaff, RoleName: "staff"}
	guest = types.Session{Username: "gus", Role: types.RoleGuest, RoleName: "visitor"}
)

type harness struct {
	ui *cli.MockUi
	fs afero.Fs
}

// run seeds the store with contents, feeds input to a menu for session
// and returns the harness once the menu loop has ended.
func run(t *testing.T, session types.Session, contents, input string) *harness {
	t.Helper()

	fs := afero.NewMemMapFs()
	if contents != "" {
		if err := afero.WriteFile(fs, storePath, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ui := cli.NewMockUi()
	prompt := console.NewPrompter(strings.NewReader(input), ui.OutputWriter)
	m := New(ui, prompt, flatfile.New(fs, storePath), nil)

	if err := m.Run(session); err != nil {
		t.Fatalf("Run(): %s", err)
	}

	return &harness{ui: ui, fs: fs}
}

func (h *harness) store(t *testing.T) string {
	t.Helper()

	b, err := afero.ReadFile(h.fs, storePath)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func (h *harness) storeExists(t *testing.T) bool {
	t.Helper()

	ok, err := afero.Exists(h.fs, storePath)
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func assertContains(t *testing.T, what, got string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("%s does not contain %q:\n%s", what, want, got)
		}
	}
}

func TestOperations(t *testing.T) {
	tests := map[types.Role][]Operation{
		types.RoleAdmin: {OpAdd, OpDisplay, OpSearch, OpUpdate, OpDelete, OpLogout},
		types.RoleStaff: {OpDisplay, OpSearch, OpLogout},
		types.RoleGuest: {OpDisplay, OpLogout},
		"":              {OpDisplay, OpLogout},
	}

	for role, want := range tests {
		if diff := cmp.Diff(want, Operations(role)); diff != "" {
			t.Errorf("Operations(%q) mismatch (-want +got):\n%s", role, diff)
		}
	}

	if Permitted(types.RoleStaff, OpDelete) {
		t.Error("staff may delete")
	}
	if !Permitted(types.RoleStaff, OpSearch) {
		t.Error("staff may not search")
	}
	if Permitted(types.RoleGuest, OpSearch) {
		t.Error("guest may search")
	}
}

func TestRun_addThenSearch(t *testing.T) {
	h := run(t, admin, "", "1\n101\nAda Lovelace\n91.5\n3\n101\n6\n")

	assertContains(t, "output", h.ui.OutputWriter.String(),
		"====== ADMIN MENU (user: admin role: ADMIN) ======",
		"1. Add Student\n2. Display Students\n3. Search Student\n4. Update Student\n5. Delete Student\n6. Logout",
		"Student added successfully.",
		"Record Found:\nRoll : 101\nName : Ada Lovelace\nMarks: 91.50",
		"Logging out...",
	)
	if got, want := h.store(t), "101|Ada Lovelace|91.50\n"; got != want {
		t.Errorf("store = %q, want %q", got, want)
	}
	if got := h.ui.ErrorWriter.String(); got != "" {
		t.Errorf("unexpected errors:\n%s", got)
	}
}

func TestRun_addSanitizesName(t *testing.T) {
	h := run(t, admin, "", "1\n7\nGrace|Hopper\n88\n6\n")

	if got, want := h.store(t), "7|Grace Hopper|88.00\n"; got != want {
		t.Errorf("store = %q, want %q", got, want)
	}
}

func TestRun_addDuplicateRoll(t *testing.T) {
	const before = "101|Ada Lovelace|91.50\n"
	h := run(t, admin, before, "1\n101\n6\n")

	assertContains(t, "errors", h.ui.ErrorWriter.String(),
		"Error: a student with roll 101 already exists.")
	if got := h.store(t); got != before {
		t.Errorf("store = %q, want %q", got, before)
	}
}

func TestRun_addValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"non-numeric roll", "1\nabc\n6\n", "Invalid roll number."},
		{"non-positive roll", "1\n0\nZero\n10\n6\n", "field Roll must be greater than 0"},
		{"non-numeric marks", "1\n5\nEve\nlots\n6\n", "Invalid marks."},
		{"empty name", "1\n5\n\n10\n6\n", "field Name is required"},
		{"long name", "1\n5\n" + strings.Repeat("n", types.MaxNameLength+1) + "\n10\n6\n", "at most 127 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := run(t, admin, "", tt.input)

			assertContains(t, "errors", h.ui.ErrorWriter.String(), tt.want)
			if h.storeExists(t) {
				t.Errorf("store was created: %q", h.store(t))
			}
		})
	}
}

func TestRun_invalidChoices(t *testing.T) {
	h := run(t, guest, "", "abc\n9\n0\n\n2\n")

	errs := h.ui.ErrorWriter.String()
	if got := strings.Count(errs, "Invalid input. Try again."); got != 2 {
		t.Errorf("invalid input reported %d times, want 2:\n%s", got, errs)
	}
	if got := strings.Count(errs, "Invalid choice. Try again."); got != 2 {
		t.Errorf("invalid choice reported %d times, want 2:\n%s", got, errs)
	}
	assertContains(t, "output", h.ui.OutputWriter.String(), "Logging out...")
}

func TestRun_roleMenus(t *testing.T) {
	t.Run("staff", func(t *testing.T) {
		h := run(t, staff, "", "3\n")
		out := h.ui.OutputWriter.String()

		assertContains(t, "output", out,
			"====== STAFF MENU (user: sam role: staff) ======",
			"1. Display Students\n2. Search Student\n3. Logout")
		if strings.Contains(out, "Add Student") {
			t.Errorf("staff menu offers Add:\n%s", out)
		}
	})

	t.Run("guest", func(t *testing.T) {
		h := run(t, guest, "", "2\n")
		out := h.ui.OutputWriter.String()

		assertContains(t, "output", out,
			"====== GUEST MENU (user: gus role: visitor) ======",
			"1. Display Students\n2. Logout",
			"Logging out...")
		if strings.Contains(out, "Search Student") {
			t.Errorf("guest menu offers Search:\n%s", out)
		}
	})

	t.Run("staff cannot reach delete", func(t *testing.T) {
		const before = "1|Ann|50.00\n"
		h := run(t, staff, before, "5\n3\n")

		assertContains(t, "errors", h.ui.ErrorWriter.String(), "Invalid choice. Try again.")
		if got := h.store(t); got != before {
			t.Errorf("store = %q, want %q", got, before)
		}
	})
}

func TestRun_display(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h := run(t, guest, "", "1\n2\n")
		assertContains(t, "output", h.ui.OutputWriter.String(), "No student records found.")
	})

	t.Run("records", func(t *testing.T) {
		h := run(t, guest, "1|Ann|50.00\nbroken\n22|Ben Long|7.50\n", "1\n2\n")
		assertContains(t, "output", h.ui.OutputWriter.String(),
			"Roll    Name                             Marks",
			"1       Ann                              50.00",
			"22      Ben Long                          7.50")
	})
}

func TestRun_searchNotFound(t *testing.T) {
	h := run(t, staff, "1|Ann|50.00\n", "2\n9\n3\n")

	assertContains(t, "output", h.ui.OutputWriter.String(), "Record not found for roll 9.")
}

func TestRun_update(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantOut   string
		wantError string
	}{
		{
			name:    "marks only",
			input:   "4\n2\n\n65.5\n6\n",
			want:    "1|Ann|50.00\n2|Ben|65.50\n3|Cat|70.00\n",
			wantOut: "Record updated for roll 2.",
		},
		{
			name:    "name only",
			input:   "4\n1\nAnnie|Mae\n\n6\n",
			want:    "1|Annie Mae|50.00\n2|Ben|60.00\n3|Cat|70.00\n",
			wantOut: "Record updated for roll 1.",
		},
		{
			name:      "invalid marks keeps current",
			input:     "4\n3\nCatherine\nxyz\n6\n",
			want:      "1|Ann|50.00\n2|Ben|60.00\n3|Catherine|70.00\n",
			wantOut:   "Record updated for roll 3.",
			wantError: "Invalid marks input; keeping current marks.",
		},
		{
			name:    "not found",
			input:   "4\n9\n6\n",
			want:    "1|Ann|50.00\n2|Ben|60.00\n3|Cat|70.00\n",
			wantOut: "Record not found for roll 9.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := run(t, admin, "1|Ann|50.00\n2|Ben|60.00\n3|Cat|70.00\n", tt.input)

			if got := h.store(t); got != tt.want {
				t.Errorf("store = %q, want %q", got, tt.want)
			}
			assertContains(t, "output", h.ui.OutputWriter.String(), tt.wantOut)
			if tt.wantError != "" {
				assertContains(t, "errors", h.ui.ErrorWriter.String(), tt.wantError)
			}
		})
	}
}

func TestRun_delete(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		h := run(t, admin, "1|Ann|50.00\n2|Ben|60.00\n", "5\n1\n6\n")

		assertContains(t, "output", h.ui.OutputWriter.String(), "Record deleted for roll 1.")
		if got, want := h.store(t), "2|Ben|60.00\n"; got != want {
			t.Errorf("store = %q, want %q", got, want)
		}
	})

	t.Run("missing", func(t *testing.T) {
		const before = "1|Ann|50.00\nkeep this noise\n"
		h := run(t, admin, before, "5\n9\n6\n")

		assertContains(t, "output", h.ui.OutputWriter.String(), "Record not found for roll 9.")
		if got := h.store(t); got != before {
			t.Errorf("store = %q, want %q", got, before)
		}
	})
}

func TestRun_endOfInput(t *testing.T) {
	t.Run("at the menu", func(t *testing.T) {
		h := run(t, guest, "", "")
		if strings.Contains(h.ui.OutputWriter.String(), "Logging out...") {
			t.Error("end of input printed a logout")
		}
	})

	t.Run("during add", func(t *testing.T) {
		h := run(t, admin, "", "1\n101\nAda")
		if h.storeExists(t) {
			t.Errorf("store was created: %q", h.store(t))
		}
	})

	t.Run("during update", func(t *testing.T) {
		const before = "1|Ann|50.00\n"
		h := run(t, admin, before, "4\n1\nNew Name\n")
		if got := h.store(t); got != before {
			t.Errorf("store = %q, want %q", got, before)
		}
	})
}
