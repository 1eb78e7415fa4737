package ports

import (
	"context"

	"github.com/campuskit/registrar/core"
)

// UserStore is the account lookup and persistence capability. Identifier
// namespaces are disjoint per role: students by registration number, staff by
// staff id, admins by username.
type UserStore interface {
	// FindByRoleAndIdentifier returns the single account matching the
	// role-keyed identifier, or core.ErrAccountNotFound.
	FindByRoleAndIdentifier(ctx context.Context, role core.Role, identifier string) (*core.Account, error)

	// FindByID returns an account by its stable subject id.
	FindByID(ctx context.Context, id string) (*core.Account, error)

	// Create persists a new account. Returns core.ErrAccountExists when the
	// identifier is already taken within the role namespace.
	Create(ctx context.Context, account *core.Account) error

	// ListByRole returns all accounts holding the given role.
	ListByRole(ctx context.Context, role core.Role) ([]*core.Account, error)

	// List returns all accounts, ordered by name.
	List(ctx context.Context) ([]*core.Account, error)
}

// RecordStore persists the record-keeping side of the system: staff
// assignments, mark sheets and attendance.
type RecordStore interface {
	CreateAssignment(ctx context.Context, assignment *core.StaffAssignment) error
	ListAssignments(ctx context.Context) ([]*core.StaffAssignment, error)

	// UpsertMarks inserts or replaces the sheet keyed by (student, subject).
	UpsertMarks(ctx context.Context, sheet *core.MarkSheet) error
	ListMarksByStudent(ctx context.Context, studentReg string) ([]*core.MarkSheet, error)

	// UpsertAttendance inserts or replaces the record keyed by student.
	UpsertAttendance(ctx context.Context, record *core.AttendanceRecord) error
	ListAttendance(ctx context.Context) ([]*core.AttendanceRecord, error)
}
