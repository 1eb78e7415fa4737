package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/registrar/core"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func studentAccount(reg, name string) *core.Account {
	return &core.Account{
		ID:           uuid.NewString(),
		Role:         core.RoleStudent,
		StudentReg:   reg,
		Name:         name,
		PasswordHash: "digest",
		Degree:       "BE",
		Year:         2,
		Department:   "CS",
		Section:      "A",
		DOB:          "2004-01-15",
		Email:        name + "@example.edu",
		Phone:        "555-0100",
		CreatedAt:    time.Now(),
	}
}

func TestCreateAndFindByRoleAndIdentifier(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	student := studentAccount("21CS001", "Asha")
	require.NoError(t, s.Create(ctx, student))

	staff := &core.Account{
		ID: uuid.NewString(), Role: core.RoleStaff, StaffID: "ST01",
		Name: "Ravi", PasswordHash: "digest", Department: "CS",
		Designation: "Lecturer", CreatedAt: time.Now(),
	}
	require.NoError(t, s.Create(ctx, staff))

	admin := &core.Account{
		ID: uuid.NewString(), Role: core.RoleAdmin, Username: "admin",
		Name: "Administrator", PasswordHash: "digest", CreatedAt: time.Now(),
	}
	require.NoError(t, s.Create(ctx, admin))

	got, err := s.FindByRoleAndIdentifier(ctx, core.RoleStudent, "21CS001")
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)
	assert.Equal(t, core.RoleStudent, got.Role)
	assert.Equal(t, "Asha", got.Name)

	got, err = s.FindByRoleAndIdentifier(ctx, core.RoleStaff, "ST01")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.ID)

	got, err = s.FindByRoleAndIdentifier(ctx, core.RoleAdmin, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	// Namespaces are disjoint: a student reg does not resolve as a staff id.
	_, err = s.FindByRoleAndIdentifier(ctx, core.RoleStaff, "21CS001")
	assert.ErrorIs(t, err, core.ErrAccountNotFound)
}

func TestFindByID(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	student := studentAccount("21CS002", "Bala")
	require.NoError(t, s.Create(ctx, student))

	got, err := s.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "21CS002", got.StudentReg)

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrAccountNotFound)
}

func TestCreate_DuplicateIdentifier(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, studentAccount("21CS003", "Chitra")))
	err := s.Create(ctx, studentAccount("21CS003", "Imposter"))
	assert.ErrorIs(t, err, core.ErrAccountExists)
}

func TestList_OrderedByName(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, studentAccount("21CS010", "Zara")))
	require.NoError(t, s.Create(ctx, studentAccount("21CS011", "Anil")))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Anil", all[0].Name)
	assert.Equal(t, "Zara", all[1].Name)

	students, err := s.ListByRole(ctx, core.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	staff, err := s.ListByRole(ctx, core.RoleStaff)
	require.NoError(t, err)
	assert.Empty(t, staff)
}

func TestMarks_UpsertRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	sheet := &core.MarkSheet{
		ID:         uuid.NewString(),
		StudentReg: "21CS001",
		Name:       "Asha",
		Year:       2,
		Department: "CS",
		Section:    "A",
		Subject:    "Algorithms",
		UT1:        decimal.RequireFromString("18.5"),
		UT2:        decimal.RequireFromString("17"),
		UT3:        decimal.RequireFromString("19"),
		Model:      decimal.RequireFromString("72"),
		Sem:        decimal.RequireFromString("81"),
		Internal:   decimal.RequireFromString("18.17"),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, s.UpsertMarks(ctx, sheet))

	sheets, err := s.ListMarksByStudent(ctx, "21CS001")
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.True(t, sheet.UT1.Equal(sheets[0].UT1))
	assert.True(t, sheet.Internal.Equal(sheets[0].Internal))

	// Same student and subject replaces the sheet instead of adding one.
	updated := *sheet
	updated.ID = uuid.NewString()
	updated.Sem = decimal.RequireFromString("85")
	require.NoError(t, s.UpsertMarks(ctx, &updated))

	sheets, err = s.ListMarksByStudent(ctx, "21CS001")
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.True(t, updated.Sem.Equal(sheets[0].Sem))
}

func TestAssignments_CreateAndList(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	a := &core.StaffAssignment{
		ID: uuid.NewString(), StaffID: "ST01", StaffName: "Ravi",
		Department: "CS", Year: 2, Section: "A", Subject: "Algorithms",
		AssignedAt: time.Now(),
	}
	require.NoError(t, s.CreateAssignment(ctx, a))

	got, err := s.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Algorithms", got[0].Subject)
}

func TestAttendance_UpsertAndList(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	r := &core.AttendanceRecord{
		ID: uuid.NewString(), StudentReg: "21CS001", Name: "Asha",
		Present: true, MarkedBy: "staff-1", MarkedAt: time.Now(),
	}
	require.NoError(t, s.UpsertAttendance(ctx, r))

	// Re-marking the same student replaces the record.
	again := *r
	again.ID = uuid.NewString()
	again.MarkedBy = "staff-2"
	require.NoError(t, s.UpsertAttendance(ctx, &again))

	got, err := s.ListAttendance(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "staff-2", got[0].MarkedBy)
	assert.True(t, got[0].Present)
}
