package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/campuskit/registrar/core"
)

// SQLiteStore persists accounts and records in SQLite. It implements both the
// UserStore and RecordStore interfaces.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and initializes the
// schema. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				role          TEXT NOT NULL,
				student_reg   TEXT NOT NULL DEFAULT '',
				staff_id      TEXT NOT NULL DEFAULT '',
				username      TEXT NOT NULL DEFAULT '',
				name          TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				degree        TEXT NOT NULL DEFAULT '',
				year          INTEGER NOT NULL DEFAULT 0,
				department    TEXT NOT NULL DEFAULT '',
				section       TEXT NOT NULL DEFAULT '',
				dob           TEXT NOT NULL DEFAULT '',
				email         TEXT NOT NULL DEFAULT '',
				phone         TEXT NOT NULL DEFAULT '',
				designation   TEXT NOT NULL DEFAULT '',
				created_at    INTEGER NOT NULL
			);`},
		{"users student index", `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_users_student_reg
				ON users (student_reg) WHERE student_reg <> '';`},
		{"users staff index", `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_users_staff_id
				ON users (staff_id) WHERE staff_id <> '';`},
		{"users username index", `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username
				ON users (username) WHERE username <> '';`},
		{"staff_assignments", `
			CREATE TABLE IF NOT EXISTS staff_assignments (
				id          TEXT PRIMARY KEY,
				staff_id    TEXT NOT NULL,
				staff_name  TEXT NOT NULL,
				department  TEXT NOT NULL,
				year        INTEGER NOT NULL,
				section     TEXT NOT NULL,
				subject     TEXT NOT NULL,
				assigned_at INTEGER NOT NULL
			);`},
		{"marks", `
			CREATE TABLE IF NOT EXISTS marks (
				id          TEXT PRIMARY KEY,
				student_reg TEXT NOT NULL,
				name        TEXT NOT NULL,
				year        INTEGER NOT NULL,
				department  TEXT NOT NULL,
				section     TEXT NOT NULL,
				subject     TEXT NOT NULL,
				ut1         TEXT NOT NULL,
				ut2         TEXT NOT NULL,
				ut3         TEXT NOT NULL,
				model       TEXT NOT NULL,
				sem         TEXT NOT NULL,
				internal    TEXT NOT NULL,
				updated_at  INTEGER NOT NULL,
				UNIQUE (student_reg, subject)
			);`},
		{"attendance", `
			CREATE TABLE IF NOT EXISTS attendance (
				id          TEXT PRIMARY KEY,
				student_reg TEXT NOT NULL UNIQUE,
				name        TEXT NOT NULL,
				present     INTEGER NOT NULL,
				marked_by   TEXT NOT NULL DEFAULT '',
				marked_at   INTEGER NOT NULL
			);`},
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt.sql); err != nil {
			return fmt.Errorf("failed to init %s schema: %w", stmt.name, err)
		}
	}
	return nil
}

const userColumns = `id, role, student_reg, staff_id, username, name, password_hash,
	degree, year, department, section, dob, email, phone, designation, created_at`

// FindByRoleAndIdentifier resolves an account within its role-keyed namespace.
func (s *SQLiteStore) FindByRoleAndIdentifier(ctx context.Context, role core.Role, identifier string) (*core.Account, error) {
	var column string
	switch role {
	case core.RoleStudent:
		column = "student_reg"
	case core.RoleStaff:
		column = "staff_id"
	case core.RoleAdmin:
		column = "username"
	default:
		return nil, core.ErrInvalidRole
	}

	query := fmt.Sprintf("SELECT %s FROM users WHERE role = ? AND %s = ?", userColumns, column)
	return scanAccount(s.db.QueryRowContext(ctx, query, role.String(), identifier))
}

// FindByID returns an account by its stable subject id.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*core.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns)
	return scanAccount(s.db.QueryRowContext(ctx, query, id))
}

// Create persists a new account.
func (s *SQLiteStore) Create(ctx context.Context, a *core.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Role.String(), a.StudentReg, a.StaffID, a.Username, a.Name, a.PasswordHash,
		a.Degree, a.Year, a.Department, a.Section, a.DOB, a.Email, a.Phone, a.Designation,
		a.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrAccountExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// ListByRole returns all accounts holding the given role, ordered by name.
func (s *SQLiteStore) ListByRole(ctx context.Context, role core.Role) ([]*core.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE role = ? ORDER BY name", userColumns)
	rows, err := s.db.QueryContext(ctx, query, role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// List returns all accounts, ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]*core.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY name", userColumns)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*core.Account, error) {
	var (
		a         core.Account
		role      string
		createdAt int64
	)
	err := row.Scan(
		&a.ID, &role, &a.StudentReg, &a.StaffID, &a.Username, &a.Name, &a.PasswordHash,
		&a.Degree, &a.Year, &a.Department, &a.Section, &a.DOB, &a.Email, &a.Phone,
		&a.Designation, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	parsed, err := core.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("stored account %s has unknown role %q", a.ID, role)
	}
	a.Role = parsed
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &a, nil
}

func collectAccounts(rows *sql.Rows) ([]*core.Account, error) {
	var accounts []*core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// CreateAssignment records a staff-to-class assignment.
func (s *SQLiteStore) CreateAssignment(ctx context.Context, a *core.StaffAssignment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff_assignments (id, staff_id, staff_name, department, year, section, subject, assigned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.StaffID, a.StaffName, a.Department, a.Year, a.Section, a.Subject, a.AssignedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// ListAssignments returns all staff assignments, newest first.
func (s *SQLiteStore) ListAssignments(ctx context.Context) ([]*core.StaffAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, staff_id, staff_name, department, year, section, subject, assigned_at
		FROM staff_assignments ORDER BY assigned_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*core.StaffAssignment
	for rows.Next() {
		var (
			a          core.StaffAssignment
			assignedAt int64
		)
		if err := rows.Scan(&a.ID, &a.StaffID, &a.StaffName, &a.Department, &a.Year, &a.Section, &a.Subject, &assignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.AssignedAt = time.Unix(assignedAt, 0).UTC()
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}

// UpsertMarks inserts or replaces the mark sheet keyed by (student, subject).
func (s *SQLiteStore) UpsertMarks(ctx context.Context, m *core.MarkSheet) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO marks (id, student_reg, name, year, department, section, subject,
			ut1, ut2, ut3, model, sem, internal, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (student_reg, subject) DO UPDATE SET
			name = excluded.name,
			year = excluded.year,
			department = excluded.department,
			section = excluded.section,
			ut1 = excluded.ut1,
			ut2 = excluded.ut2,
			ut3 = excluded.ut3,
			model = excluded.model,
			sem = excluded.sem,
			internal = excluded.internal,
			updated_at = excluded.updated_at`,
		m.ID, m.StudentReg, m.Name, m.Year, m.Department, m.Section, m.Subject,
		m.UT1.String(), m.UT2.String(), m.UT3.String(), m.Model.String(), m.Sem.String(),
		m.Internal.String(), m.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert marks: %w", err)
	}
	return nil
}

// ListMarksByStudent returns all mark sheets for a student.
func (s *SQLiteStore) ListMarksByStudent(ctx context.Context, studentReg string) ([]*core.MarkSheet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, student_reg, name, year, department, section, subject,
			ut1, ut2, ut3, model, sem, internal, updated_at
		FROM marks WHERE student_reg = ? ORDER BY subject`, studentReg)
	if err != nil {
		return nil, fmt.Errorf("failed to list marks: %w", err)
	}
	defer rows.Close()

	var sheets []*core.MarkSheet
	for rows.Next() {
		var (
			m                             core.MarkSheet
			ut1, ut2, ut3, model, sem, in string
			updatedAt                     int64
		)
		if err := rows.Scan(&m.ID, &m.StudentReg, &m.Name, &m.Year, &m.Department, &m.Section,
			&m.Subject, &ut1, &ut2, &ut3, &model, &sem, &in, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan marks: %w", err)
		}
		if m.UT1, err = decimal.NewFromString(ut1); err != nil {
			return nil, fmt.Errorf("invalid stored mark: %w", err)
		}
		if m.UT2, err = decimal.NewFromString(ut2); err != nil {
			return nil, fmt.Errorf("invalid stored mark: %w", err)
		}
		if m.UT3, err = decimal.NewFromString(ut3); err != nil {
			return nil, fmt.Errorf("invalid stored mark: %w", err)
		}
		if m.Model, err = decimal.NewFromString(model); err != nil {
			return nil, fmt.Errorf("invalid stored mark: %w", err)
		}
		if m.Sem, err = decimal.NewFromString(sem); err != nil {
			return nil, fmt.Errorf("invalid stored mark: %w", err)
		}
		if m.Internal, err = decimal.NewFromString(in); err != nil {
			return nil, fmt.Errorf("invalid stored mark: %w", err)
		}
		m.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		sheets = append(sheets, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate marks: %w", err)
	}
	return sheets, nil
}

// UpsertAttendance inserts or replaces the attendance record for a student.
func (s *SQLiteStore) UpsertAttendance(ctx context.Context, r *core.AttendanceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance (id, student_reg, name, present, marked_by, marked_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (student_reg) DO UPDATE SET
			name = excluded.name,
			present = excluded.present,
			marked_by = excluded.marked_by,
			marked_at = excluded.marked_at`,
		r.ID, r.StudentReg, r.Name, boolToInt(r.Present), r.MarkedBy, r.MarkedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return nil
}

// ListAttendance returns all attendance records.
func (s *SQLiteStore) ListAttendance(ctx context.Context) ([]*core.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, student_reg, name, present, marked_by, marked_at
		FROM attendance ORDER BY student_reg`)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []*core.AttendanceRecord
	for rows.Next() {
		var (
			r        core.AttendanceRecord
			present  int
			markedAt int64
		)
		if err := rows.Scan(&r.ID, &r.StudentReg, &r.Name, &present, &r.MarkedBy, &markedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		r.Present = present != 0
		r.MarkedAt = time.Unix(markedAt, 0).UTC()
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}
