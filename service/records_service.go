package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuskit/registrar/core"
	"github.com/campuskit/registrar/ports"
)

// RecordsService handles account provisioning and the record-keeping
// operations behind the auth gate. It trusts the identity assertion attached
// by the gate unconditionally.
type RecordsService struct {
	users   ports.UserStore
	records ports.RecordStore
	hasher  ports.Hasher

	now func() time.Time
}

// NewRecordsService creates a new records service.
func NewRecordsService(users ports.UserStore, records ports.RecordStore, hasher ports.Hasher) *RecordsService {
	return &RecordsService{
		users:   users,
		records: records,
		hasher:  hasher,
		now:     time.Now,
	}
}

// AddStudentInput carries the fields required to enroll a student.
type AddStudentInput struct {
	StudentReg string
	Name       string
	Password   string
	Degree     string
	Year       int
	Department string
	Section    string
	DOB        string
	Email      string
	Phone      string
}

// AddStudent enrolls a new student account.
func (s *RecordsService) AddStudent(ctx context.Context, in AddStudentInput) (*core.Account, error) {
	required := map[string]string{
		"studentReg": in.StudentReg,
		"name":       in.Name,
		"password":   in.Password,
		"degree":     in.Degree,
		"department": in.Department,
		"section":    in.Section,
		"dob":        in.DOB,
		"email":      in.Email,
		"phone":      in.Phone,
	}
	if err := requireFields(required); err != nil {
		return nil, err
	}
	if in.Year <= 0 {
		return nil, fmt.Errorf("%w: year", core.ErrMissingField)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account := &core.Account{
		ID:           uuid.NewString(),
		Role:         core.RoleStudent,
		StudentReg:   in.StudentReg,
		Name:         in.Name,
		PasswordHash: digest,
		Degree:       in.Degree,
		Year:         in.Year,
		Department:   in.Department,
		Section:      in.Section,
		DOB:          in.DOB,
		Email:        in.Email,
		Phone:        in.Phone,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// AddStaffInput carries the fields required to register a staff member.
type AddStaffInput struct {
	StaffID     string
	Name        string
	Password    string
	Email       string
	Phone       string
	Department  string
	Designation string
}

// AddStaff registers a new staff account.
func (s *RecordsService) AddStaff(ctx context.Context, in AddStaffInput) (*core.Account, error) {
	required := map[string]string{
		"staffId":     in.StaffID,
		"name":        in.Name,
		"password":    in.Password,
		"email":       in.Email,
		"phone":       in.Phone,
		"department":  in.Department,
		"designation": in.Designation,
	}
	if err := requireFields(required); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account := &core.Account{
		ID:           uuid.NewString(),
		Role:         core.RoleStaff,
		StaffID:      in.StaffID,
		Name:         in.Name,
		PasswordHash: digest,
		Email:        in.Email,
		Phone:        in.Phone,
		Department:   in.Department,
		Designation:  in.Designation,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// AssignStaffInput carries a staff-to-class assignment.
type AssignStaffInput struct {
	StaffID    string
	StaffName  string
	Department string
	Year       int
	Section    string
	Subject    string
}

// AssignStaff records a staff-to-class assignment.
func (s *RecordsService) AssignStaff(ctx context.Context, in AssignStaffInput) (*core.StaffAssignment, error) {
	required := map[string]string{
		"staffId":    in.StaffID,
		"staffName":  in.StaffName,
		"department": in.Department,
		"section":    in.Section,
		"subject":    in.Subject,
	}
	if err := requireFields(required); err != nil {
		return nil, err
	}
	if in.Year <= 0 {
		return nil, fmt.Errorf("%w: year", core.ErrMissingField)
	}

	assignment := &core.StaffAssignment{
		ID:         uuid.NewString(),
		StaffID:    in.StaffID,
		StaffName:  in.StaffName,
		Department: in.Department,
		Year:       in.Year,
		Section:    in.Section,
		Subject:    in.Subject,
		AssignedAt: s.now(),
	}
	if err := s.records.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// ListStaff returns all staff accounts.
func (s *RecordsService) ListStaff(ctx context.Context) ([]*core.Account, error) {
	return s.users.ListByRole(ctx, core.RoleStaff)
}

// ListUsers returns all accounts.
func (s *RecordsService) ListUsers(ctx context.Context) ([]*core.Account, error) {
	return s.users.List(ctx)
}

// RecordMarksInput carries a student's scores for one subject.
type RecordMarksInput struct {
	StudentReg string
	Name       string
	Year       int
	Department string
	Section    string
	Subject    string
	UT1        decimal.Decimal
	UT2        decimal.Decimal
	UT3        decimal.Decimal
	Model      decimal.Decimal
	Sem        decimal.Decimal
}

// RecordMarks inserts or updates a student's mark sheet for a subject. The
// internal score is the average of the three unit tests, rounded to two
// decimal places.
func (s *RecordsService) RecordMarks(ctx context.Context, in RecordMarksInput) (*core.MarkSheet, error) {
	required := map[string]string{
		"studentReg": in.StudentReg,
		"name":       in.Name,
		"department": in.Department,
		"section":    in.Section,
		"subject":    in.Subject,
	}
	if err := requireFields(required); err != nil {
		return nil, err
	}

	internal := in.UT1.Add(in.UT2).Add(in.UT3).Div(decimal.NewFromInt(3)).Round(2)

	sheet := &core.MarkSheet{
		ID:         uuid.NewString(),
		StudentReg: in.StudentReg,
		Name:       in.Name,
		Year:       in.Year,
		Department: in.Department,
		Section:    in.Section,
		Subject:    in.Subject,
		UT1:        in.UT1,
		UT2:        in.UT2,
		UT3:        in.UT3,
		Model:      in.Model,
		Sem:        in.Sem,
		Internal:   internal,
		UpdatedAt:  s.now(),
	}
	if err := s.records.UpsertMarks(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// StudentMarks returns all mark sheets for a student.
func (s *RecordsService) StudentMarks(ctx context.Context, studentReg string) ([]*core.MarkSheet, error) {
	if studentReg == "" {
		return nil, fmt.Errorf("%w: studentReg", core.ErrMissingField)
	}
	return s.records.ListMarksByStudent(ctx, studentReg)
}

// MarkAttendance records a student as present, stamped with who marked it.
func (s *RecordsService) MarkAttendance(ctx context.Context, studentReg, name, markedBy string) (*core.AttendanceRecord, error) {
	required := map[string]string{
		"studentReg": studentReg,
		"name":       name,
	}
	if err := requireFields(required); err != nil {
		return nil, err
	}

	record := &core.AttendanceRecord{
		ID:         uuid.NewString(),
		StudentReg: studentReg,
		Name:       name,
		Present:    true,
		MarkedBy:   markedBy,
		MarkedAt:   s.now(),
	}
	if err := s.records.UpsertAttendance(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListAttendance returns all attendance records.
func (s *RecordsService) ListAttendance(ctx context.Context) ([]*core.AttendanceRecord, error) {
	return s.records.ListAttendance(ctx)
}

// EnsureAdmin creates the initial admin account when none exists. Safe to run
// on every startup.
func (s *RecordsService) EnsureAdmin(ctx context.Context, username, name, password string) (created bool, err error) {
	admins, err := s.users.ListByRole(ctx, core.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if len(admins) > 0 {
		return false, nil
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	admin := &core.Account{
		ID:           uuid.NewString(),
		Role:         core.RoleAdmin,
		Username:     username,
		Name:         name,
		PasswordHash: digest,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, core.ErrAccountExists) {
			// Another instance won the race; treat as already provisioned.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%w: %s", core.ErrMissingField, name)
		}
	}
	return nil
}
