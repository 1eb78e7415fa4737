package store

import (
	"context"
	"sort"
	"sync"

	"github.com/campuskit/registrar/core"
)

// MemoryStore is an in-memory implementation of the UserStore and RecordStore
// interfaces, primarily intended for tests.
type MemoryStore struct {
	mu          sync.RWMutex
	accounts    map[string]*core.Account
	assignments []*core.StaffAssignment
	marks       map[string]*core.MarkSheet // keyed by studentReg+"/"+subject
	attendance  map[string]*core.AttendanceRecord
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:   make(map[string]*core.Account),
		marks:      make(map[string]*core.MarkSheet),
		attendance: make(map[string]*core.AttendanceRecord),
	}
}

func (s *MemoryStore) FindByRoleAndIdentifier(_ context.Context, role core.Role, identifier string) (*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Role == role && a.Identifier() == identifier {
			cp := *a
			return &cp, nil
		}
	}
	return nil, core.ErrAccountNotFound
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) Create(_ context.Context, account *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Role == account.Role && a.Identifier() == account.Identifier() {
			return core.ErrAccountExists
		}
	}
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *MemoryStore) ListByRole(_ context.Context, role core.Role) ([]*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.Account
	for _, a := range s.accounts {
		if a.Role == role {
			cp := *a
			out = append(out, &cp)
		}
	}
	sortAccounts(out)
	return out, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := *a
		out = append(out, &cp)
	}
	sortAccounts(out)
	return out, nil
}

func (s *MemoryStore) CreateAssignment(_ context.Context, assignment *core.StaffAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *assignment
	s.assignments = append(s.assignments, &cp)
	return nil
}

func (s *MemoryStore) ListAssignments(_ context.Context) ([]*core.StaffAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.StaffAssignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) UpsertMarks(_ context.Context, sheet *core.MarkSheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sheet
	s.marks[sheet.StudentReg+"/"+sheet.Subject] = &cp
	return nil
}

func (s *MemoryStore) ListMarksByStudent(_ context.Context, studentReg string) ([]*core.MarkSheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.MarkSheet
	for _, m := range s.marks {
		if m.StudentReg == studentReg {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out, nil
}

func (s *MemoryStore) UpsertAttendance(_ context.Context, record *core.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *record
	s.attendance[record.StudentReg] = &cp
	return nil
}

func (s *MemoryStore) ListAttendance(_ context.Context) ([]*core.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.AttendanceRecord
	for _, r := range s.attendance {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentReg < out[j].StudentReg })
	return out, nil
}

func sortAccounts(accounts []*core.Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
}
