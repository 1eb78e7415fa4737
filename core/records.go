package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// StaffAssignment links a staff member to a class and subject.
type StaffAssignment struct {
	ID         string    `json:"id"`
	StaffID    string    `json:"staffId"`
	StaffName  string    `json:"staffName"`
	Department string    `json:"department"`
	Year       int       `json:"year"`
	Section    string    `json:"section"`
	Subject    string    `json:"subject"`
	AssignedAt time.Time `json:"assignedAt"`
}

// MarkSheet holds a student's scores for one subject. Scores are decimals so
// internal-average arithmetic stays exact.
type MarkSheet struct {
	ID         string          `json:"id"`
	StudentReg string          `json:"studentReg"`
	Name       string          `json:"name"`
	Year       int             `json:"year"`
	Department string          `json:"department"`
	Section    string          `json:"section"`
	Subject    string          `json:"subject"`
	UT1        decimal.Decimal `json:"ut1"`
	UT2        decimal.Decimal `json:"ut2"`
	UT3        decimal.Decimal `json:"ut3"`
	Model      decimal.Decimal `json:"model"`
	Sem        decimal.Decimal `json:"sem"`
	Internal   decimal.Decimal `json:"internal"` // average of the three unit tests
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// AttendanceRecord tracks a student's presence for the current day.
type AttendanceRecord struct {
	ID         string    `json:"id"`
	StudentReg string    `json:"studentReg"`
	Name       string    `json:"name"`
	Present    bool      `json:"present"`
	MarkedBy   string    `json:"markedBy"`
	MarkedAt   time.Time `json:"markedAt"`
}
