package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/campuskit/registrar/core"
	"github.com/campuskit/registrar/service"
)

// Handlers contains the HTTP handlers for the auth and records endpoints.
type Handlers struct {
	authService    *service.AuthService
	recordsService *service.RecordsService
}

// NewHandlers creates new handlers.
func NewHandlers(authService *service.AuthService, recordsService *service.RecordsService) *Handlers {
	return &Handlers{
		authService:    authService,
		recordsService: recordsService,
	}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Role         string `json:"role" binding:"required"`
	Identifier   string `json:"identifier" binding:"required"`
	Password     string `json:"password" binding:"required"`
	CaptchaID    string `json:"captchaId" binding:"required"`
	CaptchaInput string `json:"captchaInput" binding:"required"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// UserResponse is an account with its credential digest stripped.
type UserResponse struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	StudentReg  string `json:"studentReg,omitempty"`
	StaffID     string `json:"staffId,omitempty"`
	Username    string `json:"username,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Year        int    `json:"year,omitempty"`
	Department  string `json:"department,omitempty"`
	Section     string `json:"section,omitempty"`
	DOB         string `json:"dob,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Designation string `json:"designation,omitempty"`
}

func toUserResponse(a *core.Account) UserResponse {
	return UserResponse{
		ID:          a.ID,
		Role:        a.Role.String(),
		Name:        a.Name,
		StudentReg:  a.StudentReg,
		StaffID:     a.StaffID,
		Username:    a.Username,
		Degree:      a.Degree,
		Year:        a.Year,
		Department:  a.Department,
		Section:     a.Section,
		DOB:         a.DOB,
		Email:       a.Email,
		Phone:       a.Phone,
		Designation: a.Designation,
	}
}

// Ping handles the health endpoint.
func (h *Handlers) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Captcha issues a fresh challenge. Always creates a new one.
func (h *Handlers) Captcha(c *gin.Context) {
	ch, err := h.authService.CreateChallenge(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create captcha"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": ch.ID, "captcha": ch.Text})
}

// Login handles the login request.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, account, err := h.authService.Login(
		c.Request.Context(),
		req.Role, req.Identifier, req.Password,
		req.CaptchaID, req.CaptchaInput,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidChallenge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired captcha"})
		case errors.Is(err, core.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		case errors.Is(err, core.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		Role:  account.Role.String(),
		Name:  account.Name,
	})
}

// Me returns the authenticated identity's own claims.
func (h *Handlers) Me(c *gin.Context) {
	role, _ := c.Get(ContextRoleKey)
	c.JSON(http.StatusOK, gin.H{
		"subjectId": c.GetString(ContextSubjectKey),
		"role":      role,
		"name":      c.GetString(ContextNameKey),
	})
}

// AddStudentRequest is the enroll-student payload.
type AddStudentRequest struct {
	StudentReg string `json:"studentReg"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Degree     string `json:"degree"`
	Year       int    `json:"year"`
	Department string `json:"department"`
	Section    string `json:"section"`
	DOB        string `json:"dob"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// AddStudent enrolls a new student.
func (h *Handlers) AddStudent(c *gin.Context) {
	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	account, err := h.recordsService.AddStudent(c.Request.Context(), service.AddStudentInput{
		StudentReg: req.StudentReg,
		Name:       req.Name,
		Password:   req.Password,
		Degree:     req.Degree,
		Year:       req.Year,
		Department: req.Department,
		Section:    req.Section,
		DOB:        req.DOB,
		Email:      req.Email,
		Phone:      req.Phone,
	})
	if err != nil {
		h.recordError(c, err, "student already exists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "student added", "user": toUserResponse(account)})
}

// AddStaffRequest is the register-staff payload.
type AddStaffRequest struct {
	StaffID     string `json:"staffId"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// AddStaff registers a new staff member.
func (h *Handlers) AddStaff(c *gin.Context) {
	var req AddStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	account, err := h.recordsService.AddStaff(c.Request.Context(), service.AddStaffInput{
		StaffID:     req.StaffID,
		Name:        req.Name,
		Password:    req.Password,
		Email:       req.Email,
		Phone:       req.Phone,
		Department:  req.Department,
		Designation: req.Designation,
	})
	if err != nil {
		h.recordError(c, err, "staff already exists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "staff added", "user": toUserResponse(account)})
}

// AssignStaffRequest is the assign-staff payload.
type AssignStaffRequest struct {
	StaffID    string `json:"staffId"`
	StaffName  string `json:"staffName"`
	Department string `json:"department"`
	Year       int    `json:"year"`
	Section    string `json:"section"`
	Subject    string `json:"subject"`
}

// AssignStaff records a staff-to-class assignment.
func (h *Handlers) AssignStaff(c *gin.Context) {
	var req AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.recordsService.AssignStaff(c.Request.Context(), service.AssignStaffInput{
		StaffID:    req.StaffID,
		StaffName:  req.StaffName,
		Department: req.Department,
		Year:       req.Year,
		Section:    req.Section,
		Subject:    req.Subject,
	})
	if err != nil {
		h.recordError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "staff assigned successfully"})
}

// StaffList returns all staff accounts.
func (h *Handlers) StaffList(c *gin.Context) {
	staff, err := h.recordsService.ListStaff(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	out := make([]UserResponse, 0, len(staff))
	for _, a := range staff {
		out = append(out, toUserResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

// Users returns all accounts, digests stripped.
func (h *Handlers) Users(c *gin.Context) {
	users, err := h.recordsService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, a := range users {
		out = append(out, toUserResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

// RecordMarksRequest is the record-marks payload.
type RecordMarksRequest struct {
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
}

// RecordMarks inserts or updates a student's marks for a subject.
func (h *Handlers) RecordMarks(c *gin.Context) {
	var req RecordMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sheet, err := h.recordsService.RecordMarks(c.Request.Context(), service.RecordMarksInput{
		StudentReg: req.StudentReg,
		Name:       req.Name,
		Year:       req.Year,
		Department: req.Department,
		Section:    req.Section,
		Subject:    req.Subject,
		UT1:        req.UT1,
		UT2:        req.UT2,
		UT3:        req.UT3,
		Model:      req.Model,
		Sem:        req.Sem,
	})
	if err != nil {
		h.recordError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "marks recorded", "internal": sheet.Internal})
}

// StudentMarks returns all mark sheets for a student.
func (h *Handlers) StudentMarks(c *gin.Context) {
	sheets, err := h.recordsService.StudentMarks(c.Request.Context(), c.Param("studentReg"))
	if err != nil {
		h.recordError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, sheets)
}

// MarkAttendanceRequest is the mark-attendance payload.
type MarkAttendanceRequest struct {
	StudentReg string `json:"studentReg"`
	Name       string `json:"name"`
}

// MarkAttendance records a student as present.
func (h *Handlers) MarkAttendance(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	record, err := h.recordsService.MarkAttendance(
		c.Request.Context(),
		req.StudentReg, req.Name,
		c.GetString(ContextSubjectKey),
	)
	if err != nil {
		h.recordError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "attendance marked", "record": record})
}

// AttendanceList returns all attendance records.
func (h *Handlers) AttendanceList(c *gin.Context) {
	records, err := h.recordsService.ListAttendance(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// recordError maps record-service failures onto HTTP statuses.
func (h *Handlers) recordError(c *gin.Context, err error, existsMsg string) {
	switch {
	case errors.Is(err, core.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrAccountExists):
		if existsMsg == "" {
			existsMsg = "already exists"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": existsMsg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
