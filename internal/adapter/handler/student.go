package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voiceattendance/voice-attendance/internal/adapter/dto/common"
	studentDTO "github.com/voiceattendance/voice-attendance/internal/adapter/dto/student"
	"github.com/voiceattendance/voice-attendance/internal/adapter/presenter"
	studentUsecase "github.com/voiceattendance/voice-attendance/internal/usecase/student"
)

// Student handles roster management HTTP requests (admin only)
type Student struct {
	studentService studentUsecase.Service
	logger         *zap.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService studentUsecase.Service, logger *zap.Logger) *Student {
	return &Student{
		studentService: studentService,
		logger:         logger,
	}
}

// Create handles POST /admin/students
// @Summary      Register a student
// @Description  Adds a student to the roster
// @Tags         Students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      student.CreateStudentRequest  true  "New student"
// @Success      201      {object}  student.StudentResponse       "Student registered"
// @Failure      400      {object}  map[string]interface{}        "Invalid request"
// @Failure      409      {object}  map[string]interface{}        "Student ID already exists"
// @Router       /admin/students [post]
func (h *Student) Create(c echo.Context) error {
	var req studentDTO.CreateStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.studentService.Register(c.Request().Context(), studentUsecase.RegisterInput{
		StudentID: req.StudentID,
		Name:      req.Name,
		Branch:    req.Branch,
		Year:      req.Year,
	})
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusCreated, presenter.ToStudentResponse(created))
}

// List handles GET /admin/students
// @Summary      List students
// @Description  Returns a page of the roster
// @Tags         Students
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number (default: 1)"
// @Param        page_size  query     int  false  "Items per page (default: 20)"
// @Success      200        {object}  common.ListResponse     "Roster page"
// @Failure      500        {object}  map[string]interface{}  "Failed to list students"
// @Router       /admin/students [get]
func (h *Student) List(c echo.Context) error {
	var req studentDTO.ListStudentsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	limit, offset := pageParams(req.Page, req.PageSize)
	students, total, err := h.studentService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, common.ListResponse{
		Data:       presenter.ToStudentResponses(students),
		Pagination: common.NewPagination(req.Page, req.PageSize, total),
	})
}

// Get handles GET /admin/students/:student_id
// @Summary      Get a student
// @Description  Returns one roster entry by external student ID
// @Tags         Students
// @Produce      json
// @Security     BearerAuth
// @Param        student_id  path      string  true  "Student ID"
// @Success      200         {object}  student.StudentResponse  "Student"
// @Failure      404         {object}  map[string]interface{}   "Student not found"
// @Router       /admin/students/{student_id} [get]
func (h *Student) Get(c echo.Context) error {
	found, err := h.studentService.Get(c.Request().Context(), c.Param("student_id"))
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToStudentResponse(found))
}

// Update handles PUT /admin/students/:student_id
// @Summary      Update a student
// @Description  Changes a student's editable fields
// @Tags         Students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        student_id  path      string                        true  "Student ID"
// @Param        request     body      student.UpdateStudentRequest  true  "Fields to change"
// @Success      200         {object}  student.StudentResponse       "Updated student"
// @Failure      404         {object}  map[string]interface{}        "Student not found"
// @Router       /admin/students/{student_id} [put]
func (h *Student) Update(c echo.Context) error {
	var req studentDTO.UpdateStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.studentService.Update(c.Request().Context(), c.Param("student_id"), studentUsecase.UpdateInput{
		Name:   req.Name,
		Branch: req.Branch,
		Year:   req.Year,
	})
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToStudentResponse(updated))
}

// Profile handles GET /student/profile
// @Summary      Own profile
// @Description  Returns the authenticated student's roster entry, including voice enrollment status
// @Tags         Students
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  student.StudentResponse  "Profile"
// @Failure      404  {object}  map[string]interface{}   "Student not found"
// @Router       /student/profile [get]
func (h *Student) Profile(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	found, err := h.studentService.Get(c.Request().Context(), claims.StudentID)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToStudentResponse(found))
}

// Delete handles DELETE /admin/students/:student_id
// @Summary      Remove a student
// @Description  Deletes a student together with their voice profile
// @Tags         Students
// @Produce      json
// @Security     BearerAuth
// @Param        student_id  path      string  true  "Student ID"
// @Success      200         {object}  map[string]string       "Student removed"
// @Failure      404         {object}  map[string]interface{}  "Student not found"
// @Router       /admin/students/{student_id} [delete]
func (h *Student) Delete(c echo.Context) error {
	if err := h.studentService.Remove(c.Request().Context(), c.Param("student_id")); err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Student removed successfully",
	})
}
