package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Student IDs are roll numbers like CS001 or EE2024-07.
var studentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("student_id", validStudentID)
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

func validStudentID(fl validator.FieldLevel) bool {
	return studentIDPattern.MatchString(fl.Field().String())
}
