package user

import (
	"fmt"

	errs "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/core/common/validation"
)

type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

func (dto UserRequest) Validate() *errs.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(100)
	v.Field("email", dto.Email).Required().MaxLength(255).Email()
	if dto.Password != "" {
		v.Field("password", dto.Password).Custom(minLength("password", 8))
	}
	return v.Validate()
}

func minLength(field string, min int) func(interface{}) *errs.AppError {
	return func(value interface{}) *errs.AppError {
		if s, ok := value.(string); ok && len(s) < min {
			return errs.NewValidationFieldError(field, fmt.Sprintf("%s must be at least %d characters", field, min), errs.ErrCodeValidationFailed)
		}
		return nil
	}
}

type ListResponse struct {
	Users   []User `json:"users"`
	Success bool   `json:"success"`
}

type DetailResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}
