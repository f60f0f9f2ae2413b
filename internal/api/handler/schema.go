package handler

import (
	"time"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

// errorResponse mirrors httperror.Response for the API docs.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=regular admin"`
}

// loginRequest carries no validation rules: blank fields are a failed login
// and the service reports them as invalid credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// --- Courses ---

type createCourseRequest struct {
	Title         string `json:"title"          validate:"required,max=200"`
	Description   string `json:"description"    validate:"max=4000"`
	Instructor    string `json:"instructor"     validate:"max=120"`
	DurationHours int    `json:"duration_hours" validate:"min=0"`
}

// updateCourseRequest is a partial update; omitted fields keep their value.
type updateCourseRequest struct {
	Title         *string `json:"title"          validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description"    validate:"omitempty,max=4000"`
	Instructor    *string `json:"instructor"     validate:"omitempty,max=120"`
	DurationHours *int    `json:"duration_hours" validate:"omitempty,min=0"`
}

func (r updateCourseRequest) patch() domain.CoursePatch {
	return domain.CoursePatch{
		Title:         r.Title,
		Description:   r.Description,
		Instructor:    r.Instructor,
		DurationHours: r.DurationHours,
	}
}

type courseListResponse struct {
	Data  []*domain.Course `json:"data"`
	Count int              `json:"count"`
}

type userListResponse struct {
	Data  []*domain.User `json:"data"`
	Count int            `json:"count"`
}
