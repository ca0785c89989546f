package api

import (
	"github.com/phrazzld/taskward/internal/domain"
)

// Common request/response structures

// SignUpRequest defines the payload for the user sign-up endpoint.
// Name is optional; a blank name falls back to the default.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      int    `json:"age"      validate:"omitempty,gt=0"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse pairs the user's public profile with a freshly issued
// session token. Sign-up and login both return this shape.
type AuthResponse struct {
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

// MessageResponse is the success shape for endpoints that return no
// entity, only a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse pairs a user with a confirmation message, returned by
// profile mutations.
type UserResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// TaskResponse pairs a task with a confirmation message, returned by
// task mutations.
type TaskResponse struct {
	Task    *domain.Task `json:"task"`
	Message string       `json:"message"`
}

// UpdateUserRequest defines the payload for profile updates. All fields
// are pointers so a field absent from the body is left unchanged; the
// allow-list check happens at decode time.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Age      *int    `json:"age"      validate:"omitempty,gt=0"`
}

// updateUserFields is the allow-list of profile fields a client may change.
var updateUserFields = []string{"name", "email", "password", "age"}

// CreateTaskRequest defines the payload for task creation. The owner
// always comes from the authenticated identity.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// UpdateTaskRequest defines the payload for task updates. Pointer fields
// distinguish "absent" from zero values.
type UpdateTaskRequest struct {
	Description *string `json:"description" validate:"omitempty,min=1"`
	Completed   *bool   `json:"completed"`
}

// updateTaskFields is the allow-list of task fields a client may change.
var updateTaskFields = []string{"description", "completed"}
