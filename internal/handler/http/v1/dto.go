package v1

import (
	"time"

	"github.com/google/uuid"
)

// ReportIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type ReportIncidentRequest struct {
	Title       string   `json:"title" validate:"required,min=2,max=255"`
	FullAddress string   `json:"full_address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// UpdateIncidentRequest DTO для редактирования инцидента репортером
// @Description DTO для редактирования инцидента
type UpdateIncidentRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	FullAddress *string  `json:"full_address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// AdvanceIncidentRequest DTO для действия волонтера
// @Description DTO для действия волонтера
type AdvanceIncidentRequest struct {
	Action string `json:"action" validate:"required,oneof=in_progress complete"`
}

// ConfirmIncidentRequest DTO для подтверждения завершения репортером
// @Description DTO для подтверждения завершения репортером
type ConfirmIncidentRequest struct {
	Confirmed *bool `json:"confirmed" validate:"required"`
}

// LiveLocationRequest DTO для обновления live-координат волонтером
// @Description DTO для обновления live-координат
type LiveLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	FullAddress   string     `json:"full_address"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	Status        string     `json:"status"`
	ReporterID    uuid.UUID  `json:"reporter_id"`
	VolunteerID   *uuid.UUID `json:"volunteer_id,omitempty"`
	ReporterName  string     `json:"reporter_name,omitempty"`
	VolunteerName string     `json:"volunteer_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SignUpRequest DTO для регистрации пользователя
// @Description DTO для регистрации пользователя
type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=user volunteer"`
	Address  string `json:"address,omitempty"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse DTO для ответа с информацией о пользователе
// @Description DTO для ответа с информацией о пользователе
type UserResponse struct {
	ID                    uuid.UUID `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	Mobile                string    `json:"mobile"`
	Role                  string    `json:"role"`
	Address               string    `json:"address,omitempty"`
	EmergencyContactEmail *string   `json:"emergency_contact_email,omitempty"`
	IsApproved            bool      `json:"is_approved"`
	CreatedAt             time.Time `json:"created_at"`
}

// LoginResponse DTO для ответа на вход
// @Description DTO для ответа на вход
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateProfileRequest DTO для обновления профиля
// @Description DTO для обновления профиля
type UpdateProfileRequest struct {
	Username              *string `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	Email                 *string `json:"email,omitempty" validate:"omitempty,email"`
	Address               *string `json:"address,omitempty"`
	EmergencyContactEmail *string `json:"emergency_contact_email,omitempty" validate:"omitempty,email"`
}

// CreateComplaintRequest DTO для обращения из контактной формы
// @Description DTO для обращения из контактной формы
type CreateComplaintRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=2,max=255"`
	Message string `json:"message" validate:"required"`
}

// ComplaintResponse DTO для ответа с обращением
// @Description DTO для ответа с обращением
type ComplaintResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	IncidentsByStatus map[string]int `json:"incidents_by_status"`
	ActiveReporters   int            `json:"active_reporters"`
}
