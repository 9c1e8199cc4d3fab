package models

import (
	"time"

	"github.com/google/uuid"
)

// Role - роль пользователя в системе
type Role string

const (
	RoleUser      Role = "user"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// ParseRole проверяет и нормализует строковую роль
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleVolunteer, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User представляет пользователя платформы: репортера, волонтера или администратора
type User struct {
	ID                    uuid.UUID `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	Mobile                string    `json:"mobile"`
	PasswordHash          string    `json:"-"`
	Role                  Role      `json:"role"`
	ProfileImage          *string   `json:"profile_image,omitempty"`
	Address               string    `json:"address,omitempty"`
	EmergencyContactEmail *string   `json:"emergency_contact_email,omitempty"`
	// Волонтеры создаются неподтвержденными и ждут одобрения администратора
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}
