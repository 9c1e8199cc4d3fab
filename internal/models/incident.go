package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentStatus - статус жизненного цикла инцидента
type IncidentStatus string

const (
	StatusReported             IncidentStatus = "reported"
	StatusAccepted             IncidentStatus = "accepted"
	StatusInProgress           IncidentStatus = "in_progress"
	StatusAwaitingConfirmation IncidentStatus = "awaiting_confirmation"
	StatusClosed               IncidentStatus = "closed"
)

// AllIncidentStatuses - полный список статусов, используется в проверках и статистике
var AllIncidentStatuses = []IncidentStatus{
	StatusReported,
	StatusAccepted,
	StatusInProgress,
	StatusAwaitingConfirmation,
	StatusClosed,
}

// ParseIncidentStatus нормализует строковый статус.
// Клиенты старой версии присылают "pending" вместо "reported".
func ParseIncidentStatus(s string) (IncidentStatus, bool) {
	if s == "pending" {
		return StatusReported, true
	}
	for _, st := range AllIncidentStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// AdvanceAction - действие волонтера, продвигающее инцидент по жизненному циклу
type AdvanceAction string

const (
	ActionStart    AdvanceAction = "in_progress"
	ActionComplete AdvanceAction = "complete"
)

// advanceTransitions описывает допустимые переходы для действий волонтера
var advanceTransitions = map[AdvanceAction]struct {
	From IncidentStatus
	To   IncidentStatus
}{
	ActionStart:    {From: StatusAccepted, To: StatusInProgress},
	ActionComplete: {From: StatusInProgress, To: StatusAwaitingConfirmation},
}

// Transition возвращает целевой статус для действия из текущего статуса.
// false означает, что действие из этого статуса недопустимо.
func (a AdvanceAction) Transition(from IncidentStatus) (IncidentStatus, bool) {
	t, ok := advanceTransitions[a]
	if !ok || t.From != from {
		return "", false
	}
	return t.To, true
}

// Incident представляет зарегистрированный инцидент безопасности
type Incident struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	FullAddress string         `json:"full_address"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	Status      IncidentStatus `json:"status"`
	ReporterID  uuid.UUID      `json:"reporter_id"`
	VolunteerID *uuid.UUID     `json:"volunteer_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Имена заполняются join-ом при выборке списков, в таблице не хранятся
	ReporterName  string `json:"reporter_name,omitempty"`
	VolunteerName string `json:"volunteer_name,omitempty"`
}

// Editable сообщает, может ли репортер редактировать или отменять инцидент.
// Разрешено только до назначения волонтера.
func (s IncidentStatus) Editable() bool {
	return s == StatusReported
}

// RequiresVolunteer - инвариант: в этих статусах у инцидента обязательно
// назначен волонтер. В reported волонтера быть не может, в closed он
// остается для истории, но обнуляется при удалении аккаунта.
func (s IncidentStatus) RequiresVolunteer() bool {
	switch s {
	case StatusAccepted, StatusInProgress, StatusAwaitingConfirmation:
		return true
	}
	return false
}

// LocationUpdatable сообщает, может ли назначенный волонтер обновлять live-координаты
func (s IncidentStatus) LocationUpdatable() bool {
	return s == StatusAccepted || s == StatusInProgress
}
