package service

import "errors"

// Доменные ошибки. Хендлеры сопоставляют их с HTTP-статусами через errors.Is,
// всё остальное отдается клиенту как внутренняя ошибка без деталей.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrNotOwner           = errors.New("actor does not own this incident")
	ErrNotApproved        = errors.New("volunteer account is pending admin approval")
	ErrNotEligible        = errors.New("volunteer is not eligible for this incident")
	ErrUnauthorized       = errors.New("operation is not allowed for this role")
	ErrInvalidTransition  = errors.New("action is not allowed from the current status")
	ErrAlreadyAssigned    = errors.New("incident is already assigned to a volunteer")
	ErrAlreadyExists      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
