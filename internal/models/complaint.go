package models

import (
	"time"
)

// Complaint представляет обращение из контактной формы.
// Жизненного цикла у обращений нет: только создание, просмотр и удаление.
type Complaint struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
