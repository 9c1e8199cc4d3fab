package models

// PlatformStats - сводка для админ-панели
type PlatformStats struct {
	// Количество инцидентов в каждом статусе
	IncidentsByStatus map[IncidentStatus]int `json:"incidents_by_status"`
	// Количество уникальных репортеров за последнее окно времени
	ActiveReporters int `json:"active_reporters"`
}
