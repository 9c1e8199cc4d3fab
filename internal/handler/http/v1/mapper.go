package v1

import "github.com/shenikar/safetracker_system/internal/models"

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:            model.ID,
		Title:         model.Title,
		FullAddress:   model.FullAddress,
		Latitude:      model.Latitude,
		Longitude:     model.Longitude,
		Status:        string(model.Status),
		ReporterID:    model.ReporterID,
		VolunteerID:   model.VolunteerID,
		ReporterName:  model.ReporterName,
		VolunteerName: model.VolunteerName,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToUserResponse преобразует пользователя в DTO для ответа.
// Хеш пароля наружу не отдается.
func ModelToUserResponse(model *models.User) *UserResponse {
	return &UserResponse{
		ID:                    model.ID,
		Username:              model.Username,
		Email:                 model.Email,
		Mobile:                model.Mobile,
		Role:                  string(model.Role),
		Address:               model.Address,
		EmergencyContactEmail: model.EmergencyContactEmail,
		IsApproved:            model.IsApproved,
		CreatedAt:             model.CreatedAt,
	}
}

// ModelsToUserResponses преобразует слайс пользователей в слайс DTO
func ModelsToUserResponses(models []*models.User) []*UserResponse {
	responses := make([]*UserResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToUserResponse(model)
	}
	return responses
}

// ModelToComplaintResponse преобразует обращение в DTO для ответа
func ModelToComplaintResponse(model *models.Complaint) *ComplaintResponse {
	return &ComplaintResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Subject:   model.Subject,
		Message:   model.Message,
		CreatedAt: model.CreatedAt,
	}
}

// ModelsToComplaintResponses преобразует слайс обращений в слайс DTO
func ModelsToComplaintResponses(models []*models.Complaint) []*ComplaintResponse {
	responses := make([]*ComplaintResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToComplaintResponse(model)
	}
	return responses
}

// StatsToResponse преобразует сводку в DTO для ответа
func StatsToResponse(stats *models.PlatformStats) *StatsResponse {
	byStatus := make(map[string]int, len(stats.IncidentsByStatus))
	for status, count := range stats.IncidentsByStatus {
		byStatus[string(status)] = count
	}
	return &StatsResponse{
		IncidentsByStatus: byStatus,
		ActiveReporters:   stats.ActiveReporters,
	}
}
