package service

import (
	"context"
	"fmt"

	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ComplaintRepository определяет контракт для работы с бд обращений
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	List(ctx context.Context) ([]*models.Complaint, error)
	Delete(ctx context.Context, id int64) error
}

// ComplaintService определяет контракт для обращений из контактной формы
type ComplaintService interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	List(ctx context.Context) ([]*models.Complaint, error)
	Delete(ctx context.Context, id int64) error
}

type complaintService struct {
	repo   ComplaintRepository
	logger *logrus.Logger
}

func NewComplaintService(repo ComplaintRepository, logger *logrus.Logger) ComplaintService {
	return &complaintService{
		repo:   repo,
		logger: logger,
	}
}

// Create сохраняет обращение из контактной формы
func (s *complaintService) Create(ctx context.Context, complaint *models.Complaint) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "complaint",
		"method":  "Create",
		"email":   complaint.Email,
	})

	if err := s.repo.Create(ctx, complaint); err != nil {
		log.WithError(err).Error("Failed to create complaint in repository")
		return fmt.Errorf("service: could not create complaint: %w", err)
	}

	log.WithField("complaint_id", complaint.ID).Info("Complaint created successfully")
	return nil
}

// List возвращает все обращения, новые первыми
func (s *complaintService) List(ctx context.Context) ([]*models.Complaint, error) {
	complaints, err := s.repo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list complaints")
		return nil, fmt.Errorf("service: could not list complaints: %w", err)
	}
	return complaints, nil
}

// Delete удаляет обращение
func (s *complaintService) Delete(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "complaint",
		"method":       "Delete",
		"complaint_id": id,
	})

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to delete complaint")
		return fmt.Errorf("service: could not delete complaint: %w", err)
	}

	log.Info("Complaint deleted successfully")
	return nil
}
