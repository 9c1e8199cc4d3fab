package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safetracker_system/internal/config"
	"github.com/shenikar/safetracker_system/internal/dispatch"
	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/shenikar/safetracker_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*models.Incident, error)
	ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*models.Incident, error)
	ListByStatus(ctx context.Context, status models.IncidentStatus) ([]*models.Incident, error)
	// Assign выполняет условное назначение: статус меняется на accepted только если
	// инцидент все еще reported и без волонтера. false означает проигранную гонку.
	Assign(ctx context.Context, incidentID, volunteerID uuid.UUID) (bool, error)
	DeleteByReporter(ctx context.Context, reporterID uuid.UUID) error
	ReleaseAssignments(ctx context.Context, volunteerID uuid.UUID) error
	CountByStatus(ctx context.Context) (map[models.IncidentStatus]int, error)
	CountRecentReporters(ctx context.Context, minutes int) (int, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// IncidentUpdate - необязательные поля, которые репортер может изменить до назначения
type IncidentUpdate struct {
	Title       *string
	FullAddress *string
	Latitude    *float64
	Longitude   *float64
}

// IncidentService определяет контракт для бизнес-логики жизненного цикла инцидентов.
// Идентификатор актора всегда берется из проверенной сессии, не из тела запроса.
type IncidentService interface {
	Report(ctx context.Context, reporterID uuid.UUID, incident *models.Incident) error
	Get(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Edit(ctx context.Context, incidentID, reporterID uuid.UUID, upd IncidentUpdate) (*models.Incident, error)
	Cancel(ctx context.Context, incidentID, reporterID uuid.UUID) error
	Accept(ctx context.Context, incidentID, volunteerID uuid.UUID) (*models.Incident, error)
	Advance(ctx context.Context, incidentID, volunteerID uuid.UUID, action models.AdvanceAction) (*models.Incident, error)
	Confirm(ctx context.Context, incidentID, reporterID uuid.UUID, confirmed bool) (*models.Incident, error)
	UpdateLiveLocation(ctx context.Context, incidentID, volunteerID uuid.UUID, lat, lng float64) error
	ListAll(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	ListByStatus(ctx context.Context, status models.IncidentStatus) ([]*models.Incident, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*models.Incident, error)
	ListAvailable(ctx context.Context, volunteerID uuid.UUID) ([]*models.Incident, error)
	ListAssigned(ctx context.Context, volunteerID uuid.UUID) ([]*models.Incident, error)
	Stats(ctx context.Context) (*models.PlatformStats, error)
}

type incidentService struct {
	repo      IncidentRepository
	users     UserRepository
	matcher   *dispatch.Matcher
	logger    *logrus.Logger
	cfg       *config.Config
	publisher webhook.EventPublisher
}

func NewIncidentService(repo IncidentRepository, users UserRepository, matcher *dispatch.Matcher, logger *logrus.Logger, cfg *config.Config, publisher webhook.EventPublisher) IncidentService {
	return &incidentService{
		repo:      repo,
		users:     users,
		matcher:   matcher,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
	}
}

// publishTransition отправляет событие жизненного цикла в очередь.
// Ошибка публикации не отменяет уже выполненный переход, только логируется.
func (s *incidentService) publishTransition(ctx context.Context, incident *models.Incident, action string, from models.IncidentStatus, actorID uuid.UUID) {
	event := webhook.IncidentEvent{
		IncidentID: incident.ID,
		Action:     action,
		FromStatus: from,
		ToStatus:   incident.Status,
		ActorID:    actorID,
		Timestamp:  incident.UpdatedAt,
		Incident:   incident,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("incident_id", incident.ID).Warn("Failed to publish incident event")
	}
}

// Report создает новый инцидент в статусе reported
func (s *incidentService) Report(ctx context.Context, reporterID uuid.UUID, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Report",
		"reporter_id": reporterID,
		"title":       incident.Title,
	})
	log.Info("Attempting to report a new incident")

	incident.ReporterID = reporterID
	incident.Status = models.StatusReported
	incident.VolunteerID = nil

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not report incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported successfully")
	s.publishTransition(ctx, incident, "report", "", reporterID)
	return nil
}

// Get возвращает инцидент по ID, сначала проверяя кеш
func (s *incidentService) Get(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Get",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	if incident.Status.RequiresVolunteer() && incident.VolunteerID == nil {
		log.WithField("status", incident.Status).Warn("Incident row violates the assignment invariant")
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// Edit изменяет поля инцидента. Разрешено только репортеру и только до назначения волонтера.
func (s *incidentService) Edit(ctx context.Context, incidentID, reporterID uuid.UUID, upd IncidentUpdate) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Edit",
		"incident_id": incidentID,
		"reporter_id": reporterID,
	})
	log.Info("Attempting to edit incident")

	incident, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Attempted to edit a non-existent incident")
		return nil, fmt.Errorf("service: could not edit incident: %w", err)
	}

	if incident.ReporterID != reporterID {
		log.Warn("Edit rejected: actor is not the reporter")
		return nil, ErrNotOwner
	}
	if !incident.Status.Editable() {
		log.WithField("status", incident.Status).Warn("Edit rejected: incident is already assigned")
		return nil, ErrInvalidTransition
	}

	if upd.Title != nil {
		incident.Title = *upd.Title
	}
	if upd.FullAddress != nil {
		incident.FullAddress = *upd.FullAddress
	}
	if upd.Latitude != nil {
		incident.Latitude = upd.Latitude
	}
	if upd.Longitude != nil {
		incident.Longitude = upd.Longitude
	}

	if err := s.repo.Update(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return nil, fmt.Errorf("service: could not update incident: %w", err)
	}
	if err := s.repo.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.Info("Incident edited successfully")
	return incident, nil
}

// Cancel удаляет инцидент. Те же ограничения, что и у Edit.
func (s *incidentService) Cancel(ctx context.Context, incidentID, reporterID uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Cancel",
		"incident_id": incidentID,
		"reporter_id": reporterID,
	})
	log.Info("Attempting to cancel incident")

	incident, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Attempted to cancel a non-existent incident")
		return fmt.Errorf("service: could not cancel incident: %w", err)
	}

	if incident.ReporterID != reporterID {
		log.Warn("Cancel rejected: actor is not the reporter")
		return ErrNotOwner
	}
	if !incident.Status.Editable() {
		log.WithField("status", incident.Status).Warn("Cancel rejected: incident is already assigned")
		return ErrInvalidTransition
	}

	if err := s.repo.Delete(ctx, incidentID); err != nil {
		log.WithError(err).Error("Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}
	if err := s.repo.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.Info("Incident cancelled successfully")
	return nil
}

// Accept назначает инцидент одобренному подходящему волонтеру.
// Назначение атомарное: при конкурентных попытках выигрывает ровно одна,
// остальные получают ErrAlreadyAssigned.
func (s *incidentService) Accept(ctx context.Context, incidentID, volunteerID uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "incident",
		"method":       "Accept",
		"incident_id":  incidentID,
		"volunteer_id": volunteerID,
	})
	log.Info("Attempting to accept incident")

	volunteer, err := s.users.GetByID(ctx, volunteerID)
	if err != nil {
		log.WithError(err).Warn("Accept rejected: volunteer not found")
		return nil, fmt.Errorf("service: could not load volunteer: %w", err)
	}
	if volunteer.Role != models.RoleVolunteer {
		log.WithField("role", volunteer.Role).Warn("Accept rejected: actor is not a volunteer")
		return nil, ErrUnauthorized
	}
	if !volunteer.IsApproved {
		log.Warn("Accept rejected: volunteer is not approved")
		return nil, ErrNotApproved
	}

	incident, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Accept rejected: incident not found")
		return nil, fmt.Errorf("service: could not load incident: %w", err)
	}
	if incident.Status != models.StatusReported {
		if incident.VolunteerID != nil {
			log.Warn("Accept rejected: incident is already assigned")
			return nil, ErrAlreadyAssigned
		}
		log.WithField("status", incident.Status).Warn("Accept rejected: invalid status")
		return nil, ErrInvalidTransition
	}
	if !s.matcher.IsEligible(incident, volunteer) {
		log.Warn("Accept rejected: volunteer is not eligible by locality")
		return nil, ErrNotEligible
	}

	assigned, err := s.repo.Assign(ctx, incidentID, volunteerID)
	if err != nil {
		log.WithError(err).Error("Failed to assign incident in repository")
		return nil, fmt.Errorf("service: could not assign incident: %w", err)
	}
	if !assigned {
		// Кто-то успел принять между чтением и условным обновлением
		log.Warn("Accept lost the race: incident was assigned concurrently")
		return nil, ErrAlreadyAssigned
	}

	from := incident.Status
	incident.Status = models.StatusAccepted
	incident.VolunteerID = &volunteerID
	// Условный UPDATE уже обновил updated_at в строке, выравниваем копию в памяти
	incident.UpdatedAt = time.Now()

	if err := s.repo.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.Info("Incident accepted successfully")
	s.publishTransition(ctx, incident, "accept", from, volunteerID)
	return incident, nil
}

// Advance выполняет действие назначенного волонтера по таблице переходов
func (s *incidentService) Advance(ctx context.Context, incidentID, volunteerID uuid.UUID, action models.AdvanceAction) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "incident",
		"method":       "Advance",
		"incident_id":  incidentID,
		"volunteer_id": volunteerID,
		"action":       action,
	})
	log.Info("Attempting to advance incident")

	incident, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Advance rejected: incident not found")
		return nil, fmt.Errorf("service: could not load incident: %w", err)
	}

	if incident.VolunteerID == nil || *incident.VolunteerID != volunteerID {
		log.Warn("Advance rejected: actor is not the assigned volunteer")
		return nil, ErrNotOwner
	}

	to, ok := action.Transition(incident.Status)
	if !ok {
		log.WithField("status", incident.Status).Warn("Advance rejected: transition is not in the table")
		return nil, ErrInvalidTransition
	}

	from := incident.Status
	incident.Status = to
	if err := s.repo.Update(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return nil, fmt.Errorf("service: could not advance incident: %w", err)
	}
	if err := s.repo.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.WithField("to", to).Info("Incident advanced successfully")
	s.publishTransition(ctx, incident, string(action), from, volunteerID)
	return incident, nil
}

// Confirm - решение репортера по завершенной работе: закрыть инцидент
// или вернуть его волонтеру в работу
func (s *incidentService) Confirm(ctx context.Context, incidentID, reporterID uuid.UUID, confirmed bool) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Confirm",
		"incident_id": incidentID,
		"reporter_id": reporterID,
		"confirmed":   confirmed,
	})
	log.Info("Attempting to confirm incident completion")

	incident, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Confirm rejected: incident not found")
		return nil, fmt.Errorf("service: could not load incident: %w", err)
	}

	if incident.ReporterID != reporterID {
		log.Warn("Confirm rejected: actor is not the reporter")
		return nil, ErrNotOwner
	}
	if incident.Status != models.StatusAwaitingConfirmation {
		log.WithField("status", incident.Status).Warn("Confirm rejected: incident is not awaiting confirmation")
		return nil, ErrInvalidTransition
	}

	from := incident.Status
	if confirmed {
		incident.Status = models.StatusClosed
	} else {
		// Репортер оспорил завершение: инцидент возвращается тому же волонтеру
		incident.Status = models.StatusInProgress
	}

	if err := s.repo.Update(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return nil, fmt.Errorf("service: could not confirm incident: %w", err)
	}
	if err := s.repo.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.WithField("status", incident.Status).Info("Confirmation recorded")
	s.publishTransition(ctx, incident, "confirm", from, reporterID)
	return incident, nil
}

// UpdateLiveLocation обновляет координаты инцидента во время работы волонтера
func (s *incidentService) UpdateLiveLocation(ctx context.Context, incidentID, volunteerID uuid.UUID, lat, lng float64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "incident",
		"method":       "UpdateLiveLocation",
		"incident_id":  incidentID,
		"volunteer_id": volunteerID,
	})

	incident, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Live location rejected: incident not found")
		return fmt.Errorf("service: could not load incident: %w", err)
	}

	if incident.VolunteerID == nil || *incident.VolunteerID != volunteerID {
		log.Warn("Live location rejected: actor is not the assigned volunteer")
		return ErrNotOwner
	}
	if !incident.Status.LocationUpdatable() {
		log.WithField("status", incident.Status).Warn("Live location rejected: incident is not active")
		return ErrInvalidTransition
	}

	incident.Latitude = &lat
	incident.Longitude = &lng
	if err := s.repo.Update(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return fmt.Errorf("service: could not update live location: %w", err)
	}
	if err := s.repo.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	return nil
}

// ListAll возвращает все инциденты с пагинацией (админ)
func (s *incidentService) ListAll(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListAll",
		"page":      page,
		"page_size": pageSize,
	})

	incidents, err := s.repo.ListAll(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// ListByStatus возвращает все инциденты в заданном статусе (админ)
func (s *incidentService) ListByStatus(ctx context.Context, status models.IncidentStatus) ([]*models.Incident, error) {
	incidents, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to list incidents by status")
		return nil, fmt.Errorf("service: could not list incidents by status: %w", err)
	}
	return incidents, nil
}

// ListByReporter возвращает инциденты, созданные репортером
func (s *incidentService) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*models.Incident, error) {
	incidents, err := s.repo.ListByReporter(ctx, reporterID)
	if err != nil {
		s.logger.WithError(err).WithField("reporter_id", reporterID).Error("Failed to list reporter incidents")
		return nil, fmt.Errorf("service: could not list reporter incidents: %w", err)
	}
	return incidents, nil
}

// ListAvailable возвращает нераспределенные инциденты, подходящие волонтеру по локальности
func (s *incidentService) ListAvailable(ctx context.Context, volunteerID uuid.UUID) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "incident",
		"method":       "ListAvailable",
		"volunteer_id": volunteerID,
	})

	volunteer, err := s.users.GetByID(ctx, volunteerID)
	if err != nil {
		log.WithError(err).Warn("List available rejected: volunteer not found")
		return nil, fmt.Errorf("service: could not load volunteer: %w", err)
	}
	if volunteer.Role != models.RoleVolunteer {
		return nil, ErrUnauthorized
	}
	if !volunteer.IsApproved {
		return nil, ErrNotApproved
	}

	reported, err := s.repo.ListByStatus(ctx, models.StatusReported)
	if err != nil {
		log.WithError(err).Error("Failed to list reported incidents")
		return nil, fmt.Errorf("service: could not list available incidents: %w", err)
	}

	eligible := s.matcher.FilterEligible(reported, volunteer)
	log.WithFields(logrus.Fields{"reported": len(reported), "eligible": len(eligible)}).Info("Available incidents filtered")
	return eligible, nil
}

// ListAssigned возвращает инциденты, назначенные волонтеру
func (s *incidentService) ListAssigned(ctx context.Context, volunteerID uuid.UUID) ([]*models.Incident, error) {
	incidents, err := s.repo.ListByVolunteer(ctx, volunteerID)
	if err != nil {
		s.logger.WithError(err).WithField("volunteer_id", volunteerID).Error("Failed to list assigned incidents")
		return nil, fmt.Errorf("service: could not list assigned incidents: %w", err)
	}
	return incidents, nil
}

// Stats возвращает сводку по инцидентам для админ-панели
func (s *incidentService) Stats(ctx context.Context) (*models.PlatformStats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Stats",
	})

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count incidents by status")
		return nil, fmt.Errorf("service: could not get stats: %w", err)
	}

	reporters, err := s.repo.CountRecentReporters(ctx, s.cfg.StatsTimeWindowMinutes)
	if err != nil {
		log.WithError(err).Error("Failed to count recent reporters")
		return nil, fmt.Errorf("service: could not get stats: %w", err)
	}

	return &models.PlatformStats{
		IncidentsByStatus: byStatus,
		ActiveReporters:   reporters,
	}, nil
}
