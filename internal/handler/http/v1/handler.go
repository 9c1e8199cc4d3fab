package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/safetracker_system/internal/config"
	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/shenikar/safetracker_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService  service.IncidentService
	userService      service.UserService
	complaintService service.ComplaintService
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
}

func NewHandler(incidentService service.IncidentService, userService service.UserService, complaintService service.ComplaintService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService:  incidentService,
		userService:      userService,
		complaintService: complaintService,
		logger:           logger,
		validate:         validator.New(),
		cfg:              cfg,
	}
}

// respondServiceError сопоставляет доменные ошибки с HTTP-статусами.
// Неопознанные ошибки наружу не раскрываются.
func (h *Handler) respondServiceError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
	case errors.Is(err, service.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": service.ErrAlreadyAssigned.Error()})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrNotOwner.Error()})
	case errors.Is(err, service.ErrNotApproved):
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrNotApproved.Error()})
	case errors.Is(err, service.ErrNotEligible):
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrNotEligible.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrUnauthorized.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidTransition.Error()})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrAlreadyExists.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Unexpected service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// incidentIDParam разбирает :id из пути
func incidentIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Report a new incident
// @Description Create a new incident in status "reported". Requires user role.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body ReportIncidentRequest true "Incident report request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) reportIncident(c *gin.Context) {
	log := h.logger.WithField("method", "reportIncident")
	actorID, _, _ := actorFromContext(c)

	var input ReportIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident := &models.Incident{
		Title:       input.Title,
		FullAddress: input.FullAddress,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}
	if err := h.incidentService.Report(c.Request.Context(), actorID, incident); err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// @Summary Get a list of all incidents
// @Description Get a paginated list of all incidents, optionally filtered by status. Admin only.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Param status query string false "Filter by lifecycle status ('pending' is accepted as a legacy alias of 'reported')"
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Unknown status value"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseIncidentStatus(raw)
		if !ok {
			log.WithField("status", raw).Warn("Unknown incident status in filter")
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown incident status"})
			return
		}

		incidents, err := h.incidentService.ListByStatus(c.Request.Context(), status)
		if err != nil {
			h.respondServiceError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	incidents, err := h.incidentService.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get own incidents
// @Description Get incidents reported by the authenticated user.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/my [get]
func (h *Handler) listMyIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listMyIncidents")
	actorID, _, _ := actorFromContext(c)

	incidents, err := h.incidentService.ListByReporter(c.Request.Context(), actorID)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incidents available to the volunteer
// @Description Get unassigned incidents matched to the volunteer locality. Approved volunteers only.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Success 200 {array} IncidentResponse
// @Failure 403 {object} map[string]string "Volunteer not approved"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/available [get]
func (h *Handler) listAvailableIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listAvailableIncidents")
	actorID, _, _ := actorFromContext(c)

	incidents, err := h.incidentService.ListAvailable(c.Request.Context(), actorID)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incidents assigned to the volunteer
// @Description Get incidents currently assigned to the authenticated volunteer.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/assigned [get]
func (h *Handler) listAssignedIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listAssignedIncidents")
	actorID, _, _ := actorFromContext(c)

	incidents, err := h.incidentService.ListAssigned(c.Request.Context(), actorID)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Any authenticated role.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Edit an incident
// @Description Edit an unassigned incident. Reporter only, status "reported" only.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request or state"
// @Failure 403 {object} map[string]string "Not the reporter"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [put]
func (h *Handler) updateIncident(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)
	actorID, _, _ := actorFromContext(c)

	var input UpdateIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.incidentService.Edit(c.Request.Context(), id, actorID, service.IncidentUpdate{
		Title:       input.Title,
		FullAddress: input.FullAddress,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	})
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Cancel an incident
// @Description Delete an unassigned incident. Reporter only, status "reported" only.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid incident ID or state"
// @Failure 403 {object} map[string]string "Not the reporter"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [delete]
func (h *Handler) deleteIncident(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deleteIncident").WithField("id", id)
	actorID, _, _ := actorFromContext(c)

	if err := h.incidentService.Cancel(c.Request.Context(), id, actorID); err != nil {
		h.respondServiceError(c, log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Accept an incident
// @Description Atomically assign a reported incident to the authenticated volunteer. Exactly one concurrent accept wins.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID or state"
// @Failure 403 {object} map[string]string "Not approved or not eligible"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Incident already assigned"
// @Router /incidents/{id}/accept [put]
func (h *Handler) acceptIncident(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "acceptIncident").WithField("id", id)
	actorID, _, _ := actorFromContext(c)

	incident, err := h.incidentService.Accept(c.Request.Context(), id, actorID)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Advance an incident
// @Description Perform a lifecycle action ("in_progress" or "complete") as the assigned volunteer.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param action body AdvanceIncidentRequest true "Lifecycle action"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid action or state"
// @Failure 403 {object} map[string]string "Not the assigned volunteer"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id}/advance [put]
func (h *Handler) advanceIncident(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "advanceIncident").WithField("id", id)
	actorID, _, _ := actorFromContext(c)

	var input AdvanceIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.incidentService.Advance(c.Request.Context(), id, actorID, models.AdvanceAction(input.Action))
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Confirm incident completion
// @Description Close the incident or send it back to the volunteer. Reporter only.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param confirmation body ConfirmIncidentRequest true "Confirmation decision"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request or state"
// @Failure 403 {object} map[string]string "Not the reporter"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id}/confirm [put]
func (h *Handler) confirmIncident(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "confirmIncident").WithField("id", id)
	actorID, _, _ := actorFromContext(c)

	var input ConfirmIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.incidentService.Confirm(c.Request.Context(), id, actorID, *input.Confirmed)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Update live location
// @Description Update incident coordinates while working on it. Assigned volunteer only.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param location body LiveLocationRequest true "Current coordinates"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid request or state"
// @Failure 403 {object} map[string]string "Not the assigned volunteer"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id}/location [put]
func (h *Handler) updateLiveLocation(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateLiveLocation").WithField("id", id)
	actorID, _, _ := actorFromContext(c)

	var input LiveLocationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.incidentService.UpdateLiveLocation(c.Request.Context(), id, actorID, input.Latitude, input.Longitude); err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
