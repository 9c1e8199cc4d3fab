package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/shenikar/safetracker_system/internal/service"
)

// @Summary Sign up a new user
// @Description Register a user or a volunteer. Volunteers must provide an address and wait for admin approval.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body SignUpRequest true "Signup request"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/signup [post]
func (h *Handler) signUp(c *gin.Context) {
	log := h.logger.WithField("method", "signUp")

	var input SignUpRequest
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

	user, err := h.userService.SignUp(c.Request.Context(), service.SignUpInput{
		Username: input.Username,
		Email:    input.Email,
		Mobile:   input.Mobile,
		Password: input.Password,
		Role:     input.Role,
		Address:  input.Address,
	})
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToUserResponse(user))
}

// @Summary Log in
// @Description Check credentials and return a signed session token. Unapproved volunteers are rejected.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Invalid credentials"
// @Failure 403 {object} map[string]string "Volunteer pending approval"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	log := h.logger.WithField("method", "login")

	var input LoginRequest
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

	user, token, err := h.userService.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  *ModelToUserResponse(user),
	})
}

// @Summary Get own profile
// @Description Get the authenticated user's profile.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /profile [get]
func (h *Handler) getProfile(c *gin.Context) {
	log := h.logger.WithField("method", "getProfile")
	actorID, _, _ := actorFromContext(c)

	user, err := h.userService.GetByID(c.Request.Context(), actorID)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Update own profile
// @Description Update username, email, address or emergency contact of the authenticated user.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Profile update request"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body or name taken"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /profile [put]
func (h *Handler) updateProfile(c *gin.Context) {
	log := h.logger.WithField("method", "updateProfile")
	actorID, _, _ := actorFromContext(c)

	var input UpdateProfileRequest
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

	user, err := h.userService.UpdateProfile(c.Request.Context(), actorID, service.ProfileUpdate{
		Username:              input.Username,
		Email:                 input.Email,
		Address:               input.Address,
		EmergencyContactEmail: input.EmergencyContactEmail,
	})
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// userIDParam разбирает :id из пути
func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary List all users
// @Description Get all registered users. Admin only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /admin/users [get]
func (h *Handler) listUsers(c *gin.Context) {
	log := h.logger.WithField("method", "listUsers")

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToUserResponses(users))
}

// @Summary Approve a volunteer
// @Description Mark a volunteer account as approved. Admin only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "User is not a volunteer"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/users/{id}/approve [put]
func (h *Handler) approveVolunteer(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "approveVolunteer").WithField("id", id)

	user, err := h.userService.ApproveVolunteer(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Delete a user
// @Description Delete a user and cascade their incidents: reported ones are removed, assignments are released. Admin only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deleteUser").WithField("id", id)

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get platform statistics
// @Description Get incident counts per status and recent reporter activity. Admin only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /admin/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.incidentService.Stats(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, StatsToResponse(stats))
}

// @Summary Create a complaint
// @Description Submit a contact-form complaint. No authentication required.
// @Tags Complaints
// @Accept json
// @Produce json
// @Param complaint body CreateComplaintRequest true "Complaint request"
// @Success 201 {object} ComplaintResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Router /complaints [post]
func (h *Handler) createComplaint(c *gin.Context) {
	log := h.logger.WithField("method", "createComplaint")

	var input CreateComplaintRequest
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

	complaint := &models.Complaint{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := h.complaintService.Create(c.Request.Context(), complaint); err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToComplaintResponse(complaint))
}

// @Summary List complaints
// @Description Get all contact-form complaints, newest first. Admin only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ComplaintResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /admin/complaints [get]
func (h *Handler) listComplaints(c *gin.Context) {
	log := h.logger.WithField("method", "listComplaints")

	complaints, err := h.complaintService.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToComplaintResponses(complaints))
}

// @Summary Delete a complaint
// @Description Delete a contact-form complaint. Admin only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid complaint ID"
// @Failure 404 {object} map[string]string "Complaint not found"
// @Router /admin/complaints/{id} [delete]
func (h *Handler) deleteComplaint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint ID"})
		return
	}
	log := h.logger.WithField("method", "deleteComplaint").WithField("id", id)

	if err := h.complaintService.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
