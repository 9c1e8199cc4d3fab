package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/safetracker_system/internal/config"
	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository определяет контракт для работы с бд пользователей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.User, error)
}

// SignUpInput - данные регистрации
type SignUpInput struct {
	Username string
	Email    string
	Mobile   string
	Password string
	Role     string
	Address  string
}

// ProfileUpdate - необязательные поля профиля
type ProfileUpdate struct {
	Username              *string
	Email                 *string
	Address               *string
	EmergencyContactEmail *string
}

// UserService определяет контракт для управления пользователями и сессиями
type UserService interface {
	SignUp(ctx context.Context, input SignUpInput) (*models.User, error)
	// Login возвращает пользователя и подписанный JWT
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error)
	ApproveVolunteer(ctx context.Context, userID uuid.UUID) (*models.User, error)
	// DeleteUser удаляет пользователя и каскадно разбирает его инциденты
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type userService struct {
	repo      UserRepository
	incidents IncidentRepository
	logger    *logrus.Logger
	cfg       *config.Config
}

func NewUserService(repo UserRepository, incidents IncidentRepository, logger *logrus.Logger, cfg *config.Config) UserService {
	return &userService{
		repo:      repo,
		incidents: incidents,
		logger:    logger,
		cfg:       cfg,
	}
}

// SignUp регистрирует пользователя. Волонтеры обязаны указать адрес
// и создаются неподтвержденными до одобрения администратором.
func (s *userService) SignUp(ctx context.Context, input SignUpInput) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "SignUp",
		"username": input.Username,
		"role":     input.Role,
	})
	log.Info("Attempting to sign up a new user")

	role, ok := models.ParseRole(input.Role)
	if !ok || role == models.RoleAdmin {
		// Администраторы не регистрируются через публичный API
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
	}

	address := strings.TrimSpace(input.Address)
	if role == models.RoleVolunteer && address == "" {
		return nil, fmt.Errorf("%w: volunteer must enter address", ErrValidation)
	}
	if role == models.RoleUser && address != "" {
		return nil, fmt.Errorf("%w: user should not provide address", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, fmt.Errorf("service: could not hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		Mobile:       input.Mobile,
		PasswordHash: string(hash),
		Role:         role,
		Address:      address,
		IsApproved:   role != models.RoleVolunteer,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		log.WithError(err).Warn("Failed to create user in repository")
		return nil, fmt.Errorf("service: could not create user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User signed up successfully")
	return user, nil
}

// Login проверяет учетные данные и выдает JWT.
// Неподтвержденные волонтеры не допускаются до входа.
func (s *userService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "Login",
		"username": username,
	})
	log.Info("Attempting to log in")

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		log.WithError(err).Warn("Login failed: user not found")
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("Login failed: password mismatch")
		return nil, "", ErrInvalidCredentials
	}

	if user.Role == models.RoleVolunteer && !user.IsApproved {
		log.Warn("Login rejected: volunteer is pending approval")
		return nil, "", ErrNotApproved
	}

	token, err := s.generateToken(user)
	if err != nil {
		log.WithError(err).Error("Failed to sign session token")
		return nil, "", fmt.Errorf("service: could not sign token: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, token, nil
}

// generateToken подписывает HS256 JWT с идентификатором и ролью пользователя
func (s *userService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"exp":  time.Now().Add(s.cfg.JWTTTL).Unix(),
		"iss":  "safetracker",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}

// UpdateProfile изменяет поля профиля. Уникальность username/email
// обеспечивается ограничениями бд.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "UpdateProfile",
		"user_id": userID,
	})
	log.Info("Attempting to update profile")

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Profile update failed: user not found")
		return nil, fmt.Errorf("service: could not load user: %w", err)
	}

	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Address != nil {
		user.Address = strings.TrimSpace(*upd.Address)
	}
	if upd.EmergencyContactEmail != nil {
		user.EmergencyContactEmail = upd.EmergencyContactEmail
	}

	if err := s.repo.Update(ctx, user); err != nil {
		log.WithError(err).Warn("Failed to update user in repository")
		return nil, fmt.Errorf("service: could not update user: %w", err)
	}

	log.Info("Profile updated successfully")
	return user, nil
}

// ApproveVolunteer помечает волонтера одобренным
func (s *userService) ApproveVolunteer(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "ApproveVolunteer",
		"user_id": userID,
	})
	log.Info("Attempting to approve volunteer")

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Approve failed: user not found")
		return nil, fmt.Errorf("service: could not load user: %w", err)
	}

	if user.Role != models.RoleVolunteer {
		return nil, fmt.Errorf("%w: only volunteers need approval", ErrValidation)
	}

	user.IsApproved = true
	if err := s.repo.Update(ctx, user); err != nil {
		log.WithError(err).Error("Failed to update user in repository")
		return nil, fmt.Errorf("service: could not approve volunteer: %w", err)
	}

	log.Info("Volunteer approved successfully")
	return user, nil
}

// DeleteUser удаляет пользователя. Инциденты, созданные им, удаляются;
// инциденты, которые он вел как волонтер, возвращаются в reported без волонтера.
func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "DeleteUser",
		"user_id": userID,
	})
	log.Info("Attempting to delete user")

	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		log.WithError(err).Warn("Delete failed: user not found")
		return fmt.Errorf("service: could not load user: %w", err)
	}

	if err := s.incidents.DeleteByReporter(ctx, userID); err != nil {
		log.WithError(err).Error("Failed to delete reporter incidents")
		return fmt.Errorf("service: could not delete reporter incidents: %w", err)
	}
	if err := s.incidents.ReleaseAssignments(ctx, userID); err != nil {
		log.WithError(err).Error("Failed to release volunteer assignments")
		return fmt.Errorf("service: could not release assignments: %w", err)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		log.WithError(err).Error("Failed to delete user in repository")
		return fmt.Errorf("service: could not delete user: %w", err)
	}

	log.Info("User and their incidents removed successfully")
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list users")
		return nil, fmt.Errorf("service: could not list users: %w", err)
	}
	return users, nil
}
