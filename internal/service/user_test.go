package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/safetracker_system/internal/config"
	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/shenikar/safetracker_system/internal/service"
	"github.com/shenikar/safetracker_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

// newTestUserService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestUserService(t *testing.T) (service.UserService, *mocks.MockUserRepository, *mocks.MockIncidentRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		JWTSecret: testJWTSecret,
		JWTTTL:    time.Hour,
	}

	svc := service.NewUserService(repoMock, incidentsMock, logger, cfg)
	return svc, repoMock, incidentsMock
}

func TestSignUp_User_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	input := service.SignUpInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Mobile:   "+79000000001",
		Password: "secret123",
		Role:     "user",
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, user *models.User) error {
			user.ID = uuid.New()
			user.CreatedAt = time.Now()
			return nil
		}).
		Times(1)

	// Действие
	user, err := svc.SignUp(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsApproved)
	// Пароль сохранен в виде bcrypt-хеша
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)))
}

func TestSignUp_Volunteer_StartsUnapproved(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	input := service.SignUpInput{
		Username: "volunteer",
		Email:    "vol@example.com",
		Mobile:   "+79000000002",
		Password: "secret123",
		Role:     "volunteer",
		Address:  "Невский проспект",
	}

	// Ожидания
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	user, err := svc.SignUp(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.RoleVolunteer, user.Role)
	assert.False(t, user.IsApproved)
}

func TestSignUp_Volunteer_RequiresAddress(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	input := service.SignUpInput{
		Username: "volunteer",
		Email:    "vol@example.com",
		Mobile:   "+79000000002",
		Password: "secret123",
		Role:     "volunteer",
		Address:  "   ",
	}

	// Ожидания
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.SignUp(ctx, input)

	// Проверки
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestSignUp_User_AddressRejected(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	input := service.SignUpInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Mobile:   "+79000000001",
		Password: "secret123",
		Role:     "user",
		Address:  "Невский проспект",
	}

	// Ожидания
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.SignUp(ctx, input)

	// Проверки
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestSignUp_AdminRoleRejected(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	input := service.SignUpInput{
		Username: "hacker",
		Email:    "hacker@example.com",
		Mobile:   "+79000000003",
		Password: "secret123",
		Role:     "admin",
	}

	// Ожидания
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.SignUp(ctx, input)

	// Проверки
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	input := service.SignUpInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Mobile:   "+79000000001",
		Password: "secret123",
		Role:     "user",
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		Return(fmt.Errorf("failed to create user: %w", service.ErrAlreadyExists)).
		Times(1)

	// Действие
	_, err := svc.SignUp(ctx, input)

	// Проверки
	assert.ErrorIs(t, err, service.ErrAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{
		ID:           uuid.New(),
		Username:     "ivan",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsApproved:   true,
	}

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "ivan").Return(stored, nil).Times(1)

	// Действие
	user, token, err := svc.Login(ctx, "ivan", "secret123")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	require.NotEmpty(t, token)

	// Токен подписан нашим секретом и несет идентификатор и роль
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, stored.ID.String(), claims["sub"])
	assert.Equal(t, string(models.RoleUser), claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{
		ID:           uuid.New(),
		Username:     "ivan",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsApproved:   true,
	}

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "ivan").Return(stored, nil).Times(1)

	// Действие
	_, _, err = svc.Login(ctx, "ivan", "wrong-password")

	// Проверки
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().
		GetByUsername(ctx, "ghost").
		Return(nil, fmt.Errorf("user %q: %w", "ghost", service.ErrNotFound)).
		Times(1)

	// Действие
	_, _, err := svc.Login(ctx, "ghost", "secret123")

	// Проверки: не раскрываем, что именно не совпало
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UnapprovedVolunteerRejected(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{
		ID:           uuid.New(),
		Username:     "volunteer",
		PasswordHash: string(hash),
		Role:         models.RoleVolunteer,
		IsApproved:   false,
	}

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "volunteer").Return(stored, nil).Times(1)

	// Действие
	_, _, err = svc.Login(ctx, "volunteer", "secret123")

	// Проверки
	assert.ErrorIs(t, err, service.ErrNotApproved)
}

func TestApproveVolunteer_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	volunteer := &models.User{
		ID:         uuid.New(),
		Username:   "volunteer",
		Role:       models.RoleVolunteer,
		IsApproved: false,
	}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, volunteer.ID).Return(volunteer, nil).Times(1)
	repoMock.EXPECT().Update(ctx, volunteer).Return(nil).Times(1)

	// Действие
	approved, err := svc.ApproveVolunteer(ctx, volunteer.ID)

	// Проверки
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
}

func TestApproveVolunteer_NotAVolunteer(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	user := &models.User{
		ID:       uuid.New(),
		Username: "ivan",
		Role:     models.RoleUser,
	}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, user.ID).Return(user, nil).Times(1)
	repoMock.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.ApproveVolunteer(ctx, user.ID)

	// Проверки
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestUpdateProfile_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestUserService(t)
	ctx := context.Background()
	user := &models.User{
		ID:       uuid.New(),
		Username: "ivan",
		Email:    "ivan@example.com",
		Role:     models.RoleUser,
	}
	newEmail := "new@example.com"

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, user.ID).Return(user, nil).Times(1)
	repoMock.EXPECT().Update(ctx, user).Return(nil).Times(1)

	// Действие
	updated, err := svc.UpdateProfile(ctx, user.ID, service.ProfileUpdate{Email: &newEmail})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, newEmail, updated.Email)
	assert.Equal(t, "ivan", updated.Username)
}

func TestDeleteUser_CascadesIncidents(t *testing.T) {
	// Подготовка
	svc, repoMock, incidentsMock := newTestUserService(t)
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Username: "ivan", Role: models.RoleUser}

	// Ожидания: сначала разбираются инциденты, затем удаляется пользователь
	repoMock.EXPECT().GetByID(ctx, user.ID).Return(user, nil).Times(1)
	gomock.InOrder(
		incidentsMock.EXPECT().DeleteByReporter(ctx, user.ID).Return(nil).Times(1),
		incidentsMock.EXPECT().ReleaseAssignments(ctx, user.ID).Return(nil).Times(1),
		repoMock.EXPECT().Delete(ctx, user.ID).Return(nil).Times(1),
	)

	// Действие
	err := svc.DeleteUser(ctx, user.ID)

	// Проверки
	require.NoError(t, err)
}

func TestDeleteUser_NotFound(t *testing.T) {
	// Подготовка
	svc, repoMock, incidentsMock := newTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, userID).
		Return(nil, fmt.Errorf("user %s: %w", userID, service.ErrNotFound)).
		Times(1)
	incidentsMock.EXPECT().DeleteByReporter(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := svc.DeleteUser(ctx, userID)

	// Проверки
	assert.ErrorIs(t, err, service.ErrNotFound)
}
