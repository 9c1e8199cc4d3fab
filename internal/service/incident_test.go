package service_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safetracker_system/internal/config"
	"github.com/shenikar/safetracker_system/internal/dispatch"
	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/shenikar/safetracker_system/internal/service"
	"github.com/shenikar/safetracker_system/internal/service/mocks"
	"github.com/shenikar/safetracker_system/internal/webhook"
	webhook_mocks "github.com/shenikar/safetracker_system/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (service.IncidentService, *mocks.MockIncidentRepository, *mocks.MockUserRepository, *webhook_mocks.MockEventPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	usersMock := mocks.NewMockUserRepository(ctrl)
	publisherMock := webhook_mocks.NewMockEventPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		StatsTimeWindowMinutes: 60,
	}

	svc := service.NewIncidentService(repoMock, usersMock, dispatch.NewMatcher(), logger, cfg, publisherMock)
	return svc, repoMock, usersMock, publisherMock
}

// approvedVolunteer возвращает одобренного волонтера с заданным адресом
func approvedVolunteer(address string) *models.User {
	return &models.User{
		ID:         uuid.New(),
		Username:   "volunteer",
		Role:       models.RoleVolunteer,
		Address:    address,
		IsApproved: true,
	}
}

func reportedIncident(reporterID uuid.UUID, address string) *models.Incident {
	return &models.Incident{
		ID:          uuid.New(),
		Title:       "Прорыв трубы",
		FullAddress: address,
		Status:      models.StatusReported,
		ReporterID:  reporterID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestReport_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	reporterID := uuid.New()
	incident := &models.Incident{Title: "Пожар в подъезде", FullAddress: "Невский проспект, 1"}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			inc.ID = uuid.New()
			inc.CreatedAt = time.Now()
			inc.UpdatedAt = inc.CreatedAt
			return nil
		}).
		Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	err := svc.Report(ctx, reporterID, incident)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusReported, incident.Status)
	assert.Equal(t, reporterID, incident.ReporterID)
	assert.Nil(t, incident.VolunteerID)
	assert.NotEqual(t, uuid.Nil, incident.ID)
}

func TestReport_PublishFailureDoesNotFailReport(t *testing.T) {
	// Подготовка
	svc, repoMock, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{Title: "Обрыв провода"}

	// Ожидания: ошибка публикации только логируется
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(fmt.Errorf("redis down")).Times(1)

	// Действие
	err := svc.Report(ctx, uuid.New(), incident)

	// Проверки
	require.NoError(t, err)
}

func TestGet_Success_FromCache(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:    incidentID,
		Title: "Тестовый инцидент из кеша",
	}

	// Ожидания
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// Действие
	incident, err := svc.Get(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGet_Success_FromDB(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:    incidentID,
		Title: "Тестовый инцидент из БД",
	}

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil).
		Times(1)

	// 2. Попадание в БД
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// 3. Запись в кеш
	repoMock.EXPECT().
		SetIncidentCache(ctx, expectedIncident).
		Return(nil).
		Times(1)

	// Действие
	incident, err := svc.Get(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGet_NotFound(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, nil).Times(1)
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, fmt.Errorf("incident %s: %w", incidentID, service.ErrNotFound)).
		Times(1)

	// Действие
	incident, err := svc.Get(ctx, incidentID)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Nil(t, incident)
}

func TestEdit_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	reporterID := uuid.New()
	incident := reportedIncident(reporterID, "Садовая улица, 5")
	newTitle := "Уточненное название"

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(ctx, incident).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)

	// Действие
	updated, err := svc.Edit(ctx, incident.ID, reporterID, service.IncidentUpdate{Title: &newTitle})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
}

func TestEdit_NotOwner(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := reportedIncident(uuid.New(), "Садовая улица, 5")
	otherUser := uuid.New()
	newTitle := "Чужое редактирование"

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.Edit(ctx, incident.ID, otherUser, service.IncidentUpdate{Title: &newTitle})

	// Проверки
	assert.ErrorIs(t, err, service.ErrNotOwner)
}

func TestEdit_AfterAssignmentRejected(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	reporterID := uuid.New()
	volunteerID := uuid.New()
	incident := reportedIncident(reporterID, "Садовая улица, 5")
	incident.Status = models.StatusAccepted
	incident.VolunteerID = &volunteerID
	newTitle := "Поздняя правка"

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.Edit(ctx, incident.ID, reporterID, service.IncidentUpdate{Title: &newTitle})

	// Проверки
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestCancel_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	reporterID := uuid.New()
	incident := reportedIncident(reporterID, "Лиговский проспект, 10")

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Delete(ctx, incident.ID).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)

	// Действие
	err := svc.Cancel(ctx, incident.ID, reporterID)

	// Проверки
	require.NoError(t, err)
}

func TestCancel_AfterAssignmentRejected(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	reporterID := uuid.New()
	volunteerID := uuid.New()
	incident := reportedIncident(reporterID, "Лиговский проспект, 10")
	incident.Status = models.StatusInProgress
	incident.VolunteerID = &volunteerID

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := svc.Cancel(ctx, incident.ID, reporterID)

	// Проверки
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestAccept_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, usersMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	volunteer := approvedVolunteer("Центральный район, Невский")
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")

	// Ожидания
	usersMock.EXPECT().GetByID(ctx, volunteer.ID).Return(volunteer, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Assign(ctx, incident.ID, volunteer.ID).Return(true, nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	accepted, err := svc.Accept(ctx, incident.ID, volunteer.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.VolunteerID)
	assert.Equal(t, volunteer.ID, *accepted.VolunteerID)
}

func TestAccept_NotVolunteerRole(t *testing.T) {
	// Подготовка
	svc, _, usersMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Role: models.RoleUser, IsApproved: true}

	// Ожидания
	usersMock.EXPECT().GetByID(ctx, user.ID).Return(user, nil).Times(1)

	// Действие
	_, err := svc.Accept(ctx, uuid.New(), user.ID)

	// Проверки
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAccept_NotApproved(t *testing.T) {
	// Подготовка
	svc, _, usersMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	volunteer := approvedVolunteer("Невский")
	volunteer.IsApproved = false

	// Ожидания
	usersMock.EXPECT().GetByID(ctx, volunteer.ID).Return(volunteer, nil).Times(1)

	// Действие
	_, err := svc.Accept(ctx, uuid.New(), volunteer.ID)

	// Проверки
	assert.ErrorIs(t, err, service.ErrNotApproved)
}

func TestAccept_NotEligibleByLocality(t *testing.T) {
	// Подготовка
	svc, repoMock, usersMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	volunteer := approvedVolunteer("Выборгский район")
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")

	// Ожидания
	usersMock.EXPECT().GetByID(ctx, volunteer.ID).Return(volunteer, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Assign(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.Accept(ctx, incident.ID, volunteer.ID)

	// Проверки
	assert.ErrorIs(t, err, service.ErrNotEligible)
}

func TestAccept_AlreadyAssigned(t *testing.T) {
	// Подготовка
	svc, repoMock, usersMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	volunteer := approvedVolunteer("Невский")
	otherVolunteer := uuid.New()
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")
	incident.Status = models.StatusAccepted
	incident.VolunteerID = &otherVolunteer

	// Ожидания
	usersMock.EXPECT().GetByID(ctx, volunteer.ID).Return(volunteer, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)

	// Действие
	_, err := svc.Accept(ctx, incident.ID, volunteer.ID)

	// Проверки
	assert.ErrorIs(t, err, service.ErrAlreadyAssigned)
}

func TestAccept_LostRace(t *testing.T) {
	// Подготовка
	svc, repoMock, usersMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	volunteer := approvedVolunteer("Невский")
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")

	// Ожидания: между чтением и условным обновлением инцидент принял другой волонтер
	usersMock.EXPECT().GetByID(ctx, volunteer.ID).Return(volunteer, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Assign(ctx, incident.ID, volunteer.ID).Return(false, nil).Times(1)

	// Действие
	_, err := svc.Accept(ctx, incident.ID, volunteer.ID)

	// Проверки
	assert.ErrorIs(t, err, service.ErrAlreadyAssigned)
}

func TestAccept_ConcurrentVolunteers(t *testing.T) {
	// Подготовка: два волонтера одновременно принимают один инцидент
	svc, repoMock, usersMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	reporterID := uuid.New()
	volunteerA := approvedVolunteer("Невский")
	volunteerB := approvedVolunteer("Невский")
	volunteers := map[uuid.UUID]*models.User{
		volunteerA.ID: volunteerA,
		volunteerB.ID: volunteerB,
	}

	// Ожидания
	usersMock.EXPECT().
		GetByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return volunteers[id], nil
		}).
		Times(2)

	// Каждый видит инцидент еще свободным
	repoMock.EXPECT().
		GetByID(gomock.Any(), incidentID).
		DoAndReturn(func(_ context.Context, _ uuid.UUID) (*models.Incident, error) {
			inc := reportedIncident(reporterID, "Невский проспект, 28")
			inc.ID = incidentID
			return inc, nil
		}).
		Times(2)

	// Условное обновление: выигрывает ровно один
	var mu sync.Mutex
	assigned := false
	repoMock.EXPECT().
		Assign(gomock.Any(), incidentID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			if assigned {
				return false, nil
			}
			assigned = true
			return true, nil
		}).
		Times(2)

	repoMock.EXPECT().InvalidateIncidentCache(gomock.Any(), incidentID).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	// Действие
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, id := range []uuid.UUID{volunteerA.ID, volunteerB.ID} {
		wg.Add(1)
		go func(volunteerID uuid.UUID) {
			defer wg.Done()
			_, err := svc.Accept(ctx, incidentID, volunteerID)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	// Проверки: один успех, один проигрыш гонки
	wins, losses := 0, 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, service.ErrAlreadyAssigned)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
}

func TestAdvance_StartWork(t *testing.T) {
	// Подготовка
	svc, repoMock, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	volunteerID := uuid.New()
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")
	incident.Status = models.StatusAccepted
	incident.VolunteerID = &volunteerID

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(ctx, incident).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	advanced, err := svc.Advance(ctx, incident.ID, volunteerID, models.ActionStart)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, advanced.Status)
}

func TestAdvance_CompleteWork(t *testing.T) {
	// Подготовка
	svc, repoMock, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	volunteerID := uuid.New()
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")
	incident.Status = models.StatusInProgress
	incident.VolunteerID = &volunteerID

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(ctx, incident).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	advanced, err := svc.Advance(ctx, incident.ID, volunteerID, models.ActionComplete)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingConfirmation, advanced.Status)
}

func TestAdvance_NotAssignedVolunteer(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	assignedID := uuid.New()
	strangerID := uuid.New()
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")
	incident.Status = models.StatusAccepted
	incident.VolunteerID = &assignedID

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.Advance(ctx, incident.ID, strangerID, models.ActionStart)

	// Проверки
	assert.ErrorIs(t, err, service.ErrNotOwner)
}

// TestAdvance_TransitionTable перебирает все пары (статус, действие) и проверяет,
// что разрешены только переходы accepted->in_progress и in_progress->awaiting_confirmation.
func TestAdvance_TransitionTable(t *testing.T) {
	allowed := map[models.IncidentStatus]map[models.AdvanceAction]models.IncidentStatus{
		models.StatusAccepted:   {models.ActionStart: models.StatusInProgress},
		models.StatusInProgress: {models.ActionComplete: models.StatusAwaitingConfirmation},
	}

	for _, status := range models.AllIncidentStatuses {
		for _, action := range []models.AdvanceAction{models.ActionStart, models.ActionComplete} {
			t.Run(fmt.Sprintf("%s_%s", status, action), func(t *testing.T) {
				// Подготовка
				svc, repoMock, _, publisherMock := newTestIncidentService(t)
				ctx := context.Background()
				volunteerID := uuid.New()
				incident := reportedIncident(uuid.New(), "Невский проспект, 28")
				incident.Status = status
				incident.VolunteerID = &volunteerID

				expected, ok := allowed[status][action]

				// Ожидания
				repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
				if ok {
					repoMock.EXPECT().Update(ctx, incident).Return(nil).Times(1)
					repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)
					publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)
				}

				// Действие
				advanced, err := svc.Advance(ctx, incident.ID, volunteerID, action)

				// Проверки
				if ok {
					require.NoError(t, err)
					assert.Equal(t, expected, advanced.Status)
				} else {
					assert.ErrorIs(t, err, service.ErrInvalidTransition)
				}
			})
		}
	}
}

func TestConfirm_ClosesIncident(t *testing.T) {
	// Подготовка
	svc, repoMock, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	reporterID := uuid.New()
	volunteerID := uuid.New()
	incident := reportedIncident(reporterID, "Невский проспект, 28")
	incident.Status = models.StatusAwaitingConfirmation
	incident.VolunteerID = &volunteerID

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(ctx, incident).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	confirmed, err := svc.Confirm(ctx, incident.ID, reporterID, true)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, confirmed.Status)
	require.NotNil(t, confirmed.VolunteerID)
	assert.Equal(t, volunteerID, *confirmed.VolunteerID)
}

func TestConfirm_DisputeReturnsToSameVolunteer(t *testing.T) {
	// Подготовка
	svc, repoMock, _, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	reporterID := uuid.New()
	volunteerID := uuid.New()
	incident := reportedIncident(reporterID, "Невский проспект, 28")
	incident.Status = models.StatusAwaitingConfirmation
	incident.VolunteerID = &volunteerID

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(ctx, incident).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	disputed, err := svc.Confirm(ctx, incident.ID, reporterID, false)

	// Проверки: инцидент возвращается в работу тому же волонтеру
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, disputed.Status)
	require.NotNil(t, disputed.VolunteerID)
	assert.Equal(t, volunteerID, *disputed.VolunteerID)
}

func TestConfirm_NotReporter(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	volunteerID := uuid.New()
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")
	incident.Status = models.StatusAwaitingConfirmation
	incident.VolunteerID = &volunteerID

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)

	// Действие
	_, err := svc.Confirm(ctx, incident.ID, uuid.New(), true)

	// Проверки
	assert.ErrorIs(t, err, service.ErrNotOwner)
}

func TestConfirm_NotAwaitingConfirmation(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	reporterID := uuid.New()
	incident := reportedIncident(reporterID, "Невский проспект, 28")

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.Confirm(ctx, incident.ID, reporterID, true)

	// Проверки
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

// TestLifecycle_FullScenario прогоняет инцидент по полному жизненному циклу:
// report -> accept -> in_progress -> awaiting_confirmation -> closed.
func TestLifecycle_FullScenario(t *testing.T) {
	// Подготовка
	svc, repoMock, usersMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	reporterID := uuid.New()
	volunteer := approvedVolunteer("Невский")

	incident := &models.Incident{Title: "Завал на дороге", FullAddress: "Невский проспект, 28"}

	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			inc.ID = uuid.New()
			return nil
		}).
		Times(1)
	usersMock.EXPECT().GetByID(ctx, volunteer.ID).Return(volunteer, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, gomock.Any()).Return(incident, nil).AnyTimes()
	repoMock.EXPECT().Assign(ctx, gomock.Any(), volunteer.ID).Return(true, nil).Times(1)
	repoMock.EXPECT().Update(ctx, incident).Return(nil).Times(3)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, gomock.Any()).Return(nil).AnyTimes()
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).AnyTimes()

	// Действие + Проверки по шагам
	require.NoError(t, svc.Report(ctx, reporterID, incident))
	assert.Equal(t, models.StatusReported, incident.Status)

	accepted, err := svc.Accept(ctx, incident.ID, volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)

	started, err := svc.Advance(ctx, incident.ID, volunteer.ID, models.ActionStart)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, started.Status)

	completed, err := svc.Advance(ctx, incident.ID, volunteer.ID, models.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingConfirmation, completed.Status)

	closed, err := svc.Confirm(ctx, incident.ID, reporterID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, closed.Status)
}

func TestUpdateLiveLocation_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	volunteerID := uuid.New()
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")
	incident.Status = models.StatusInProgress
	incident.VolunteerID = &volunteerID

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(ctx, incident).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)

	// Действие
	err := svc.UpdateLiveLocation(ctx, incident.ID, volunteerID, 59.93, 30.36)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, incident.Latitude)
	assert.InDelta(t, 59.93, *incident.Latitude, 0.0001)
}

func TestUpdateLiveLocation_ClosedIncident(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	volunteerID := uuid.New()
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")
	incident.Status = models.StatusClosed
	incident.VolunteerID = &volunteerID

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := svc.UpdateLiveLocation(ctx, incident.ID, volunteerID, 59.93, 30.36)

	// Проверки
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestListAvailable_FiltersByLocality(t *testing.T) {
	// Подготовка
	svc, repoMock, usersMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	volunteer := approvedVolunteer("Невский, Лиговский")

	nearby := reportedIncident(uuid.New(), "Невский проспект, 28")
	farAway := reportedIncident(uuid.New(), "Московский проспект, 100")

	// Ожидания
	usersMock.EXPECT().GetByID(ctx, volunteer.ID).Return(volunteer, nil).Times(1)
	repoMock.EXPECT().
		ListByStatus(ctx, models.StatusReported).
		Return([]*models.Incident{nearby, farAway}, nil).
		Times(1)

	// Действие
	available, err := svc.ListAvailable(ctx, volunteer.ID)

	// Проверки
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, nearby.ID, available[0].ID)
}

func TestStats_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	counts := map[models.IncidentStatus]int{
		models.StatusReported:             3,
		models.StatusAccepted:             1,
		models.StatusInProgress:           2,
		models.StatusAwaitingConfirmation: 0,
		models.StatusClosed:               7,
	}

	// Ожидания
	repoMock.EXPECT().CountByStatus(ctx).Return(counts, nil).Times(1)
	repoMock.EXPECT().CountRecentReporters(ctx, 60).Return(4, nil).Times(1)

	// Действие
	stats, err := svc.Stats(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, counts, stats.IncidentsByStatus)
	assert.Equal(t, 4, stats.ActiveReporters)
}

func TestAccept_RefreshesUpdatedAt(t *testing.T) {
	// Подготовка: условный UPDATE обновляет updated_at в строке, наружу
	// не должна уходить старая метка времени из прочитанной копии
	svc, repoMock, usersMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	volunteer := approvedVolunteer("Центральный район, Невский")
	incident := reportedIncident(uuid.New(), "Невский проспект, 28")
	stale := time.Now().Add(-time.Hour)
	incident.UpdatedAt = stale

	var published webhook.IncidentEvent

	// Ожидания
	usersMock.EXPECT().GetByID(ctx, volunteer.ID).Return(volunteer, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	repoMock.EXPECT().Assign(ctx, incident.ID, volunteer.ID).Return(true, nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incident.ID).Return(nil).Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.IncidentEvent) error {
			published = event
			return nil
		}).Times(1)

	// Действие
	accepted, err := svc.Accept(ctx, incident.ID, volunteer.ID)

	// Проверки
	require.NoError(t, err)
	assert.True(t, accepted.UpdatedAt.After(stale))
	assert.Equal(t, accepted.UpdatedAt, published.Timestamp)
}

func TestListByStatus_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := []*models.Incident{reportedIncident(uuid.New(), "Литейный проспект, 5")}

	// Ожидания
	repoMock.EXPECT().ListByStatus(ctx, models.StatusReported).Return(expected, nil).Times(1)

	// Действие
	incidents, err := svc.ListByStatus(ctx, models.StatusReported)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}
