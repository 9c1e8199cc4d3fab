package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/shenikar/safetracker_system/internal/service"
)

const incidentCacheTTL = 5 * time.Minute

// incidentColumns - общий список колонок с join-ом имен для выборок
const incidentColumns = `
	i.id,
	i.title,
	i.full_address,
	i.latitude,
	i.longitude,
	i.status,
	i.reporter_id,
	i.volunteer_id,
	i.created_at,
	i.updated_at,
	COALESCE(r.username, '') AS reporter_name,
	COALESCE(v.username, '') AS volunteer_name
`

const incidentFrom = `
	FROM incidents i
	LEFT JOIN users r ON r.id = i.reporter_id
	LEFT JOIN users v ON v.id = i.volunteer_id
`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.FullAddress,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Status,
		&incident.ReporterID,
		&incident.VolunteerID,
		&incident.CreatedAt,
		&incident.UpdatedAt,
		&incident.ReporterName,
		&incident.VolunteerName,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

func collectIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error incident rows iteration: %w", err)
	}
	return incidents, nil
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (title, full_address, latitude, longitude, status, reporter_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.FullAddress,
		incident.Latitude,
		incident.Longitude,
		incident.Status,
		incident.ReporterID,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + incidentFrom + ` WHERE i.id = $1;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// Update перезаписывает изменяемые поля инцидента
func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			title = $1,
			full_address = $2,
			latitude = $3,
			longitude = $4,
			status = $5,
			volunteer_id = $6,
			updated_at = NOW()
		WHERE id = $7;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		incident.Title,
		incident.FullAddress,
		incident.Latitude,
		incident.Longitude,
		incident.Status,
		incident.VolunteerID,
		incident.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident %s not found for update: %w", incident.ID, service.ErrNotFound)
	}
	return nil
}

// Delete удаляет инцидент
func (r *IncidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident %s not found for delete: %w", id, service.ErrNotFound)
	}
	return nil
}

// ListAll возвращает список инцидентов с пагинацией, новые первыми
func (r *IncidentRepository) ListAll(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	offset := (page - 1) * pageSize

	query := `SELECT ` + incidentColumns + incidentFrom + `
		ORDER BY i.created_at DESC
		LIMIT $1 OFFSET $2;`

	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return collectIncidents(rows)
}

// ListByReporter возвращает инциденты, созданные репортером
func (r *IncidentRepository) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + incidentFrom + `
		WHERE i.reporter_id = $1
		ORDER BY i.created_at DESC;`

	rows, err := r.db.Query(ctx, query, reporterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents by reporter: %w", err)
	}
	return collectIncidents(rows)
}

// ListByVolunteer возвращает инциденты, назначенные волонтеру
func (r *IncidentRepository) ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + incidentFrom + `
		WHERE i.volunteer_id = $1
		ORDER BY i.created_at DESC;`

	rows, err := r.db.Query(ctx, query, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents by volunteer: %w", err)
	}
	return collectIncidents(rows)
}

// ListByStatus возвращает инциденты в заданном статусе
func (r *IncidentRepository) ListByStatus(ctx context.Context, status models.IncidentStatus) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + incidentFrom + `
		WHERE i.status = $1
		ORDER BY i.created_at DESC;`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents by status: %w", err)
	}
	return collectIncidents(rows)
}

// Assign атомарно назначает инцидент волонтеру. Условие в WHERE гарантирует,
// что из двух конкурентных попыток выигрывает ровно одна: проигравшая
// не находит строку в статусе reported и получает RowsAffected() == 0.
func (r *IncidentRepository) Assign(ctx context.Context, incidentID, volunteerID uuid.UUID) (bool, error) {
	query := `
		UPDATE incidents SET
			status = 'accepted',
			volunteer_id = $1,
			updated_at = NOW()
		WHERE id = $2 AND status = 'reported' AND volunteer_id IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, volunteerID, incidentID)
	if err != nil {
		return false, fmt.Errorf("failed to assign incident: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// DeleteByReporter удаляет все инциденты репортера (каскад при удалении пользователя)
func (r *IncidentRepository) DeleteByReporter(ctx context.Context, reporterID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE reporter_id = $1;`, reporterID); err != nil {
		return fmt.Errorf("failed to delete incidents by reporter: %w", err)
	}
	return nil
}

// ReleaseAssignments возвращает инциденты удаляемого волонтера в статус reported
func (r *IncidentRepository) ReleaseAssignments(ctx context.Context, volunteerID uuid.UUID) error {
	query := `
		UPDATE incidents SET
			status = 'reported',
			volunteer_id = NULL,
			updated_at = NOW()
		WHERE volunteer_id = $1 AND status <> 'closed';
	`
	if _, err := r.db.Exec(ctx, query, volunteerID); err != nil {
		return fmt.Errorf("failed to release volunteer assignments: %w", err)
	}
	return nil
}

// CountByStatus возвращает количество инцидентов в каждом статусе
func (r *IncidentRepository) CountByStatus(ctx context.Context) (map[models.IncidentStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM incidents GROUP BY status;`)
	if err != nil {
		return nil, fmt.Errorf("failed to count incidents by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.IncidentStatus]int, len(models.AllIncidentStatuses))
	for _, status := range models.AllIncidentStatuses {
		counts[status] = 0
	}
	for rows.Next() {
		var status models.IncidentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count row: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error status count iteration: %w", err)
	}
	return counts, nil
}

// CountRecentReporters возвращает количество уникальных репортеров за окно времени
func (r *IncidentRepository) CountRecentReporters(ctx context.Context, minutes int) (int, error) {
	query := `
		SELECT COUNT(DISTINCT reporter_id)
		FROM incidents
		WHERE created_at >= NOW() - ($1 * INTERVAL '1 minute');
	`
	var count int
	err := r.db.QueryRow(ctx, query, minutes).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count recent reporters: %w", err)
	}
	return count, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("incident:%s", id.String())
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
