package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safetracker_system/internal/models"
)

const (
	incidentEventsQueueKey = "incident_events"
)

// IncidentEvent - событие перехода инцидента по жизненному циклу.
// Публикуется при каждой мутации и доставляется воркером на настроенный URL,
// чтобы внешние системы не опрашивали API.
type IncidentEvent struct {
	IncidentID uuid.UUID             `json:"incident_id"`
	Action     string                `json:"action"`
	FromStatus models.IncidentStatus `json:"from_status,omitempty"`
	ToStatus   models.IncidentStatus `json:"to_status"`
	ActorID    uuid.UUID             `json:"actor_id"`
	Timestamp  time.Time             `json:"timestamp"`
	Incident   *models.Incident      `json:"incident,omitempty"`
}

// EventPublisher - интерфейс для публикации событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisEventPublisher - реализация EventPublisher, использующая Redis
type RedisEventPublisher struct {
	redisClient *redis.Client
}

// NewRedisEventPublisher создает новый RedisEventPublisher
func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{
		redisClient: client,
	}
}

// Publish публикует событие жизненного цикла в очередь Redis
func (p *RedisEventPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}

	// LPUSH добавляет событие в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, incidentEventsQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish incident event to Redis: %w", err)
	}
	return nil
}
