package webhook

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safetracker_system/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestWorker(webhookURL, secret string) *Worker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		WebhookURL:        webhookURL,
		WebhookSecret:     secret,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	return NewWorker(nil, logger, cfg)
}

func testEvent() IncidentEvent {
	return IncidentEvent{
		IncidentID: uuid.New(),
		Action:     "accept",
		ActorID:    uuid.New(),
		Timestamp:  time.Now(),
	}
}

func TestDeliverEvent_RetriesUntilSuccess(t *testing.T) {
	// Подготовка: первая попытка падает, вторая проходит
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	worker := newTestWorker(srv.URL, "")

	// Действие
	worker.deliverEvent(context.Background(), testEvent(), `{"action":"accept"}`)

	// Проверки
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestDeliverEvent_GivesUpAfterMaxRetries(t *testing.T) {
	// Подготовка: получатель всегда отвечает ошибкой
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	worker := newTestWorker(srv.URL, "")

	// Действие
	worker.deliverEvent(context.Background(), testEvent(), `{"action":"accept"}`)

	// Проверки
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestDeliverEvent_SignsPayload(t *testing.T) {
	// Подготовка
	const secret = "webhook-secret"
	payload := `{"action":"confirm"}`

	var gotSignature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	worker := newTestWorker(srv.URL, secret)

	// Действие
	worker.deliverEvent(context.Background(), testEvent(), payload)

	// Проверки
	assert.Equal(t, generateHMACSHA256(payload, secret), gotSignature)
}

func TestDeliverEvent_SkipsWithoutURL(t *testing.T) {
	worker := newTestWorker("", "")

	// Без настроенного URL доставка молча пропускается
	worker.deliverEvent(context.Background(), testEvent(), `{"action":"report"}`)
}
