package service

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventExamCreated      = "exam.created"
	EventExamCancelled    = "exam.cancelled"
	EventResultsPublished = "results.published"
)

// ExamEvent is the payload published on the notification channel.
// Delivery (email, push, websocket) belongs to downstream consumers;
// this service only decides whether to fire.
type ExamEvent struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	ExamID   uint      `json:"examId"`
	ExamCode string    `json:"examCode"`
	At       time.Time `json:"at"`
}

type NotifyService struct {
	rdb     *redis.Client
	channel string
	enabled atomic.Bool
}

func NewNotifyService(rdb *redis.Client, channel string, enabled bool) *NotifyService {
	s := &NotifyService{rdb: rdb, channel: channel}
	s.enabled.Store(enabled)
	return s
}

// SetEnabled is safe to call from the config hot-reload path.
func (s *NotifyService) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

// Fire publishes an event fire-and-forget. A failed publish is logged
// and dropped; notification delivery never blocks or fails the request
// that triggered it.
func (s *NotifyService) Fire(eventType string, exam *model.Exam) {
	if s.rdb == nil || !s.enabled.Load() {
		return
	}

	event := ExamEvent{
		ID:       uuid.New().String(),
		Type:     eventType,
		ExamID:   exam.ID,
		ExamCode: exam.Code,
		At:       time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload, err := json.Marshal(event)
		if err != nil {
			logger.Log.Error("marshal notification event", zap.Error(err))
			return
		}
		if err := s.rdb.Publish(ctx, s.channel, payload).Err(); err != nil {
			logger.Log.Error("publish notification event",
				zap.String("type", eventType), zap.Error(err))
		}
	}()
}
