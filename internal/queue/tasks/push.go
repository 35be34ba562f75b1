package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/onsite-build/engine/internal/push"
	"github.com/onsite-build/engine/pkg/logger"
	"go.uber.org/zap"
)

// TypeNotificationPush is the task type for push delivery.
const TypeNotificationPush = "notification:push"

// PushPayload is the task payload for push delivery.
type PushPayload struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// NewPushTask builds a push task. MaxRetry is zero: push delivery is
// fire-and-forget and a failed send must never be replayed against the
// gateway.
func NewPushTask(userID, title, body string) (*asynq.Task, error) {
	pb, err := json.Marshal(PushPayload{UserID: userID, Title: title, Body: body})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotificationPush, pb, asynq.MaxRetry(0)), nil
}

// PushTaskHandler delivers queued notifications to the push gateway.
type PushTaskHandler struct {
	sender push.Sender
}

func NewPushTaskHandler(sender push.Sender) *PushTaskHandler {
	return &PushTaskHandler{sender: sender}
}

// HandlePush sends the notification. Gateway failures are logged and
// swallowed so asynq never marks the task failed; only an unreadable
// payload is surfaced as an error.
func (h *PushTaskHandler) HandlePush(ctx context.Context, t *asynq.Task) error {
	var p PushPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid push task payload", zap.Error(err))
		return err
	}

	if err := h.sender.Send(ctx, p.Title, p.Body, p.UserID); err != nil {
		logger.L().Warn("push delivery failed",
			zap.String("user_id", p.UserID),
			zap.Error(err),
		)
		return nil
	}

	logger.L().Info("push delivered", zap.String("user_id", p.UserID))
	return nil
}
