package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/queue/tasks"
	"github.com/onsite-build/engine/internal/repository"
	"github.com/onsite-build/engine/pkg/logger"
	"go.uber.org/zap"
)

// NotificationService owns the in-app notification rows and the
// best-effort push side channel. Push never blocks, fails or rolls back
// anything: enqueue errors are logged and dropped.
type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, message string) (*models.Notification, error)
	Push(ctx context.Context, userID uuid.UUID, title, body string)
	List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type notificationService struct {
	repo        repository.NotificationRepository
	asynqClient *asynq.Client
}

func NewNotificationService(repo repository.NotificationRepository, client *asynq.Client) NotificationService {
	return &notificationService{repo: repo, asynqClient: client}
}

var _ NotificationService = (*notificationService)(nil)

// Notify stores an in-app notification and enqueues its push delivery.
func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, message string) (*models.Notification, error) {
	n := &models.Notification{UserID: userID, Message: message}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.Push(ctx, userID, "OnSite", message)
	return n, nil
}

func (s *notificationService) Push(ctx context.Context, userID uuid.UUID, title, body string) {
	task, err := tasks.NewPushTask(userID.String(), title, body)
	if err != nil {
		logger.L().Error("build push task failed", zap.Error(err), zap.String("user_id", userID.String()))
		return
	}
	if s.asynqClient == nil {
		logger.L().Warn("asynq client not configured, skipping push enqueue", zap.String("user_id", userID.String()))
		return
	}
	if _, err := s.asynqClient.EnqueueContext(ctx, task); err != nil {
		logger.L().Error("enqueue push task failed", zap.Error(err), zap.String("user_id", userID.String()))
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
