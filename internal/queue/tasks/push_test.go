package tasks

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onsite-build/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by tasks)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, title, body, subID string) error {
	args := m.Called(ctx, title, body, subID)
	return args.Error(0)
}

func TestHandlePushDeliversToGateway(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, "New transaction", "You made a transaction of amount 200 (debit).", "user-1").Return(nil)

	task, err := NewPushTask("user-1", "New transaction", "You made a transaction of amount 200 (debit).")
	require.NoError(t, err)

	h := NewPushTaskHandler(sender)
	require.NoError(t, h.HandlePush(context.Background(), task))
	sender.AssertExpectations(t)
}

func TestHandlePushSwallowsGatewayFailure(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("gateway down"))

	task, err := NewPushTask("user-1", "t", "b")
	require.NoError(t, err)

	h := NewPushTaskHandler(sender)
	// fire-and-forget: a gateway failure must not fail the task
	require.NoError(t, h.HandlePush(context.Background(), task))
	sender.AssertExpectations(t)
}

func TestHandlePushRejectsBadPayload(t *testing.T) {
	h := NewPushTaskHandler(&mockSender{})
	bad := asynq.NewTask(TypeNotificationPush, []byte("{not json"))
	require.Error(t, h.HandlePush(context.Background(), bad))
}
