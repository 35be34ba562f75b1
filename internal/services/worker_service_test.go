package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	appErr "github.com/onsite-build/engine/pkg/errors"
)

func newWorkerFixture(t *testing.T) (WorkerService, *ledgerFixture) {
	t.Helper()
	lf := newLedgerFixture(t, "1000")
	svc := NewWorkerService(
		repository.NewWorkerRepository(lf.db),
		repository.NewAttendanceRepository(lf.db),
		repository.NewProjectRepository(lf.db),
	)
	return svc, lf
}

func TestCreateWorkerRequiresProject(t *testing.T) {
	svc, _ := newWorkerFixture(t)

	_, err := svc.CreateWorker(context.Background(), &CreateWorkerInput{
		ProjectID: uuid.New(),
		Name:      "Hari",
	})
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestRecordAttendanceUpserts(t *testing.T) {
	svc, f := newWorkerFixture(t)
	ctx := context.Background()

	worker, err := svc.CreateWorker(ctx, &CreateWorkerInput{
		ProjectID: f.project.ID,
		Name:      "Hari",
		Salary:    decimal.RequireFromString("900"),
	})
	require.NoError(t, err)

	day := time.Date(2025, time.June, 2, 14, 30, 0, 0, time.UTC)

	att, err := svc.RecordAttendance(ctx, worker.ID, day, true)
	require.NoError(t, err)
	require.True(t, att.Present)
	// timestamps normalize to the calendar day
	require.Equal(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), att.Date)

	// same day again overwrites instead of inserting
	again, err := svc.RecordAttendance(ctx, worker.ID, day.Add(3*time.Hour), false)
	require.NoError(t, err)
	require.Equal(t, att.ID, again.ID)
	require.False(t, again.Present)

	var count int64
	require.NoError(t, f.db.Model(&models.Attendance{}).Where("worker_id = ?", worker.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestListWorkersByProject(t *testing.T) {
	svc, f := newWorkerFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Hari", "Gita"} {
		_, err := svc.CreateWorker(ctx, &CreateWorkerInput{ProjectID: f.project.ID, Name: name})
		require.NoError(t, err)
	}

	workers, err := svc.ListWorkers(ctx, f.project.ID)
	require.NoError(t, err)
	require.Len(t, workers, 2)
	require.Equal(t, "Hari", workers[0].Name)
}
