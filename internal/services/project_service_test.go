package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	appErr "github.com/onsite-build/engine/pkg/errors"
)

func newProjectFixture(t *testing.T) (ProjectService, *ledgerFixture) {
	t.Helper()
	lf := newLedgerFixture(t, "20000")
	notifications := NewNotificationService(repository.NewNotificationRepository(lf.db), nil)
	svc := NewProjectService(lf.db, repository.NewProjectRepository(lf.db), repository.NewUserRepository(lf.db), notifications)
	return svc, lf
}

func TestCreateProjectSeedsBudget(t *testing.T) {
	svc, f := newProjectFixture(t)

	out, err := svc.CreateProject(context.Background(), f.builder.ID, &CreateProjectInput{
		ProjectName:  "Lakeside Flats",
		OwnerName:    f.builder.Username,
		BudgetAmount: decimal.RequireFromString("50000"),
		Location:     "Pokhara",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusOnGoing, out.Project.Status)
	require.True(t, out.Project.IsVisible)
	require.Equal(t, out.Project.ID, out.Budget.ProjectID)
	requireDecimalEqual(t, "50000", out.Budget.Amount)
	requireDecimalEqual(t, "50000", out.Budget.InHand)
}

func TestCreateProjectDuplicateName(t *testing.T) {
	svc, f := newProjectFixture(t)

	_, err := svc.CreateProject(context.Background(), f.builder.ID, &CreateProjectInput{
		ProjectName:  f.project.ProjectName,
		OwnerName:    f.builder.Username,
		BudgetAmount: decimal.RequireFromString("100"),
	})
	require.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists))
}

func TestCreateProjectUnknownOwner(t *testing.T) {
	svc, f := newProjectFixture(t)

	_, err := svc.CreateProject(context.Background(), f.builder.ID, &CreateProjectInput{
		ProjectName:  "Orchard House",
		OwnerName:    "nobody",
		BudgetAmount: decimal.RequireFromString("100"),
	})
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestDeleteProjectHidesWithoutCascading(t *testing.T) {
	svc, f := newProjectFixture(t)

	require.NoError(t, svc.DeleteProject(context.Background(), f.project.ID, f.builder.ID))

	var p models.Project
	require.NoError(t, f.db.First(&p, "id = ?", f.project.ID).Error)
	require.False(t, p.IsVisible)

	// hidden projects drop out of the builder's listing
	visible, err := svc.ListProjects(context.Background(), f.builder.ID)
	require.NoError(t, err)
	require.Empty(t, visible)

	// but the budget row survives
	var b models.Budget
	require.NoError(t, f.db.First(&b, "id = ?", f.budget.ID).Error)
	requireDecimalEqual(t, "20000", b.InHand)
}

func TestDeleteProjectRequiresOwnership(t *testing.T) {
	svc, f := newProjectFixture(t)

	other := models.User{Username: "bibek", Email: "bibek@example.com", PasswordHash: "x", Role: models.RoleBuilder}
	require.NoError(t, f.db.Create(&other).Error)

	err := svc.DeleteProject(context.Background(), f.project.ID, other.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestShareProjectLinksClientAndNotifies(t *testing.T) {
	svc, f := newProjectFixture(t)

	client := models.User{Username: "sita", Email: "sita@example.com", PasswordHash: "x", Role: models.RoleClient}
	require.NoError(t, f.db.Create(&client).Error)

	p, err := svc.ShareProject(context.Background(), f.project.ID, f.builder.ID, "sita")
	require.NoError(t, err)
	require.NotNil(t, p.ClientID)
	require.Equal(t, client.ID, *p.ClientID)

	var n models.Notification
	require.NoError(t, f.db.First(&n, "user_id = ?", client.ID).Error)
	require.Contains(t, n.Message, f.project.ProjectName)
}
