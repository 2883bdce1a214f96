package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appModels "github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/auth"
)

type recordingPlans struct {
	calls int
	seen  []appModels.MonthlyPlan
	err   error
}

func (r *recordingPlans) EnsureDefaults(_ context.Context, plans []appModels.MonthlyPlan) (int, error) {
	r.calls++
	r.seen = plans
	return len(plans), r.err
}

type recordingInstructors struct {
	count   int64
	created []*appModels.Instructor
}

func (r *recordingInstructors) Count(context.Context) (int64, error) { return r.count, nil }

func (r *recordingInstructors) Create(_ context.Context, i *appModels.Instructor) error {
	i.ID = int64(len(r.created) + 1)
	r.created = append(r.created, i)
	return nil
}

func TestCreateDefaultData_EmptyDatabase(t *testing.T) {
	auth.BcryptCost = 4
	plans := &recordingPlans{}
	instructors := &recordingInstructors{}

	err := CreateDefaultData(context.Background(), plans, instructors,
		AdminAccount{Email: "sensei@dojo.pt", Password: "change-me-now"}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 1, plans.calls)
	require.Len(t, plans.seen, 3)
	assert.Equal(t, "Basic", plans.seen[0].Name)

	require.Len(t, instructors.created, 1)
	assert.Equal(t, "Sensei", instructors.created[0].Name)
	assert.True(t, auth.CheckPassword(instructors.created[0].PasswordHash, "change-me-now"))
}

func TestCreateDefaultData_ExistingInstructor(t *testing.T) {
	instructors := &recordingInstructors{count: 2}

	err := CreateDefaultData(context.Background(), &recordingPlans{}, instructors,
		AdminAccount{Email: "sensei@dojo.pt", Password: "change-me-now"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, instructors.created)
}

func TestCreateDefaultData_PlanErrorDoesNotStopInstructor(t *testing.T) {
	auth.BcryptCost = 4
	boom := errors.New("boom")
	instructors := &recordingInstructors{}

	err := CreateDefaultData(context.Background(), &recordingPlans{err: boom}, instructors,
		AdminAccount{Email: "sensei@dojo.pt", Password: "change-me-now"}, zerolog.Nop())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, instructors.created, 1)
}
