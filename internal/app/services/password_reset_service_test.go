package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/auth"
)

type resetFixture struct {
	*fixture
	tokens *memResetTokenStore
	svc    *passwordResetServiceImpl
	clock  time.Time
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	f := newFixture(t)
	rf := &resetFixture{fixture: f, clock: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	rf.tokens = newMemResetTokenStore(f.students, f.instructors)
	rf.svc = NewPasswordResetService(f.students, f.instructors, rf.tokens, f.notifier, PasswordResetConfig{
		TokenTTL:   time.Hour,
		BaseURL:    "https://dojo.example.com",
		SchoolName: "Test Dojo",
	}, zerolog.Nop()).(*passwordResetServiceImpl)
	rf.svc.now = func() time.Time { return rf.clock }
	seq := 0
	rf.svc.newToken = func() string {
		seq++
		return fmt.Sprintf("reset-token-%d", seq)
	}
	return rf
}

func TestRequestReset_MailsTokenAndStoresDigest(t *testing.T) {
	rf := newResetFixture(t)
	ctx := context.Background()
	s := rf.student(t, "daniel", models.BeltGreen, 0)

	require.NoError(t, rf.svc.RequestReset(ctx, "", " Daniel@dojo.pt "))

	require.Len(t, rf.notifier.sent, 1)
	note := rf.notifier.sent[0]
	assert.Equal(t, s.Email, note.To)
	assert.Contains(t, note.Body, "reset-token-1")
	assert.Contains(t, note.Body, "https://dojo.example.com/reset-password?token=reset-token-1")

	require.Len(t, rf.tokens.tokens, 1)
	for digest, tok := range rf.tokens.tokens {
		assert.Equal(t, hashResetToken("reset-token-1"), digest)
		assert.NotContains(t, digest, "reset-token")
		assert.Equal(t, models.RoleStudent, tok.Role)
		assert.Equal(t, s.ID, tok.AccountID)
		assert.Equal(t, rf.clock.Add(time.Hour), tok.ExpiresAt)
	}
}

func TestRequestReset_UnknownOrDisabledAccountSendsNothing(t *testing.T) {
	rf := newResetFixture(t)
	ctx := context.Background()
	rf.students.add(&models.Student{Account: models.Account{Name: "Ghost", Email: "ghost@dojo.pt", Active: false}})

	assert.NoError(t, rf.svc.RequestReset(ctx, models.RoleStudent, "nobody@dojo.pt"))
	assert.NoError(t, rf.svc.RequestReset(ctx, models.RoleStudent, "ghost@dojo.pt"))
	assert.NoError(t, rf.svc.RequestReset(ctx, models.RoleAdmin, "daniel@dojo.pt"))
	assert.Empty(t, rf.notifier.sent)
	assert.Empty(t, rf.tokens.tokens)

	assert.ErrorIs(t, rf.svc.RequestReset(ctx, "Guest", "miyagi@dojo.pt"), apperrors.ErrBadRequest)
}

func TestRequestReset_MailFailure(t *testing.T) {
	rf := newResetFixture(t)
	rf.notifier.err = errGatewayDown

	err := rf.svc.RequestReset(context.Background(), models.RoleAdmin, "miyagi@dojo.pt")
	assert.ErrorIs(t, err, apperrors.ErrEmailDelivery)
}

func TestResetPassword_Flow(t *testing.T) {
	rf := newResetFixture(t)
	ctx := context.Background()
	s := rf.student(t, "daniel", models.BeltGreen, 0)

	require.NoError(t, rf.svc.RequestReset(ctx, models.RoleStudent, s.Email))
	// a second request replaces the first token
	require.NoError(t, rf.svc.RequestReset(ctx, models.RoleStudent, s.Email))
	assert.ErrorIs(t, rf.svc.ResetPassword(ctx, "reset-token-1", "crane-kick-99"), apperrors.ErrResetTokenInvalid)

	require.NoError(t, rf.svc.ResetPassword(ctx, "reset-token-2", "crane-kick-99"))
	stored, err := rf.students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "crane-kick-99"))

	assert.ErrorIs(t, rf.svc.ResetPassword(ctx, "reset-token-2", "another-pass"), apperrors.ErrResetTokenInvalid)
}

func TestResetPassword_InstructorAndExpiry(t *testing.T) {
	rf := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, rf.svc.RequestReset(ctx, models.RoleAdmin, "miyagi@dojo.pt"))
	rf.clock = rf.clock.Add(61 * time.Minute)
	assert.ErrorIs(t, rf.svc.ResetPassword(ctx, "reset-token-1", "crane-kick-99"), apperrors.ErrResetTokenInvalid)

	require.NoError(t, rf.svc.RequestReset(ctx, models.RoleAdmin, "miyagi@dojo.pt"))
	require.NoError(t, rf.svc.ResetPassword(ctx, "reset-token-2", "crane-kick-99"))
	assert.True(t, auth.CheckPassword(rf.sensei.PasswordHash, "crane-kick-99"))
}

func TestResetPassword_Validation(t *testing.T) {
	rf := newResetFixture(t)

	err := rf.svc.ResetPassword(context.Background(), " ", "short")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}
