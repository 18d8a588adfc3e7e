package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/rbac"
	"github.com/harborline/harborline/internal/shared"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := NewMemoryRepository([]User{{
		ID:           "usr-sales",
		Email:        "sales@harborline.test",
		Name:         "Sally Lim",
		Role:         rbac.RoleSales,
		PasswordHash: hash,
	}}, 0)
	return NewService(repo)
}

func TestAuthenticateSucceeds(t *testing.T) {
	svc := newTestService(t)
	u, err := svc.Authenticate(context.Background(), "Sales@Harborline.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "usr-sales", u.ID)
	assert.Equal(t, rbac.RoleSales, u.Role)
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Authenticate(context.Background(), "sales@harborline.test", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestAuthenticateRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Authenticate(context.Background(), "nobody@harborline.test", "correct horse")
	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
	assert.NotErrorIs(t, err, httpx.ErrNotFound)
}

func TestLookup(t *testing.T) {
	svc := newTestService(t)
	u, err := svc.Lookup(context.Background(), "usr-sales")
	require.NoError(t, err)
	assert.Equal(t, "sales@harborline.test", u.Email)

	_, err = svc.Lookup(context.Background(), "usr-ghost")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
