package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

type mockUserRepo struct {
	m     sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Insert(_ context.Context, user *domain.User) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, userID string) (*domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if user, ok := m.users[userID]; ok {
		return user, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepo) FindByRollNumber(_ context.Context, rollNumber string) (*domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, user := range m.users {
		if user.RollNumber == rollNumber && user.Role == domain.RoleStudent {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string, role domain.Role) (*domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, user := range m.users {
		if user.Email == email && user.Role == role {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func newTestAuth() (*Service, *TokenIssuer) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	return NewService(newMockUserRepo(), issuer), issuer
}

func TestRegisterAndLoginStudent(t *testing.T) {
	svc, issuer := newTestAuth()
	ctx := context.Background()

	user, token, err := svc.RegisterStudent(ctx, "21CS001", "hunter2", "Asha", "asha@example.edu")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleStudent, claims.Role)

	_, loginToken, err := svc.LoginStudent(ctx, "21CS001", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterStudent_DuplicateRollNumber(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	_, _, err := svc.RegisterStudent(ctx, "21CS001", "hunter2", "Asha", "")
	require.NoError(t, err)

	_, _, err = svc.RegisterStudent(ctx, "21CS001", "other", "Asha Again", "")
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestLoginStudent_WrongPassword(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	_, _, err := svc.RegisterStudent(ctx, "21CS001", "hunter2", "Asha", "")
	require.NoError(t, err)

	_, _, err = svc.LoginStudent(ctx, "21CS001", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.LoginStudent(ctx, "unknown", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_RejectsTamperedAndExpiredTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := &domain.User{ID: "user_1", Role: domain.RoleCrew, CanteenID: "canteen_1"}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "canteen_1", claims.CanteenID)

	_, err = issuer.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer := NewTokenIssuer("other-secret", time.Hour)
	_, err = otherIssuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("test-secret", -time.Minute)
	expiredToken, err := expired.Issue(user)
	require.NoError(t, err)
	_, err = NewTokenIssuer("test-secret", time.Hour).Verify(expiredToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddlewareAndRequireRole(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(&domain.User{ID: "user_1", Role: domain.RoleStudent})
	require.NoError(t, err)

	var gotClaims *Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	protected := issuer.Middleware(inner)

	// No token.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "user_1", gotClaims.UserID)

	// Wrong role.
	crewOnly := issuer.Middleware(RequireRole(domain.RoleCrew, domain.RoleManagement)(inner))
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	crewOnly.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
