package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-timeclock/internal/auth"
	autherrors "go-timeclock/internal/auth/errors"
	"go-timeclock/internal/employee"
	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	byPIN map[string]*employee.Employee
}

func (f *fakeDirectory) FindActiveByPIN(ctx context.Context, pin string) (*employee.Employee, error) {
	if err := employee.ValidatePIN(pin); err != nil {
		return nil, err
	}
	if e, ok := f.byPIN[pin]; ok {
		return e, nil
	}
	return nil, employeeerrors.ErrEmployeeNotFound
}

func (f *fakeDirectory) Lookup(ctx context.Context, id string) (*employee.Employee, error) {
	for _, e := range f.byPIN {
		if e.ID.String() == id {
			return e, nil
		}
	}
	return nil, employeeerrors.ErrEmployeeNotFound
}

type memoryStore struct {
	mu      sync.Mutex
	items   map[string]*auth.Session
	failSet error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[string]*auth.Session{}}
}

func (m *memoryStore) Get(ctx context.Context, id string) (*auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return nil, auth.ErrSessionMissing
	}
	return s, nil
}

func (m *memoryStore) Set(ctx context.Context, s *auth.Session, ttl time.Duration) error {
	if m.failSet != nil {
		return m.failSet
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.ID] = s
	return nil
}

func (m *memoryStore) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

var secret = []byte("test-secret")

func setupAuth(t *testing.T) (auth.Service, *memoryStore, *clock.Fake, *employee.Employee) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	worker := &employee.Employee{ID: uuid.New(), FullName: "Kim", IsActive: true}
	dir := &fakeDirectory{byPIN: map[string]*employee.Employee{"2468": worker}}
	store := newMemoryStore()
	svc := auth.NewService(dir, store, auth.Options{Secret: secret, SessionTTL: time.Hour, Clock: clk})
	return svc, store, clk, worker
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues token backed by a session", func(t *testing.T) {
		svc, store, _, worker := setupAuth(t)

		res, err := svc.Login(ctx, "2468", "10.0.0.5")
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.Equal(t, worker.ID.String(), res.Employee.EmployeeID)
		assert.Equal(t, "employee", res.Employee.Role)
		assert.Len(t, store.items, 1)

		principal, err := svc.Authenticate(ctx, res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, worker.ID.String(), principal.EmployeeID)
		assert.False(t, principal.IsAdmin)
	})

	t.Run("malformed pin is a validation error", func(t *testing.T) {
		svc, _, _, _ := setupAuth(t)
		_, err := svc.Login(ctx, "12", "10.0.0.5")
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
	})

	t.Run("unknown pin", func(t *testing.T) {
		svc, _, _, _ := setupAuth(t)
		_, err := svc.Login(ctx, "1357", "10.0.0.5")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("session store failure", func(t *testing.T) {
		svc, store, _, _ := setupAuth(t)
		store.failSet = errors.New("redis down")
		_, err := svc.Login(ctx, "2468", "10.0.0.5")
		assert.True(t, apperror.HasCode(err, apperror.CodeStorageError))
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("logout revokes token", func(t *testing.T) {
		svc, _, _, _ := setupAuth(t)
		res, err := svc.Login(ctx, "2468", "")
		require.NoError(t, err)

		principal, err := svc.Authenticate(ctx, res.AccessToken)
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx, principal.SessionID))

		_, err = svc.Authenticate(ctx, res.AccessToken)
		assert.ErrorIs(t, err, autherrors.ErrSessionNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		svc, _, clk, _ := setupAuth(t)
		res, err := svc.Login(ctx, "2468", "")
		require.NoError(t, err)

		clk.Advance(2 * time.Hour)
		_, err = svc.Authenticate(ctx, res.AccessToken)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("wrong signature", func(t *testing.T) {
		svc, _, _, _ := setupAuth(t)
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"employee_id": uuid.NewString(),
			"sid":         "s-1",
			"exp":         time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
		})
		token, err := forged.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _, _, _ := setupAuth(t)
		_, err := svc.Authenticate(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}

func TestAuthService_Me(t *testing.T) {
	svc, _, _, worker := setupAuth(t)

	res, err := svc.Me(context.Background(), worker.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Kim", res.FullName)

	_, err = svc.Me(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}
