package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-timeclock/internal/auth/errors"
	"go-timeclock/internal/domain"
	"go-timeclock/internal/employee"
	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeDirectory is the slice of the employee module auth depends on.
type EmployeeDirectory interface {
	FindActiveByPIN(ctx context.Context, pin string) (*employee.Employee, error)
	Lookup(ctx context.Context, id string) (*employee.Employee, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, pin, ip string) (LoginResult, error)
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, employeeID string) (AuthResponse, error)
}

type Options struct {
	Secret     []byte
	SessionTTL time.Duration
	Clock      clock.Clock
}

type service struct {
	employees EmployeeDirectory
	sessions  SessionStore
	secret    []byte
	ttl       time.Duration
	clock     clock.Clock
	logger    *zap.Logger
}

func NewService(employees EmployeeDirectory, sessions SessionStore, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if opts.Clock == nil {
		opts.Clock = clock.New(nil)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 12 * time.Hour
	}
	return &service{
		employees: employees,
		sessions:  sessions,
		secret:    opts.Secret,
		ttl:       opts.SessionTTL,
		clock:     opts.Clock,
		logger:    l,
	}
}

func (s *service) Login(ctx context.Context, pin, ip string) (LoginResult, error) {
	empl, err := s.employees.FindActiveByPIN(ctx, pin)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			s.logger.Warn("login rejected", zap.String("client_ip", ip))
			return LoginResult{}, autherrors.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	now := s.clock.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		EmployeeID: empl.ID.String(),
		IsAdmin:    empl.IsAdmin,
		IPAddress:  ip,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	token, err := s.generateToken(sess)
	if err != nil {
		s.logger.Error("sign token failed", zap.Error(err))
		return LoginResult{}, autherrors.ErrTokenGenerationFailed
	}

	if err := s.sessions.Set(ctx, sess, s.ttl); err != nil {
		s.logger.Error("store session failed", zap.String("employee_id", sess.EmployeeID), zap.Error(err))
		return LoginResult{}, apperror.Storage(err)
	}

	s.logger.Info("login success",
		zap.String("employee_id", sess.EmployeeID),
		zap.String("session_id", sess.ID),
		zap.String("client_ip", ip),
	)

	return LoginResult{
		AccessToken: token,
		ExpiresAt:   sess.ExpiresAt,
		Employee:    toAuthResponse(empl),
	}, nil
}

// Authenticate verifies the token signature and that its session is still live.
func (s *service) Authenticate(ctx context.Context, tokenString string) (domain.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !token.Valid {
		return domain.Principal{}, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Principal{}, autherrors.ErrInvalidToken
	}
	sid, _ := claims["sid"].(string)
	employeeID, _ := claims["employee_id"].(string)
	if sid == "" || employeeID == "" {
		return domain.Principal{}, autherrors.ErrInvalidToken
	}

	sess, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, ErrSessionMissing) {
			return domain.Principal{}, autherrors.ErrSessionNotFound
		}
		s.logger.Error("load session failed", zap.String("session_id", sid), zap.Error(err))
		return domain.Principal{}, apperror.Storage(err)
	}
	if sess.EmployeeID != employeeID {
		return domain.Principal{}, autherrors.ErrInvalidToken
	}

	return domain.Principal{
		EmployeeID: sess.EmployeeID,
		IsAdmin:    sess.IsAdmin,
		SessionID:  sess.ID,
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		s.logger.Error("destroy session failed", zap.String("session_id", sessionID), zap.Error(err))
		return apperror.Storage(err)
	}
	s.logger.Info("logout", zap.String("session_id", sessionID))
	return nil
}

func (s *service) Me(ctx context.Context, employeeID string) (AuthResponse, error) {
	empl, err := s.employees.Lookup(ctx, employeeID)
	if err != nil {
		return AuthResponse{}, err
	}
	return toAuthResponse(empl), nil
}

func (s *service) generateToken(sess *Session) (string, error) {
	claims := jwt.MapClaims{
		"employee_id": sess.EmployeeID,
		"is_admin":    sess.IsAdmin,
		"sid":         sess.ID,
		"iat":         sess.CreatedAt.Unix(),
		"exp":         sess.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func toAuthResponse(e *employee.Employee) AuthResponse {
	p := domain.Principal{EmployeeID: e.ID.String(), IsAdmin: e.IsAdmin}
	return AuthResponse{
		EmployeeID: p.EmployeeID,
		FullName:   e.FullName,
		IsAdmin:    e.IsAdmin,
		Role:       p.Role(),
	}
}
