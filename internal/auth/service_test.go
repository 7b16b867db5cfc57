package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/dmoralesv/floreria-backend/pkg/auth"
	"github.com/dmoralesv/floreria-backend/pkg/auth/session"
	"github.com/dmoralesv/floreria-backend/pkg/config"
	"github.com/dmoralesv/floreria-backend/pkg/db/models"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/security"
)

type stubUserRepo struct {
	user          *models.User
	lastLoginSet  bool
	findByIDCalls int
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.findByIDCalls++
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ time.Time) error {
	s.lastLoginSet = true
	return nil
}

type stubSessionManager struct {
	generated string
	rotateErr error
	revoked   []string
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = accessID
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	if provided != "refresh-"+oldAccessID {
		return "", "", session.ErrInvalidRefreshToken
	}
	newID := session.NewAccessID()
	return newID, "refresh-" + newID, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "floreria",
		ExpirationMinutes: 15,
	}
}

func testUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Flor",
		LastName:     "Admin",
		Role:         enums.MemberRoleAdmin,
		IsActive:     true,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t, "admin@floreria.pe", "correct-horse-battery")
	repo := &stubUserRepo{user: user}
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Admin@floreria.pe",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if !repo.lastLoginSet {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.MemberRoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID != sessions.generated {
		t.Fatal("expected jti to match the generated session access id")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	user := testUser(t, "admin@floreria.pe", "correct-horse-battery")
	svc := newTestService(t, &stubUserRepo{user: user}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@floreria.pe",
		Password: "wrong",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@floreria.pe",
		Password: "anything",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	user := testUser(t, "admin@floreria.pe", "correct-horse-battery")
	user.IsActive = false
	svc := newTestService(t, &stubUserRepo{user: user}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@floreria.pe",
		Password: "correct-horse-battery",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	user := testUser(t, "admin@floreria.pe", "correct-horse-battery")
	repo := &stubUserRepo{user: user}
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	accessID := session.NewAccessID()
	claims := &pkgAuth.AccessTokenClaims{UserID: user.ID, Role: user.Role}
	claims.ID = accessID

	resp, err := svc.Refresh(context.Background(), claims, RefreshRequest{
		RefreshToken: "refresh-" + accessID,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected rotated token pair")
	}

	parsed, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if parsed.ID == accessID {
		t.Fatal("expected a new access id after rotation")
	}
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	user := testUser(t, "admin@floreria.pe", "correct-horse-battery")
	svc := newTestService(t, &stubUserRepo{user: user}, &stubSessionManager{})

	claims := &pkgAuth.AccessTokenClaims{UserID: user.ID, Role: user.Role}
	claims.ID = session.NewAccessID()

	_, err := svc.Refresh(context.Background(), claims, RefreshRequest{
		RefreshToken: "not-the-stored-token",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	user := testUser(t, "admin@floreria.pe", "correct-horse-battery")
	sessions := &stubSessionManager{}
	svc := newTestService(t, &stubUserRepo{user: user}, sessions)

	if err := svc.Logout(context.Background(), "session-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "session-1" {
		t.Fatalf("expected session-1 revoked, got %v", sessions.revoked)
	}
}
