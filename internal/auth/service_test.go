package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/users"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/config"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	pkgerrors "github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/errors"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func testPasswordCfg() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
		MinLength:        12,
	}
}

func testSessionCfg() config.SessionConfig {
	return config.SessionConfig{TokenBytes: 32, TTL: 720 * time.Hour}
}

func newTestService(t *testing.T, usersRepo *stubUserRepo, sessionsRepo *stubSessionRepo) *service {
	t.Helper()
	svc, err := NewService(usersRepo, sessionsRepo, testPasswordCfg(), testSessionCfg())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc.(*service)
}

func TestNewServiceRequiresRepos(t *testing.T) {
	if _, err := NewService(nil, &stubSessionRepo{}, testPasswordCfg(), testSessionCfg()); err == nil {
		t.Fatal("expected error creating service without users repo")
	}
	if _, err := NewService(&stubUserRepo{}, nil, testPasswordCfg(), testSessionCfg()); err == nil {
		t.Fatal("expected error creating service without sessions repo")
	}
}

func TestRegisterSuccess(t *testing.T) {
	usersRepo := &stubUserRepo{findByUsernameErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, usersRepo, &stubSessionRepo{})

	dto, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Password:  "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Username != "ada" {
		t.Fatalf("expected username ada got %s", dto.Username)
	}
	if usersRepo.created == nil {
		t.Fatal("expected user row created")
	}
	if !strings.HasPrefix(usersRepo.created.PasswordHash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", usersRepo.created.PasswordHash)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	existing := baseUser(t, "taken", "correct-horse-battery")
	usersRepo := &stubUserRepo{byUsername: existing}
	svc := newTestService(t, usersRepo, &stubSessionRepo{})

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "A", LastName: "B", Username: "taken", Password: "correct-horse-battery",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{findByUsernameErr: gorm.ErrRecordNotFound}, &stubSessionRepo{})

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "A", LastName: "B", Username: "short", Password: "tiny",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	user := baseUser(t, "ada", "correct-horse-battery")
	usersRepo := &stubUserRepo{byUsername: user}
	sessionsRepo := &stubSessionRepo{}
	svc := newTestService(t, usersRepo, sessionsRepo)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	result, err := svc.Login(context.Background(), LoginInput{Username: "ada", Password: "correct-horse-battery"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.UserID != user.ID {
		t.Fatalf("expected user id %s got %s", user.ID, result.UserID)
	}
	if len(result.Token) < 43 {
		t.Fatalf("expected >=32 bytes of url-safe token, got %d chars", len(result.Token))
	}
	wantExpiry := start.Add(720 * time.Hour)
	if !result.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected expiry %s got %s", wantExpiry, result.ExpiresAt)
	}
}

func TestLoginWrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	user := baseUser(t, "ada", "correct-horse-battery")

	svcKnown := newTestService(t, &stubUserRepo{byUsername: user}, &stubSessionRepo{})
	_, errWrongPass := svcKnown.Login(context.Background(), LoginInput{Username: "ada", Password: "not-the-password"})

	svcUnknown := newTestService(t, &stubUserRepo{findByUsernameErr: gorm.ErrRecordNotFound}, &stubSessionRepo{})
	_, errNoUser := svcUnknown.Login(context.Background(), LoginInput{Username: "ghost", Password: "whatever"})

	typedA := pkgerrors.As(errWrongPass)
	typedB := pkgerrors.As(errNoUser)
	if typedA == nil || typedB == nil {
		t.Fatalf("expected typed errors, got %v / %v", errWrongPass, errNoUser)
	}
	if typedA.Code() != pkgerrors.CodeUnauthorized || typedB.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized codes, got %s / %s", typedA.Code(), typedB.Code())
	}
	if typedA.Message() != typedB.Message() {
		t.Fatalf("credential failures must be indistinguishable: %q vs %q", typedA.Message(), typedB.Message())
	}
}

func TestValidateSessionExpired(t *testing.T) {
	sessionsRepo := &stubSessionRepo{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, &stubUserRepo{}, sessionsRepo)

	_, err := svc.ValidateSession(context.Background(), "stale-token")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestValidateSessionSuccess(t *testing.T) {
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Token:     "live-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	svc := newTestService(t, &stubUserRepo{}, &stubSessionRepo{found: session})

	got, err := svc.ValidateSession(context.Background(), "live-token")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.UserID != session.UserID {
		t.Fatalf("expected user %s got %s", session.UserID, got.UserID)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	sessionsRepo := &stubSessionRepo{}
	svc := newTestService(t, &stubUserRepo{}, sessionsRepo)

	if err := svc.Logout(context.Background(), "whatever"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(context.Background(), "whatever"); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty-token logout: %v", err)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	user := baseUser(t, "ada", "correct-horse-battery")
	usersRepo := &stubUserRepo{byID: user, findByUsernameErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, usersRepo, &stubSessionRepo{})

	newFirst := "Augusta"
	empty := ""
	dto, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		FirstName: &newFirst,
		LastName:  &empty,
	})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if dto.FirstName != "Augusta" {
		t.Fatalf("expected first name updated, got %s", dto.FirstName)
	}
	if dto.LastName != "Lovelace" {
		t.Fatalf("empty field must not overwrite, got %s", dto.LastName)
	}
}

func TestUpdateUserUsernameConflict(t *testing.T) {
	user := baseUser(t, "ada", "correct-horse-battery")
	other := baseUser(t, "grace", "correct-horse-battery")
	usersRepo := &stubUserRepo{byID: user, byUsername: other}
	svc := newTestService(t, usersRepo, &stubSessionRepo{})

	taken := "grace"
	_, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{Username: &taken})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestChangePasswordRotatesHash(t *testing.T) {
	user := baseUser(t, "ada", "correct-horse-battery")
	originalHash := user.PasswordHash
	usersRepo := &stubUserRepo{byID: user}
	svc := newTestService(t, usersRepo, &stubSessionRepo{})

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordInput{
		CurrentPassword: "correct-horse-battery",
		NewPassword:     "staple-gun-sunrise",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if usersRepo.updatedHash == "" || usersRepo.updatedHash == originalHash {
		t.Fatal("expected a fresh hash to be stored")
	}
	ok, err := security.VerifyPassword("staple-gun-sunrise", usersRepo.updatedHash)
	if err != nil || !ok {
		t.Fatalf("new password must verify against stored hash: ok=%v err=%v", ok, err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	user := baseUser(t, "ada", "correct-horse-battery")
	svc := newTestService(t, &stubUserRepo{byID: user}, &stubSessionRepo{})

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "staple-gun-sunrise",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func baseUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

type stubUserRepo struct {
	byID              *models.User
	byUsername        *models.User
	findByUsernameErr error
	createErr         error
	updateErr         error
	created           *models.User
	updated           *models.User
	updatedHash       string
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.created = user
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.byID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byID, nil
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.byUsername != nil {
		return s.byUsername, nil
	}
	if s.findByUsernameErr != nil {
		return nil, s.findByUsernameErr
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = user
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	s.updatedHash = hash
	return nil
}

type stubSessionRepo struct {
	found     *models.Session
	findErr   error
	createErr error
	deleted   []string
}

func (s *stubSessionRepo) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*models.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *stubSessionRepo) FindActiveByToken(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.found, nil
}

func (s *stubSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	s.deleted = append(s.deleted, token)
	return nil
}
