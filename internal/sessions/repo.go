package sessions

import (
	"context"
	"time"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles session persistence. Sessions are immutable once issued:
// they are created at login, read during validation, and deleted at logout.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to session operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a session for the given user.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*models.Session, error) {
	session := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// FindActiveByToken loads the session whose token matches exactly and whose
// expiry is strictly in the future. Expired rows fall through to ErrRecordNotFound.
func (r *Repository) FindActiveByToken(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken removes the session with the given token. Deleting a missing
// token is not an error; logout is idempotent.
func (r *Repository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.Session{}).Error
}

// DeleteByUser removes every session belonging to the user.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Session{}).Error
}
