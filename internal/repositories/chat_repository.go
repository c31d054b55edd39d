package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"concierge/internal/infra"
	dbm "concierge/internal/models/db_models"
	"concierge/pkg/utils"
)

type ChatRepository interface {
	CreateSession(ctx context.Context, session *dbm.ChatSession) error
	ListSessionsByUser(ctx context.Context, userID string) ([]dbm.ChatSession, error)
	GetSessionForUser(ctx context.Context, sessionID uuid.UUID, userID string) (*dbm.ChatSession, error)
	AppendMessage(ctx context.Context, message *dbm.ChatMessage) error
	ListMessages(ctx context.Context, sessionID uuid.UUID) ([]dbm.ChatMessage, error)
	ListRecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]dbm.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateSession(ctx context.Context, session *dbm.ChatSession) error {
	if err := r.db.WithContext(ctx).Omit("Messages").Create(session).Error; err != nil {
		return fmt.Errorf("%w: create session: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *chatRepository) ListSessionsByUser(ctx context.Context, userID string) ([]dbm.ChatSession, error) {
	var sessions []dbm.ChatSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list sessions: %w", utils.ErrDatabaseError, err)
	}
	return sessions, nil
}

// GetSessionForUser treats a session owned by someone else the same as a missing one.
func (r *chatRepository) GetSessionForUser(ctx context.Context, sessionID uuid.UUID, userID string) (*dbm.ChatSession, error) {
	var session dbm.ChatSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: get session: %w", utils.ErrDatabaseError, err)
	}
	return &session, nil
}

// AppendMessage inserts the turn and bumps the session's updated_at in one transaction.
func (r *chatRepository) AppendMessage(ctx context.Context, message *dbm.ChatMessage) (err error) {
	tx := infra.StartTransaction(r.db.WithContext(ctx))
	if tx.Error != nil {
		return fmt.Errorf("%w: begin: %w", utils.ErrDatabaseError, tx.Error)
	}
	defer func() {
		if releaseErr := infra.ReleaseTransaction(tx, err); releaseErr != nil && err == nil {
			err = fmt.Errorf("%w: commit: %w", utils.ErrDatabaseError, releaseErr)
		}
	}()

	if err = tx.Create(message).Error; err != nil {
		return fmt.Errorf("%w: append message: %w", utils.ErrDatabaseError, err)
	}

	res := tx.Model(&dbm.ChatSession{}).
		Where("id = ?", message.SessionID).
		Update("updated_at", time.Now().UTC())
	if res.Error != nil {
		err = fmt.Errorf("%w: touch session: %w", utils.ErrDatabaseError, res.Error)
		return err
	}
	if res.RowsAffected == 0 {
		err = utils.ErrSessionNotFound
		return err
	}
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]dbm.ChatMessage, error) {
	var messages []dbm.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %w", utils.ErrDatabaseError, err)
	}
	return messages, nil
}

// ListRecentMessages returns the newest limit turns, oldest first.
func (r *chatRepository) ListRecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]dbm.ChatMessage, error) {
	if limit <= 0 {
		return r.ListMessages(ctx, sessionID)
	}

	var messages []dbm.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list recent messages: %w", utils.ErrDatabaseError, err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
