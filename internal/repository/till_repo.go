package repository

import (
	"context"

	"liquorpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TillRepository interface {
	CreateSession(ctx context.Context, s *model.TillSession) error
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.TillSession, error)
	// FindOpenSessionByRegister returns gorm.ErrRecordNotFound when no session is open.
	FindOpenSessionByRegister(ctx context.Context, register int) (*model.TillSession, error)
	UpdateSession(ctx context.Context, s *model.TillSession) error
	ListSessions(ctx context.Context, page, limit int) ([]model.TillSession, int64, error)

	CreateMovement(ctx context.Context, m *model.TillMovement) error
	CreateMovementTx(tx *gorm.DB, m *model.TillMovement) error
	SumMovements(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error)
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.TillMovement, error)
}

type tillRepo struct{ db *gorm.DB }

func NewTillRepository(db *gorm.DB) TillRepository { return &tillRepo{db: db} }

func (r *tillRepo) CreateSession(ctx context.Context, s *model.TillSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *tillRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.TillSession, error) {
	var s model.TillSession
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *tillRepo) FindOpenSessionByRegister(ctx context.Context, register int) (*model.TillSession, error) {
	var s model.TillSession
	err := r.db.WithContext(ctx).
		Where("register = ? AND status = ?", register, "open").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *tillRepo) UpdateSession(ctx context.Context, s *model.TillSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *tillRepo) ListSessions(ctx context.Context, page, limit int) ([]model.TillSession, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.TillSession{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var sessions []model.TillSession
	err := r.db.WithContext(ctx).
		Order("opened_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *tillRepo) CreateMovement(ctx context.Context, m *model.TillMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *tillRepo) CreateMovementTx(tx *gorm.DB, m *model.TillMovement) error {
	return tx.Create(m).Error
}

func (r *tillRepo) SumMovements(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	var sum string
	err := r.db.WithContext(ctx).Model(&model.TillMovement{}).
		Where("till_session_id = ?", sessionID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(sum)
}

func (r *tillRepo) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.TillMovement, error) {
	var movements []model.TillMovement
	err := r.db.WithContext(ctx).
		Where("till_session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}
