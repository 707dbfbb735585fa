package repository

import (
	"context"
	"errors"
	"time"

	"liquorpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeClockRepository interface {
	Create(ctx context.Context, e *model.TimeClockEntry) error
	// FindOpenForUser returns (nil, nil) when the user has no open shift.
	FindOpenForUser(ctx context.Context, userID uuid.UUID) (*model.TimeClockEntry, error)
	Update(ctx context.Context, e *model.TimeClockEntry) error
	List(ctx context.Context, userID *uuid.UUID, start, end *time.Time) ([]model.TimeClockEntry, error)
}

type timeClockRepo struct{ db *gorm.DB }

func NewTimeClockRepository(db *gorm.DB) TimeClockRepository { return &timeClockRepo{db: db} }

func (r *timeClockRepo) Create(ctx context.Context, e *model.TimeClockEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *timeClockRepo) FindOpenForUser(ctx context.Context, userID uuid.UUID) (*model.TimeClockEntry, error) {
	var e model.TimeClockEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND clock_out IS NULL", userID).
		Order("clock_in DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *timeClockRepo) Update(ctx context.Context, e *model.TimeClockEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *timeClockRepo) List(ctx context.Context, userID *uuid.UUID, start, end *time.Time) ([]model.TimeClockEntry, error) {
	q := r.db.WithContext(ctx).Model(&model.TimeClockEntry{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if start != nil {
		q = q.Where("clock_in >= ?", *start)
	}
	if end != nil {
		q = q.Where("clock_in <= ?", *end)
	}
	var entries []model.TimeClockEntry
	err := q.Order("clock_in DESC").Find(&entries).Error
	return entries, err
}
