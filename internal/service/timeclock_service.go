package service

import (
	"context"
	"errors"
	"time"

	"liquorpos/internal/dto"
	"liquorpos/internal/model"
	"liquorpos/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrShiftAlreadyOpen = errors.New("an open shift already exists for this user")
	ErrNoOpenShift      = errors.New("no open shift for this user")
)

type TimeClockService interface {
	ClockIn(ctx context.Context, userID uuid.UUID) (*dto.TimeClockResponse, error)
	ClockOut(ctx context.Context, userID uuid.UUID) (*dto.TimeClockResponse, error)
	List(ctx context.Context, userID *uuid.UUID, start, end *time.Time) ([]dto.TimeClockResponse, error)
}

type timeClockService struct {
	repo repository.TimeClockRepository
}

func NewTimeClockService(repo repository.TimeClockRepository) TimeClockService {
	return &timeClockService{repo: repo}
}

func (s *timeClockService) ClockIn(ctx context.Context, userID uuid.UUID) (*dto.TimeClockResponse, error) {
	open, err := s.repo.FindOpenForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrShiftAlreadyOpen
	}
	entry := &model.TimeClockEntry{UserID: userID, ClockIn: time.Now()}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return timeClockToResponse(entry), nil
}

func (s *timeClockService) ClockOut(ctx context.Context, userID uuid.UUID) (*dto.TimeClockResponse, error) {
	open, err := s.repo.FindOpenForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, ErrNoOpenShift
	}
	now := time.Now()
	open.ClockOut = &now
	if err := s.repo.Update(ctx, open); err != nil {
		return nil, err
	}
	return timeClockToResponse(open), nil
}

func (s *timeClockService) List(ctx context.Context, userID *uuid.UUID, start, end *time.Time) ([]dto.TimeClockResponse, error) {
	entries, err := s.repo.List(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TimeClockResponse, 0, len(entries))
	for i := range entries {
		items = append(items, *timeClockToResponse(&entries[i]))
	}
	return items, nil
}

func timeClockToResponse(e *model.TimeClockEntry) *dto.TimeClockResponse {
	resp := &dto.TimeClockResponse{
		ID:      e.ID,
		UserID:  e.UserID.String(),
		ClockIn: e.ClockIn.Format("2006-01-02T15:04:05Z"),
	}
	if e.ClockOut != nil {
		out := e.ClockOut.Format("2006-01-02T15:04:05Z")
		resp.ClockOut = &out
		hours := e.ClockOut.Sub(e.ClockIn).Hours()
		resp.Hours = &hours
	}
	return resp
}
