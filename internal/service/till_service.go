package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"liquorpos/internal/dto"
	"liquorpos/internal/model"
	"liquorpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTillAlreadyOpen   = errors.New("a till session is already open on this register")
	ErrTillNotOpen       = errors.New("no open till session")
	ErrTillNotFound      = errors.New("till session not found")
	ErrCriticalOverShort = errors.New("critical over/short: supervisor notes are required")
)

type TillService interface {
	Open(ctx context.Context, userID uuid.UUID, req dto.OpenTillRequest) (*dto.TillReportResponse, error)
	RecordMovement(ctx context.Context, req dto.TillMovementRequest) error
	// Close performs the blind count: over/short is computed only after the
	// counted cash has been declared.
	Close(ctx context.Context, req dto.CloseTillRequest) (*dto.CloseTillResponse, error)
	Report(ctx context.Context, sessionID uuid.UUID) (*dto.TillReportResponse, error)
	FindActive(ctx context.Context, register int) (*dto.TillReportResponse, error)
	// History lists sessions across all registers, newest first.
	History(ctx context.Context, page, limit int) (*dto.TillHistoryResponse, error)
	// RequireOpenSession is called by TransactionService before any sale.
	RequireOpenSession(ctx context.Context, sessionID uuid.UUID) error
}

type tillService struct {
	repo repository.TillRepository
}

func NewTillService(repo repository.TillRepository) TillService {
	return &tillService{repo: repo}
}

func (s *tillService) Open(ctx context.Context, userID uuid.UUID, req dto.OpenTillRequest) (*dto.TillReportResponse, error) {
	if existing, err := s.repo.FindOpenSessionByRegister(ctx, req.Register); err == nil && existing != nil {
		return nil, ErrTillAlreadyOpen
	}

	session := &model.TillSession{
		Register:     req.Register,
		OpenedBy:     userID,
		OpeningFloat: req.OpeningFloat,
		Status:       "open",
		OpenedAt:     time.Now(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return s.buildReport(ctx, session)
}

func (s *tillService) RecordMovement(ctx context.Context, req dto.TillMovementRequest) error {
	sessionID, err := uuid.Parse(req.TillSessionID)
	if err != nil {
		return fmt.Errorf("invalid till_session_id: %w", err)
	}
	if err := s.RequireOpenSession(ctx, sessionID); err != nil {
		return err
	}

	amount := req.Amount
	// withdrawal and payout take cash out of the drawer
	if req.Type == "withdrawal" || req.Type == "payout" {
		amount = req.Amount.Neg()
	}
	return s.repo.CreateMovement(ctx, &model.TillMovement{
		TillSessionID: sessionID,
		Type:          req.Type,
		Amount:        amount,
		Description:   req.Description,
		CreatedAt:     time.Now(),
	})
}

func (s *tillService) Close(ctx context.Context, req dto.CloseTillRequest) (*dto.CloseTillResponse, error) {
	sessionID, err := uuid.Parse(req.TillSessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid till_session_id: %w", err)
	}

	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, ErrTillNotFound
	}
	if session.Status != "open" {
		return nil, errors.New("till session is already closed")
	}

	sum, err := s.repo.SumMovements(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	expected := session.OpeningFloat.Add(sum)
	overShort := req.CountedCash.Sub(expected)

	var overShortPct decimal.Decimal
	if !expected.IsZero() {
		overShortPct = overShort.Div(expected).Mul(decimal.NewFromInt(100)).Round(2)
	}
	severity := classifyOverShort(overShortPct)

	if severity == "critical" && (req.Notes == nil || *req.Notes == "") {
		return nil, ErrCriticalOverShort
	}

	now := time.Now()
	counted := req.CountedCash
	session.ExpectedCash = &expected
	session.CountedCash = &counted
	session.OverShort = &overShort
	session.OverShortPct = &overShortPct
	session.Status = "closed"
	session.Notes = req.Notes
	session.ClosedAt = &now

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CloseTillResponse{
		TillSessionID: sessionID.String(),
		ExpectedCash:  expected,
		CountedCash:   counted,
		OverShort: dto.OverShortResponse{
			Amount:   overShort,
			Pct:      overShortPct,
			Severity: severity,
		},
		Status: "closed",
	}, nil
}

func (s *tillService) Report(ctx context.Context, sessionID uuid.UUID) (*dto.TillReportResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, ErrTillNotFound
	}
	return s.buildReport(ctx, session)
}

func (s *tillService) FindActive(ctx context.Context, register int) (*dto.TillReportResponse, error) {
	session, err := s.repo.FindOpenSessionByRegister(ctx, register)
	if err != nil {
		return nil, ErrTillNotOpen
	}
	return s.buildReport(ctx, session)
}

func (s *tillService) History(ctx context.Context, page, limit int) (*dto.TillHistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	sessions, total, err := s.repo.ListSessions(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.TillHistoryResponse{
		Data:  make([]dto.TillSessionResponse, 0, len(sessions)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range sessions {
		resp.Data = append(resp.Data, tillSessionToResponse(&sessions[i]))
	}
	return resp, nil
}

func tillSessionToResponse(s *model.TillSession) dto.TillSessionResponse {
	out := dto.TillSessionResponse{
		TillSessionID: s.ID.String(),
		Register:      s.Register,
		OpeningFloat:  s.OpeningFloat,
		ExpectedCash:  s.ExpectedCash,
		CountedCash:   s.CountedCash,
		Status:        s.Status,
		OpenedAt:      s.OpenedAt.Format("2006-01-02T15:04:05Z"),
	}
	if s.OverShort != nil && s.OverShortPct != nil {
		out.OverShort = &dto.OverShortResponse{
			Amount:   *s.OverShort,
			Pct:      *s.OverShortPct,
			Severity: classifyOverShort(*s.OverShortPct),
		}
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format("2006-01-02T15:04:05Z")
		out.ClosedAt = &t
	}
	return out
}

func (s *tillService) RequireOpenSession(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return ErrTillNotFound
	}
	if session.Status != "open" {
		return ErrTillNotOpen
	}
	return nil
}

// classifyOverShort returns "normal" | "warning" | "critical".
// normal: |pct| <= 1%, warning: <= 5%, critical: > 5%
func classifyOverShort(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return "warning"
	default:
		return "critical"
	}
}

func (s *tillService) buildReport(ctx context.Context, session *model.TillSession) (*dto.TillReportResponse, error) {
	sum, err := s.repo.SumMovements(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	movements, err := s.repo.ListMovements(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	report := &dto.TillReportResponse{
		TillSessionID: session.ID.String(),
		Register:      session.Register,
		OpeningFloat:  session.OpeningFloat,
		ExpectedCash:  session.OpeningFloat.Add(sum),
		CountedCash:   session.CountedCash,
		Status:        session.Status,
		Notes:         session.Notes,
		OpenedAt:      session.OpenedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, m := range movements {
		mv := dto.TillMovementResponse{
			ID:          m.ID.String(),
			Type:        m.Type,
			Amount:      m.Amount,
			Description: m.Description,
			CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			mv.ReferenceID = &ref
		}
		report.Movements = append(report.Movements, mv)
	}
	if session.OverShort != nil && session.OverShortPct != nil {
		report.OverShort = &dto.OverShortResponse{
			Amount:   *session.OverShort,
			Pct:      *session.OverShortPct,
			Severity: classifyOverShort(*session.OverShortPct),
		}
	}
	if session.ClosedAt != nil {
		t := session.ClosedAt.Format("2006-01-02T15:04:05Z")
		report.ClosedAt = &t
	}
	return report, nil
}
