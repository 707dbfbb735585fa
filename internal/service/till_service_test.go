package service_test

import (
	"context"
	"testing"

	"liquorpos/internal/dto"
	"liquorpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTill(t *testing.T, svc service.TillService, register int, float string) uuid.UUID {
	t.Helper()
	report, err := svc.Open(context.Background(), uuid.New(), dto.OpenTillRequest{
		Register:     register,
		OpeningFloat: decimal.RequireFromString(float),
	})
	require.NoError(t, err)
	id, err := uuid.Parse(report.TillSessionID)
	require.NoError(t, err)
	return id
}

func TestOpenTill_OnePerRegister(t *testing.T) {
	repo := newStubTillRepo()
	svc := service.NewTillService(repo)
	openTill(t, svc, 1, "100.00")

	_, err := svc.Open(context.Background(), uuid.New(), dto.OpenTillRequest{
		Register:     1,
		OpeningFloat: decimal.RequireFromString("50.00"),
	})
	assert.ErrorIs(t, err, service.ErrTillAlreadyOpen)

	// a different register is fine
	openTill(t, svc, 2, "50.00")
}

func TestCloseTill_BlindCountMath(t *testing.T) {
	repo := newStubTillRepo()
	svc := service.NewTillService(repo)
	ctx := context.Background()
	id := openTill(t, svc, 1, "100.00")

	require.NoError(t, svc.RecordMovement(ctx, dto.TillMovementRequest{
		TillSessionID: id.String(),
		Type:          "deposit",
		Amount:        decimal.RequireFromString("50.00"),
		Description:   "change run",
	}))
	require.NoError(t, svc.RecordMovement(ctx, dto.TillMovementRequest{
		TillSessionID: id.String(),
		Type:          "withdrawal",
		Amount:        decimal.RequireFromString("20.00"),
		Description:   "safe drop",
	}))

	// expected = 100 + 50 - 20 = 130; counted 129 → short by 1 (~0.77%)
	resp, err := svc.Close(ctx, dto.CloseTillRequest{
		TillSessionID: id.String(),
		CountedCash:   decimal.RequireFromString("129.00"),
	})
	require.NoError(t, err)
	assert.True(t, resp.ExpectedCash.Equal(decimal.RequireFromString("130.00")), resp.ExpectedCash.String())
	assert.True(t, resp.OverShort.Amount.Equal(decimal.RequireFromString("-1.00")), resp.OverShort.Amount.String())
	assert.Equal(t, "normal", resp.OverShort.Severity)
	assert.Equal(t, "closed", resp.Status)

	// closing twice fails
	_, err = svc.Close(ctx, dto.CloseTillRequest{
		TillSessionID: id.String(),
		CountedCash:   decimal.RequireFromString("129.00"),
	})
	assert.Error(t, err)
}

func TestCloseTill_CriticalRequiresNotes(t *testing.T) {
	repo := newStubTillRepo()
	svc := service.NewTillService(repo)
	ctx := context.Background()
	id := openTill(t, svc, 1, "100.00")

	// short by 10% with no explanation
	_, err := svc.Close(ctx, dto.CloseTillRequest{
		TillSessionID: id.String(),
		CountedCash:   decimal.RequireFromString("90.00"),
	})
	assert.ErrorIs(t, err, service.ErrCriticalOverShort)

	notes := "drawer left open during rush, manager notified"
	resp, err := svc.Close(ctx, dto.CloseTillRequest{
		TillSessionID: id.String(),
		CountedCash:   decimal.RequireFromString("90.00"),
		Notes:         &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "critical", resp.OverShort.Severity)
}

func TestCloseTill_WarningSeverity(t *testing.T) {
	repo := newStubTillRepo()
	svc := service.NewTillService(repo)
	id := openTill(t, svc, 1, "100.00")

	// over by 3%
	resp, err := svc.Close(context.Background(), dto.CloseTillRequest{
		TillSessionID: id.String(),
		CountedCash:   decimal.RequireFromString("103.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "warning", resp.OverShort.Severity)
	assert.True(t, resp.OverShort.Amount.IsPositive())
}

func TestTillReport_IncludesMovements(t *testing.T) {
	repo := newStubTillRepo()
	svc := service.NewTillService(repo)
	ctx := context.Background()
	id := openTill(t, svc, 1, "100.00")

	require.NoError(t, svc.RecordMovement(ctx, dto.TillMovementRequest{
		TillSessionID: id.String(),
		Type:          "payout",
		Amount:        decimal.RequireFromString("15.00"),
		Description:   "window cleaner",
	}))

	report, err := svc.Report(ctx, id)
	require.NoError(t, err)
	require.Len(t, report.Movements, 1)
	// payouts are stored negative
	assert.True(t, report.Movements[0].Amount.Equal(decimal.RequireFromString("-15.00")))
	assert.True(t, report.ExpectedCash.Equal(decimal.RequireFromString("85.00")), report.ExpectedCash.String())
	assert.Equal(t, "open", report.Status)
}

func TestTillHistory_ListsSessions(t *testing.T) {
	repo := newStubTillRepo()
	svc := service.NewTillService(repo)
	ctx := context.Background()

	closedID := openTill(t, svc, 1, "100.00")
	openTill(t, svc, 2, "50.00")
	_, err := svc.Close(ctx, dto.CloseTillRequest{
		TillSessionID: closedID.String(),
		CountedCash:   decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	hist, err := svc.History(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hist.Total)
	assert.Equal(t, 1, hist.Page)
	require.Len(t, hist.Data, 2)

	byID := make(map[string]dto.TillSessionResponse, len(hist.Data))
	for _, s := range hist.Data {
		byID[s.TillSessionID] = s
	}
	closed, ok := byID[closedID.String()]
	require.True(t, ok)
	assert.Equal(t, "closed", closed.Status)
	require.NotNil(t, closed.OverShort)
	assert.Equal(t, "normal", closed.OverShort.Severity)
	require.NotNil(t, closed.ClosedAt)
}

func TestRecordMovement_ClosedSession(t *testing.T) {
	repo := newStubTillRepo()
	svc := service.NewTillService(repo)
	ctx := context.Background()
	id := openTill(t, svc, 1, "100.00")

	_, err := svc.Close(ctx, dto.CloseTillRequest{
		TillSessionID: id.String(),
		CountedCash:   decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	err = svc.RecordMovement(ctx, dto.TillMovementRequest{
		TillSessionID: id.String(),
		Type:          "deposit",
		Amount:        decimal.RequireFromString("5.00"),
		Description:   "late drop",
	})
	assert.ErrorIs(t, err, service.ErrTillNotOpen)
}
