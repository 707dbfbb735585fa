package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"liquorpos/internal/dto"
	"liquorpos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The single-connection pool serializes transactions, so concurrent
// adjustments for one UPC must accumulate without lost updates and leave an
// unbroken before/after chain.
func TestApplyAdjustment_ConcurrentSameUPC(t *testing.T) {
	f := newDBFixture(t)
	f.stockProduct(t, "750", "6.00", "10.00", 4)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			reason, delta := "purchase", 2
			if n%4 == 3 {
				reason, delta = "sale", -1
			}
			_, err := f.inventory.ApplyAdjustment(ctx, dto.AdjustInventoryRequest{
				UPC: "750", Reason: reason, Delta: delta,
			}, nil)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// 4 initial + 12 purchases of 2 - 4 sales of 1
	onHand, err := f.inventory.GetOnHand(ctx, "750")
	require.NoError(t, err)
	assert.Equal(t, 24, onHand)

	sum, err := f.ledgerRepo.SumDeltas(ctx, "750")
	require.NoError(t, err)
	assert.Equal(t, int64(24), sum)

	entries, total, err := f.ledgerRepo.List(ctx, repository.AdjustmentFilter{UPC: "750", Limit: 500})
	require.NoError(t, err)
	require.Equal(t, int64(workers+1), total)
	require.Len(t, entries, workers+1)

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	for i, e := range entries {
		assert.Equal(t, e.QuantityBefore+e.Delta, e.QuantityAfter)
		if i > 0 {
			assert.Equal(t, entries[i-1].QuantityAfter, e.QuantityBefore,
				"entry %d does not continue the chain", e.ID)
		}
	}
}

func TestLedgerList_DateRangeFilter(t *testing.T) {
	f := newDBFixture(t)
	f.stockProduct(t, "750", "6.00", "10.00", 4)
	ctx := context.Background()

	_, err := f.inventory.ApplyAdjustment(ctx, dto.AdjustInventoryRequest{
		UPC: "750", Reason: "purchase", Delta: 6,
	}, nil)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	later := time.Now().Add(2 * time.Hour)

	entries, total, err := f.ledgerRepo.List(ctx, repository.AdjustmentFilter{
		UPC: "750", StartDate: &past, EndDate: &future,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, entries, 2)

	// a window after every write matches nothing
	entries, total, err = f.ledgerRepo.List(ctx, repository.AdjustmentFilter{
		UPC: "750", StartDate: &future, EndDate: &later,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)

	// and one that closes before them
	entries, total, err = f.ledgerRepo.List(ctx, repository.AdjustmentFilter{
		UPC: "750", EndDate: &past,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)
}

func TestVerifyBalance_RealStore(t *testing.T) {
	f := newDBFixture(t)
	f.stockProduct(t, "750", "6.00", "10.00", 10)
	ctx := context.Background()

	_, err := f.inventory.ApplyAdjustment(ctx, dto.AdjustInventoryRequest{
		UPC: "750", Reason: "sale", Delta: -3,
	}, nil)
	require.NoError(t, err)

	check, err := f.inventory.VerifyBalance(ctx, "750")
	require.NoError(t, err)
	assert.Equal(t, 7, check.OnHand)
	assert.Equal(t, int64(7), check.SumDeltas)
	assert.True(t, check.Consistent)
}
