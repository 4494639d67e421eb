package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-timeclock/internal/punch"
	"go-timeclock/internal/shared/clock"
	"go-timeclock/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countFn func(ctx context.Context) (int64, error)

func (f countFn) CountActive(ctx context.Context) (int64, error)  { return f(ctx) }
func (f countFn) CountPending(ctx context.Context) (int64, error) { return f(ctx) }

func constant(n int64) countFn {
	return func(context.Context) (int64, error) { return n, nil }
}

type punchList func(ctx context.Context, rng punch.Range) ([]punch.PunchResponse, error)

func (f punchList) ListAll(ctx context.Context, rng punch.Range) ([]punch.PunchResponse, error) {
	return f(ctx, rng)
}

func TestStatsService_Get(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, loc)
	clk := clock.NewFake(now)

	t.Run("aggregates today", func(t *testing.T) {
		punches := punchList(func(ctx context.Context, rng punch.Range) ([]punch.PunchResponse, error) {
			assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, loc), rng.From)
			assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, loc), rng.To)
			// newest first
			return []punch.PunchResponse{
				{EmployeeID: "a", PunchType: punch.TypeOut},
				{EmployeeID: "b", PunchType: punch.TypeIn},
				{EmployeeID: "a", PunchType: punch.TypeIn},
				{EmployeeID: "c", PunchType: punch.TypeIn},
			}, nil
		})
		svc := stats.NewService(constant(5), punches, constant(2), constant(1), clk)

		got, err := svc.Get(context.Background())

		require.NoError(t, err)
		assert.Equal(t, stats.StatsResponse{
			ActiveEmployees:    5,
			ClockedIn:          2,
			PunchesToday:       4,
			PendingCorrections: 2,
			PendingTimeOff:     1,
			Date:               "2026-03-02",
		}, got)
	})

	t.Run("nothing today", func(t *testing.T) {
		punches := punchList(func(ctx context.Context, rng punch.Range) ([]punch.PunchResponse, error) {
			return nil, nil
		})
		svc := stats.NewService(constant(3), punches, constant(0), constant(0), clk)

		got, err := svc.Get(context.Background())

		require.NoError(t, err)
		assert.Zero(t, got.ClockedIn)
		assert.Zero(t, got.PunchesToday)
	})

	t.Run("any failure fails the call", func(t *testing.T) {
		punches := punchList(func(ctx context.Context, rng punch.Range) ([]punch.PunchResponse, error) {
			return nil, nil
		})
		broken := countFn(func(context.Context) (int64, error) { return 0, errors.New("db down") })
		svc := stats.NewService(constant(3), punches, broken, constant(0), clk)

		_, err := svc.Get(context.Background())

		assert.Error(t, err)
	})
}
