// Package stats rolls up dashboard counters from the ledger, the employee
// directory and both workflows. Nothing is cached.
package stats

import (
	"context"

	"go-timeclock/internal/punch"
	"go-timeclock/internal/shared/clock"
	"go-timeclock/internal/timecalc"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type EmployeeCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

type PunchSource interface {
	ListAll(ctx context.Context, rng punch.Range) ([]punch.PunchResponse, error)
}

type PendingCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

type StatsResponse struct {
	ActiveEmployees    int64  `json:"active_employees"`
	ClockedIn          int64  `json:"clocked_in"`
	PunchesToday       int64  `json:"punches_today"`
	PendingCorrections int64  `json:"pending_corrections"`
	PendingTimeOff     int64  `json:"pending_time_off"`
	Date               string `json:"date"`
}

//go:generate mockgen -source=stats_service.go -destination=mock/stats_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context) (StatsResponse, error)
}

type service struct {
	employees   EmployeeCounter
	punches     PunchSource
	corrections PendingCounter
	timeOff     PendingCounter
	clock       clock.Clock
	logger      *zap.Logger
}

func NewService(
	employees EmployeeCounter,
	punches PunchSource,
	corrections PendingCounter,
	timeOff PendingCounter,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("stats.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stats.service")
	}
	if clk == nil {
		clk = clock.New(nil)
	}
	return &service{
		employees:   employees,
		punches:     punches,
		corrections: corrections,
		timeOff:     timeOff,
		clock:       clk,
		logger:      l,
	}
}

// Get computes the counters for today, [local midnight, +24h) in server time.
func (s *service) Get(ctx context.Context) (StatsResponse, error) {
	now := s.clock.Now()
	from, to := timecalc.DayBounds(now)
	resp := StatsResponse{Date: from.Format("2006-01-02")}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.employees.CountActive(gctx)
		resp.ActiveEmployees = n
		return err
	})
	g.Go(func() error {
		today, err := s.punches.ListAll(gctx, punch.Range{From: from, To: to})
		if err != nil {
			return err
		}
		resp.PunchesToday = int64(len(today))
		resp.ClockedIn = countClockedIn(today)
		return nil
	})
	g.Go(func() error {
		n, err := s.corrections.CountPending(gctx)
		resp.PendingCorrections = n
		return err
	})
	g.Go(func() error {
		n, err := s.timeOff.CountPending(gctx)
		resp.PendingTimeOff = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("stats aggregation failed", zap.Error(err))
		return StatsResponse{}, err
	}
	return resp, nil
}

// countClockedIn counts employees whose latest punch in rows is an "in".
// rows must be newest first.
func countClockedIn(rows []punch.PunchResponse) int64 {
	seen := make(map[string]bool, len(rows))
	var n int64
	for _, r := range rows {
		if seen[r.EmployeeID] {
			continue
		}
		seen[r.EmployeeID] = true
		if r.PunchType == punch.TypeIn {
			n++
		}
	}
	return n
}
