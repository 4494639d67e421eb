// Package report renders timesheets as xlsx workbooks.
package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"go-timeclock/internal/employee"
	"go-timeclock/internal/punch"
	puncherrors "go-timeclock/internal/punch/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/clock"
	"go-timeclock/internal/timecalc"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Timesheet"

type EmployeeLister interface {
	GetAll(ctx context.Context) ([]employee.EmployeeResponse, error)
}

type PunchSource interface {
	ListAll(ctx context.Context, rng punch.Range) ([]punch.PunchResponse, error)
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	WeeklyTimesheet(ctx context.Context, weekStart string) ([]byte, string, error)
}

type service struct {
	employees EmployeeLister
	punches   PunchSource
	clock     clock.Clock
	logger    *zap.Logger
}

func NewService(employees EmployeeLister, punches PunchSource, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	if clk == nil {
		clk = clock.New(nil)
	}
	return &service{employees: employees, punches: punches, clock: clk, logger: l}
}

// WeeklyTimesheet builds one row per active employee with hours for each of
// the seven days starting at weekStart, plus weekly totals. An empty
// weekStart means the current week's Monday. It returns the workbook bytes
// and a suggested file name.
func (s *service) WeeklyTimesheet(ctx context.Context, weekStart string) ([]byte, string, error) {
	now := s.clock.Now()
	start, err := resolveWeekStart(weekStart, now)
	if err != nil {
		return nil, "", err
	}
	from, to := timecalc.WeekBounds(start)

	employees, err := s.employees.GetAll(ctx)
	if err != nil {
		return nil, "", err
	}
	punches, err := s.punches.ListAll(ctx, punch.Range{From: from, To: to})
	if err != nil {
		return nil, "", err
	}

	byEmployee := make(map[string][]timecalc.Entry)
	for _, p := range punches {
		byEmployee[p.EmployeeID] = append(byEmployee[p.EmployeeID], timecalc.Entry{Kind: p.PunchType, At: p.Timestamp})
	}

	active := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		if e.IsActive {
			active = append(active, e)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].FullName < active[j].FullName })

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", apperror.Wrap(err, apperror.CodeInternalError, "failed to build workbook", 500)
	}

	header := []any{"Employee"}
	for d := 0; d < 7; d++ {
		header = append(header, start.AddDate(0, 0, d).Format("Mon 01/02"))
	}
	header = append(header, "Total Hours", "Total Break (min)")
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, "", apperror.Wrap(err, apperror.CodeInternalError, "failed to build workbook", 500)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(header))
		_ = f.SetCellStyle(sheetName, "A1", lastCol+"1", boldStyle)
	}

	for i, e := range active {
		week := timecalc.Week(byEmployee[e.ID], start, now)
		row := []any{e.FullName}
		for _, d := range week.Days {
			row = append(row, round2(d.HoursWorked))
		}
		row = append(row, round2(week.TotalHours), round2(week.TotalBreakMinutes))

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, "", apperror.Wrap(err, apperror.CodeInternalError, "failed to build workbook", 500)
		}
	}
	_ = f.SetColWidth(sheetName, "A", "A", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write timesheet workbook failed", zap.Error(err))
		return nil, "", apperror.Wrap(err, apperror.CodeInternalError, "failed to build workbook", 500)
	}

	s.logger.Info("weekly timesheet generated",
		zap.String("week_start", start.Format(time.DateOnly)),
		zap.Int("employees", len(active)),
	)
	return bytes.Clone(buf.Bytes()), fmt.Sprintf("timesheet-%s.xlsx", start.Format(time.DateOnly)), nil
}

func resolveWeekStart(value string, now time.Time) (time.Time, error) {
	if value == "" {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, now.Location())
	if err != nil {
		return time.Time{}, puncherrors.ErrInvalidDate
	}
	return t, nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
