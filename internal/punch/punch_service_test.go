package punch_test

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"go-timeclock/internal/employee"
	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/events"
	"go-timeclock/internal/geofence"
	"go-timeclock/internal/punch"
	puncherrors "go-timeclock/internal/punch/errors"
	mock_punch "go-timeclock/internal/punch/mock"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/audit"
	"go-timeclock/internal/shared/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type memRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]punch.Punch
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uuid.UUID]punch.Punch{}}
}

func (m *memRepo) WithTx(tx *sql.Tx) punch.Repository { return m }

func (m *memRepo) Create(ctx context.Context, p *punch.Punch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = *p
	return nil
}

func (m *memRepo) Update(ctx context.Context, p *punch.Punch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = *p
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, _ := uuid.Parse(id)
	if _, ok := m.rows[uid]; !ok {
		return false, nil
	}
	delete(m.rows, uid)
	return true, nil
}

func (m *memRepo) FindByID(ctx context.Context, id string) (*punch.Punch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, _ := uuid.Parse(id)
	p, ok := m.rows[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *memRepo) ExistsSince(ctx context.Context, employeeID uuid.UUID, punchType string, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.EmployeeID == employeeID && p.PunchType == punchType && !p.Timestamp.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListByEmployee(ctx context.Context, employeeID string, rng punch.Range) ([]punch.Punch, error) {
	all, _ := m.ListAll(ctx, rng)
	rows := make([]punch.Punch, 0, len(all))
	for _, p := range all {
		if p.EmployeeID.String() == employeeID {
			rows = append(rows, p)
		}
	}
	return rows, nil
}

func (m *memRepo) ListAll(ctx context.Context, rng punch.Range) ([]punch.Punch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]punch.Punch, 0, len(m.rows))
	for _, p := range m.rows {
		if !rng.From.IsZero() && p.Timestamp.Before(rng.From) {
			continue
		}
		if !rng.To.IsZero() && !p.Timestamp.Before(rng.To) {
			continue
		}
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp.After(rows[j].Timestamp) })
	return rows, nil
}

func (m *memRepo) Last(ctx context.Context, employeeID string) (*punch.Punch, error) {
	rows, _ := m.ListByEmployee(ctx, employeeID, punch.Range{})
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

type fakeDirectory map[string]*employee.Employee

func (d fakeDirectory) Lookup(ctx context.Context, id string) (*employee.Employee, error) {
	e, ok := d[id]
	if !ok {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeGeofence struct {
	cfg geofence.Config
	err error
}

func (f fakeGeofence) GetGeofence(ctx context.Context) (geofence.Config, error) {
	return f.cfg, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.PunchEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.PunchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type recordingAudit struct {
	entries []audit.Entry
}

func (a *recordingAudit) Log(ctx context.Context, e audit.Entry) {
	a.entries = append(a.entries, e)
}

type fixture struct {
	svc       punch.Service
	repo      *memRepo
	sqlMock   sqlmock.Sqlmock
	clock     *clock.Fake
	publisher *recordingPublisher
	audit     *recordingAudit
	worker    *employee.Employee
	admin     *employee.Employee
}

var loc = time.FixedZone("WIB", 7*3600)

func newFixture(t *testing.T, fence geofence.Config) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	worker := &employee.Employee{ID: uuid.New(), FullName: "Rina", IsActive: true}
	admin := &employee.Employee{ID: uuid.New(), FullName: "Boss", IsActive: true, IsAdmin: true}

	f := &fixture{
		repo:      newMemRepo(),
		sqlMock:   mock,
		clock:     clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, loc)),
		publisher: &recordingPublisher{},
		audit:     &recordingAudit{},
		worker:    worker,
		admin:     admin,
	}
	dir := fakeDirectory{worker.ID.String(): worker, admin.ID.String(): admin}
	f.svc = punch.NewService(db, f.repo, dir, fakeGeofence{cfg: fence}, punch.Options{
		Clock:     f.clock,
		Locker:    punch.NewLocalLocker(),
		Publisher: f.publisher,
		Audit:     f.audit,
	})
	return f
}

func (f *fixture) expectCommit() {
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
}

func ptr[T any](v T) *T { return &v }

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("records punch at server time", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()

		resp, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: "IN"}, "10.0.0.1")

		require.NoError(t, err)
		assert.Equal(t, punch.TypeIn, resp.PunchType)
		assert.True(t, resp.Timestamp.Equal(f.clock.Now()))
		assert.Equal(t, punch.SourceSelf, resp.Source)
		assert.Equal(t, "Rina", resp.EmployeeName)
		assert.False(t, resp.Flagged)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, events.EventPunchRecorded, f.publisher.events[0].EventType)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("same type inside window is rejected", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()
		f.expectRollback()

		_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
		require.NoError(t, err)

		f.clock.Advance(10 * time.Second)
		_, err = f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")

		assert.ErrorIs(t, err, puncherrors.ErrDuplicatePunch)
		assert.Len(t, f.repo.rows, 1)
	})

	t.Run("exactly thirty seconds is still a duplicate", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()
		f.expectRollback()
		f.expectCommit()

		_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeOut}, "")
		require.NoError(t, err)

		f.clock.Advance(30 * time.Second)
		_, err = f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeOut}, "")
		assert.ErrorIs(t, err, puncherrors.ErrDuplicatePunch)

		f.clock.Advance(time.Second)
		_, err = f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeOut}, "")
		assert.NoError(t, err)
		assert.Len(t, f.repo.rows, 2)
	})

	t.Run("different type is not deduplicated", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()
		f.expectCommit()

		_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeOut}, "")

		assert.NoError(t, err)
		assert.Len(t, f.repo.rows, 2)
	})

	t.Run("concurrent duplicates yield one punch", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()
		f.expectRollback()

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, puncherrors.ErrDuplicatePunch)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Len(t, f.repo.rows, 1)
	})

	t.Run("outside geofence is flagged not rejected", func(t *testing.T) {
		f := newFixture(t, geofence.Config{Enabled: true, Latitude: -6.2, Longitude: 106.8, RadiusMeters: 100})
		f.expectCommit()

		resp, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{
			PunchType: punch.TypeIn,
			Latitude:  ptr(-6.3),
			Longitude: ptr(106.8),
		}, "")

		require.NoError(t, err)
		assert.True(t, resp.Flagged)
	})

	t.Run("missing location is flagged when geofence enabled", func(t *testing.T) {
		f := newFixture(t, geofence.Config{Enabled: true, Latitude: -6.2, Longitude: 106.8, RadiusMeters: 100})
		f.expectCommit()

		resp, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")

		require.NoError(t, err)
		assert.True(t, resp.Flagged)
	})

	t.Run("client flag is kept", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()

		resp, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn, Flagged: true}, "")

		require.NoError(t, err)
		assert.True(t, resp.Flagged)
	})

	t.Run("half a location is invalid", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})

		_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn, Latitude: ptr(1.0)}, "")

		assert.ErrorIs(t, err, puncherrors.ErrIncompleteLocation)
	})

	t.Run("invalid type", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})

		_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: "lunch"}, "")

		assert.ErrorIs(t, err, puncherrors.ErrInvalidPunchType)
	})

	t.Run("unknown employee", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})

		_, err := f.svc.Create(ctx, uuid.NewString(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("inactive employee", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.worker.IsActive = false

		_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeInactive)
	})

	t.Run("publish failure does not fail the punch", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.publisher.err = errors.New("outbox down")
		f.expectCommit()

		_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")

		assert.NoError(t, err)
		assert.Len(t, f.repo.rows, 1)
	})
}

func TestService_Create_StorageErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockRepo := mock_punch.NewMockRepository(ctrl)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	worker := &employee.Employee{ID: uuid.New(), IsActive: true}
	svc := punch.NewService(db, mockRepo, fakeDirectory{worker.ID.String(): worker}, fakeGeofence{}, punch.Options{
		Clock: clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
	})

	t.Run("dedup query fails", func(t *testing.T) {
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		mockRepo.EXPECT().WithTx(gomock.Any()).Return(mockRepo)
		mockRepo.EXPECT().
			ExistsSince(gomock.Any(), worker.ID, punch.TypeIn, gomock.Any()).
			Return(false, errors.New("connection reset"))

		_, err := svc.Create(ctx, worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeStorageError, appErr.Code)
	})

	t.Run("begin fails", func(t *testing.T) {
		sqlMock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		_, err := svc.Create(ctx, worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeOut}, "")

		assert.Error(t, err)
	})

	t.Run("insert fails", func(t *testing.T) {
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		mockRepo.EXPECT().WithTx(gomock.Any()).Return(mockRepo)
		mockRepo.EXPECT().ExistsSince(gomock.Any(), worker.ID, punch.TypeOut, gomock.Any()).Return(false, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := svc.Create(ctx, worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeOut}, "")

		assert.Error(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

type busyLocker struct{ err error }

func (b busyLocker) Lock(ctx context.Context, key string) (func(), error) {
	return nil, b.err
}

func TestService_Create_LockErrors(t *testing.T) {
	ctx := context.Background()
	worker := &employee.Employee{ID: uuid.New(), IsActive: true}
	dir := fakeDirectory{worker.ID.String(): worker}

	t.Run("timeout reads as duplicate", func(t *testing.T) {
		svc := punch.NewService(nil, newMemRepo(), dir, fakeGeofence{}, punch.Options{Locker: busyLocker{err: punch.ErrLockTimeout}})

		_, err := svc.Create(ctx, worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")

		assert.ErrorIs(t, err, puncherrors.ErrDuplicatePunch)
	})

	t.Run("backend failure is a storage error", func(t *testing.T) {
		svc := punch.NewService(nil, newMemRepo(), dir, fakeGeofence{}, punch.Options{Locker: busyLocker{err: errors.New("redis down")}})

		_, err := svc.Create(ctx, worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeStorageError, appErr.Code)
	})
}

func TestService_CreateManual(t *testing.T) {
	ctx := context.Background()

	t.Run("bypasses dedup and is audited", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()
		f.expectCommit()
		at := time.Date(2026, 3, 1, 8, 0, 0, 0, loc)

		req := punch.ManualPunchRequest{EmployeeID: f.worker.ID.String(), PunchType: punch.TypeIn, Timestamp: at}
		_, err := f.svc.CreateManual(ctx, f.admin.ID.String(), req, "")
		require.NoError(t, err)
		resp, err := f.svc.CreateManual(ctx, f.admin.ID.String(), req, "")
		require.NoError(t, err)

		assert.Equal(t, punch.SourceManual, resp.Source)
		assert.Equal(t, f.admin.ID.String(), resp.CreatedBy)
		assert.True(t, resp.Timestamp.Equal(at))
		assert.Len(t, f.repo.rows, 2)
		require.Len(t, f.audit.entries, 2)
		assert.Equal(t, "PUNCH_MANUAL_CREATE", f.audit.entries[0].Action)
	})

	t.Run("timestamp required", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})

		_, err := f.svc.CreateManual(ctx, f.admin.ID.String(), punch.ManualPunchRequest{
			EmployeeID: f.worker.ID.String(),
			PunchType:  punch.TypeIn,
		}, "")

		assert.ErrorIs(t, err, puncherrors.ErrTimestampRequired)
	})
}

func TestService_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update changes only given fields", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()
		f.expectCommit()

		created, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
		require.NoError(t, err)

		newTime := f.clock.Now().Add(-time.Hour)
		updated, err := f.svc.Update(ctx, f.admin.ID.String(), created.ID, punch.UpdatePunchRequest{Timestamp: &newTime})

		require.NoError(t, err)
		assert.True(t, updated.Timestamp.Equal(newTime))
		assert.Equal(t, punch.TypeIn, updated.PunchType)

		got, err := f.svc.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.Timestamp.Equal(newTime))
		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, "PUNCH_UPDATE", f.audit.entries[0].Action)
	})

	t.Run("update missing punch", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectRollback()

		_, err := f.svc.Update(ctx, f.admin.ID.String(), uuid.NewString(), punch.UpdatePunchRequest{Flagged: ptr(true)})

		assert.ErrorIs(t, err, puncherrors.ErrPunchNotFound)
	})

	t.Run("update rejects bad type", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})

		_, err := f.svc.Update(ctx, f.admin.ID.String(), uuid.NewString(), punch.UpdatePunchRequest{PunchType: ptr("break")})

		assert.ErrorIs(t, err, puncherrors.ErrInvalidPunchType)
	})

	t.Run("delete removes and audits", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()
		f.expectCommit()

		created, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
		require.NoError(t, err)

		deleted, err := f.svc.Delete(ctx, f.admin.ID.String(), created.ID)

		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Empty(t, f.repo.rows)
		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, "PUNCH_DELETE", f.audit.entries[0].Action)
		assert.Equal(t, f.admin.ID.String(), f.audit.entries[0].ActorID)
	})

	t.Run("delete of absent punch returns false", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectRollback()

		deleted, err := f.svc.Delete(ctx, f.admin.ID.String(), uuid.NewString())

		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Empty(t, f.audit.entries)
	})

	t.Run("delete rejects malformed id", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})

		_, err := f.svc.Delete(ctx, f.admin.ID.String(), "nope")

		assert.ErrorIs(t, err, puncherrors.ErrInvalidPunchID)
	})
}

func TestService_StatusAndSummaries(t *testing.T) {
	ctx := context.Background()

	t.Run("clocked in after an in punch", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()

		_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
		require.NoError(t, err)

		status, err := f.svc.Status(ctx, f.worker.ID.String())

		require.NoError(t, err)
		assert.True(t, status.ClockedIn)
		require.NotNil(t, status.LastPunch)
	})

	t.Run("no punches means clocked out", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})

		status, err := f.svc.Status(ctx, f.worker.ID.String())

		require.NoError(t, err)
		assert.False(t, status.ClockedIn)
		assert.Nil(t, status.LastPunch)
	})

	t.Run("admins are never clocked in", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()

		_, err := f.svc.Create(ctx, f.admin.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
		require.NoError(t, err)

		status, err := f.svc.Status(ctx, f.admin.ID.String())

		require.NoError(t, err)
		assert.False(t, status.ClockedIn)
	})

	t.Run("day summary counts the open session up to now", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()

		_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
		require.NoError(t, err)
		f.clock.Advance(2 * time.Hour)

		day, err := f.svc.DaySummary(ctx, f.worker.ID.String(), "")

		require.NoError(t, err)
		assert.Equal(t, "2026-03-02", day.Date)
		assert.True(t, day.Live)
		assert.InDelta(t, 2.0, day.HoursWorked, 0.001)
	})

	t.Run("week summary of a past week", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})
		f.expectCommit()
		f.expectCommit()

		for _, req := range []punch.ManualPunchRequest{
			{EmployeeID: f.worker.ID.String(), PunchType: punch.TypeIn, Timestamp: time.Date(2026, 2, 24, 8, 0, 0, 0, loc)},
			{EmployeeID: f.worker.ID.String(), PunchType: punch.TypeOut, Timestamp: time.Date(2026, 2, 24, 12, 30, 0, 0, loc)},
		} {
			_, err := f.svc.CreateManual(ctx, f.admin.ID.String(), req, "")
			require.NoError(t, err)
		}

		week, err := f.svc.WeekSummary(ctx, f.worker.ID.String(), "2026-02-23")

		require.NoError(t, err)
		require.Len(t, week.Days, 7)
		assert.InDelta(t, 4.5, week.TotalHours, 0.001)
		assert.InDelta(t, 4.5, week.Days[1].HoursWorked, 0.001)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newFixture(t, geofence.Config{})

		_, err := f.svc.DaySummary(ctx, f.worker.ID.String(), "02/03/2026")

		assert.ErrorIs(t, err, puncherrors.ErrInvalidDate)
	})
}

func TestService_Lists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, geofence.Config{})
	f.expectCommit()
	f.expectCommit()

	_, err := f.svc.Create(ctx, f.worker.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.Create(ctx, f.admin.ID.String(), punch.CreatePunchRequest{PunchType: punch.TypeIn}, "")
	require.NoError(t, err)

	all, err := f.svc.ListAll(ctx, punch.Range{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, f.admin.ID.String(), all[0].EmployeeID)

	own, err := f.svc.ListByEmployee(ctx, f.worker.ID.String(), punch.Range{})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	_, err = f.svc.ListAll(ctx, punch.Range{From: f.clock.Now(), To: f.clock.Now().Add(-time.Hour)})
	assert.ErrorIs(t, err, puncherrors.ErrInvalidRange)
}
