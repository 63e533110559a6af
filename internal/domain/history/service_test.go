package history

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/schedule"
	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

type stubRepo struct {
	records []Record
	filters []Filter
}

func (s *stubRepo) Create(_ context.Context, r Record) (Record, error) {
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	s.records = append(s.records, r)
	return r, nil
}

func (s *stubRepo) List(_ context.Context, userID int64, filter Filter) ([]Record, error) {
	s.filters = append(s.filters, filter)
	var out []Record
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubFields struct{ owned map[int64]int64 }

func (s stubFields) Get(_ context.Context, userID, id int64) (field.Field, error) {
	if owner, ok := s.owned[id]; ok && owner == userID {
		return field.Field{ID: id, UserID: userID}, nil
	}
	return field.Field{}, apperrors.Wrap(apperrors.CodeNotFound, "field not found", nil)
}

type stubSchedules struct{ items map[uuid.UUID]schedule.Schedule }

func (s stubSchedules) Get(_ context.Context, userID int64, id uuid.UUID) (schedule.Schedule, error) {
	if sch, ok := s.items[id]; ok && sch.UserID == userID {
		return sch, nil
	}
	return schedule.Schedule{}, apperrors.Wrap(apperrors.CodeNotFound, "schedule not found", nil)
}

func newTestService(t *testing.T, schedules map[uuid.UUID]schedule.Schedule) (*service, *stubRepo) {
	t.Helper()
	repo := &stubRepo{}
	svc := NewService(Config{Location: time.UTC}, repo,
		stubFields{owned: map[int64]int64{1: 7, 2: 8}},
		stubSchedules{items: schedules},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	).(*service)
	svc.now = func() time.Time { return time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func validRequest() CreateRequest {
	return CreateRequest{
		FieldID:         1,
		WaterUsedLiters: 1200,
		Method:          MethodDrip,
		Date:            "2024-10-15",
		Time:            "06:30",
		DurationMinutes: 45,
	}
}

func TestCreateRecordsIrrigation(t *testing.T) {
	svc, repo := newTestService(t, nil)

	rec, err := svc.Create(context.Background(), 7, validRequest())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, rec.ID)
	require.Equal(t, int64(7), rec.UserID)
	require.Equal(t, "2024-10-15", rec.Date)
	require.Equal(t, "06:30", rec.Time)
	require.Len(t, repo.records, 1)
}

func TestCreateRejectsFutureIrrigation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	req := validRequest()
	req.Time = "12:01"

	_, err := svc.Create(context.Background(), 7, req)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _ := newTestService(t, nil)
	cases := map[string]func(*CreateRequest){
		"method":   func(r *CreateRequest) { r.Method = "bucket" },
		"negative": func(r *CreateRequest) { r.WaterUsedLiters = -1 },
		"date":     func(r *CreateRequest) { r.Date = "15/10/2024" },
		"rating":   func(r *CreateRequest) { v := 6; r.Rating = &v },
		"moisture": func(r *CreateRequest) { v := 101.0; r.MoistureAfter = &v },
		"field":    func(r *CreateRequest) { r.FieldID = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := svc.Create(context.Background(), 7, req)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
		})
	}
}

func TestCreateRequiresOwnedField(t *testing.T) {
	svc, repo := newTestService(t, nil)
	req := validRequest()
	req.FieldID = 2

	_, err := svc.Create(context.Background(), 7, req)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	require.Empty(t, repo.records)
}

func TestCreateLinksSchedule(t *testing.T) {
	same := uuid.New()
	other := uuid.New()
	svc, _ := newTestService(t, map[uuid.UUID]schedule.Schedule{
		same:  {ID: same, FieldID: 1, UserID: 7},
		other: {ID: other, FieldID: 3, UserID: 7},
	})

	req := validRequest()
	req.ScheduleID = same.String()
	rec, err := svc.Create(context.Background(), 7, req)
	require.NoError(t, err)
	require.NotNil(t, rec.ScheduleID)
	require.Equal(t, same, *rec.ScheduleID)

	req.ScheduleID = other.String()
	_, err = svc.Create(context.Background(), 7, req)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	req.ScheduleID = "nope"
	_, err = svc.Create(context.Background(), 7, req)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestRecentUsesThirtyDayWindow(t *testing.T) {
	svc, repo := newTestService(t, nil)

	_, err := svc.Recent(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, []Filter{{Since: "2024-09-15"}}, repo.filters)
}

func TestListChecksFieldOwnership(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.List(context.Background(), 7, 2)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.List(context.Background(), 7, 0)
	require.NoError(t, err)
}
