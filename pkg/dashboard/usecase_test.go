package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultancy/staffing/pkg/candidate"
	"github.com/consultancy/staffing/pkg/vendor"
)

type stubCandidates struct {
	total    int64
	byStatus map[candidate.Status]int64
}

func (s stubCandidates) Count(context.Context) (int64, error) { return s.total, nil }

func (s stubCandidates) CountByStatus(_ context.Context, st candidate.Status) (int64, error) {
	return s.byStatus[st], nil
}

type stubRows struct {
	n   int64
	err error
}

func (s stubRows) Count(context.Context) (int64, error) { return s.n, s.err }

type stubVendors struct {
	total  int64
	active int64
}

func (s stubVendors) Count(context.Context) (int64, error) { return s.total, nil }

func (s stubVendors) CountByStatus(_ context.Context, st vendor.Status) (int64, error) {
	if st == vendor.StatusActive {
		return s.active, nil
	}
	return 0, nil
}

type stubActivities struct {
	recent int64
	gotTo  time.Time
}

func (s *stubActivities) CountSince(_ context.Context, since time.Time) (int64, error) {
	s.gotTo = since
	return s.recent, nil
}

func TestDashboardStats(t *testing.T) {
	acts := &stubActivities{recent: 4}
	uc := NewUseCase(
		stubCandidates{total: 40, byStatus: map[candidate.Status]int64{
			candidate.StatusInterview: 5,
			candidate.StatusPlaced:    9,
			candidate.StatusInactive:  2,
		}},
		stubRows{n: 12},
		stubRows{n: 7},
		stubRows{n: 6},
		stubVendors{total: 11, active: 8},
		acts,
	)

	got, err := uc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{
		TotalCandidates:     40,
		BenchCandidates:     12,
		WorkingCandidates:   7,
		CandidatesInterview: 5,
		CandidatesPlaced:    9,
		CandidatesInactive:  2,
		TotalEmployees:      6,
		TotalVendors:        11,
		ActiveVendors:       8,
		RecentActivities:    4,
	}, got)

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	assert.WithinDuration(t, weekAgo, acts.gotTo, time.Minute)
}

func TestDashboardStatsFailsClosed(t *testing.T) {
	boom := errors.New("connection refused")
	uc := NewUseCase(
		stubCandidates{},
		stubRows{err: boom},
		stubRows{},
		stubRows{},
		stubVendors{},
		&stubActivities{},
	)

	_, err := uc.Stats(context.Background())
	assert.ErrorIs(t, err, boom)
}
