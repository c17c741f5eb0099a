package dashboard

import (
	"context"
	"time"

	"github.com/consultancy/staffing/pkg/candidate"
	"github.com/consultancy/staffing/pkg/vendor"
)

// Stats is the one-shot aggregate behind /dashboard/stats. Bench and working
// totals come from their dedicated tables; the legacy status counts are kept
// alongside for the unified candidate pool.
type Stats struct {
	TotalCandidates     int64 `json:"totalCandidates"`
	BenchCandidates     int64 `json:"benchCandidates"`
	WorkingCandidates   int64 `json:"workingCandidates"`
	CandidatesInterview int64 `json:"candidatesInInterview"`
	CandidatesPlaced    int64 `json:"candidatesPlaced"`
	CandidatesInactive  int64 `json:"candidatesInactive"`
	TotalEmployees      int64 `json:"totalEmployees"`
	TotalVendors        int64 `json:"totalVendors"`
	ActiveVendors       int64 `json:"activeVendors"`
	RecentActivities    int64 `json:"recentActivities"`
}

type CandidateCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status candidate.Status) (int64, error)
}

type RowCounter interface {
	Count(ctx context.Context) (int64, error)
}

type VendorCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status vendor.Status) (int64, error)
}

type ActivityCounter interface {
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type UseCase struct {
	candidates CandidateCounter
	bench      RowCounter
	working    RowCounter
	employees  RowCounter
	vendors    VendorCounter
	activities ActivityCounter
}

func NewUseCase(
	candidates CandidateCounter,
	bench RowCounter,
	working RowCounter,
	employees RowCounter,
	vendors VendorCounter,
	activities ActivityCounter,
) *UseCase {
	return &UseCase{
		candidates: candidates,
		bench:      bench,
		working:    working,
		employees:  employees,
		vendors:    vendors,
		activities: activities,
	}
}

// Stats collects every counter sequentially; any failing source fails the
// whole aggregate rather than returning a partial picture.
func (uc *UseCase) Stats(ctx context.Context) (Stats, error) {
	var (
		s   Stats
		err error
	)
	if s.TotalCandidates, err = uc.candidates.Count(ctx); err != nil {
		return Stats{}, err
	}
	if s.BenchCandidates, err = uc.bench.Count(ctx); err != nil {
		return Stats{}, err
	}
	if s.WorkingCandidates, err = uc.working.Count(ctx); err != nil {
		return Stats{}, err
	}
	if s.CandidatesInterview, err = uc.candidates.CountByStatus(ctx, candidate.StatusInterview); err != nil {
		return Stats{}, err
	}
	if s.CandidatesPlaced, err = uc.candidates.CountByStatus(ctx, candidate.StatusPlaced); err != nil {
		return Stats{}, err
	}
	if s.CandidatesInactive, err = uc.candidates.CountByStatus(ctx, candidate.StatusInactive); err != nil {
		return Stats{}, err
	}
	if s.TotalEmployees, err = uc.employees.Count(ctx); err != nil {
		return Stats{}, err
	}
	if s.TotalVendors, err = uc.vendors.Count(ctx); err != nil {
		return Stats{}, err
	}
	if s.ActiveVendors, err = uc.vendors.CountByStatus(ctx, vendor.StatusActive); err != nil {
		return Stats{}, err
	}
	since := time.Now().UTC().AddDate(0, 0, -7)
	if s.RecentActivities, err = uc.activities.CountSince(ctx, since); err != nil {
		return Stats{}, err
	}
	return s, nil
}
