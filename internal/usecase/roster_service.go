package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/volleyhub/roster-service/internal/domain/member"
	"github.com/volleyhub/roster-service/internal/domain/scoring"
	"github.com/volleyhub/roster-service/internal/platform/paging"
)

// Strategy selects where pagination happens. The two strategies produce
// identical page boundaries for the same roster state; they differ in how
// much data crosses the store boundary and in what a sort can see.
type Strategy string

const (
	// StrategyServerSide counts first, then fetches only the requested
	// page from the store. Sorting is applied within the fetched slice;
	// a global order over the derived score is not possible here because
	// the store cannot compute it.
	StrategyServerSide Strategy = "server_side"

	// StrategyFullFetch retrieves the entire roster, scores and sorts it,
	// then slices the requested page. This is the only strategy that
	// yields a globally sorted score order.
	StrategyFullFetch Strategy = "full_fetch"
)

// Sort keys accepted by GetPage. Anything else falls back to the store's
// natural (identifier) order.
const (
	SortScore     = "score"
	SortScoreDesc = "score_desc"
	SortID        = "id"
	SortIDDesc    = "id_desc"
	SortName      = "name"
	SortNameDesc  = "name_desc"
)

// ScoredMember pairs a roster member with its derived score. Score holds
// the unrounded value; rounding is the presentation layer's concern.
type ScoredMember struct {
	Member member.Member
	Score  float64
}

// RosterService answers paged, sorted roster queries and forwards CRUD
// calls to the member store. It keeps no state between requests; every
// invocation works on a private copy of fetched data.
//
// A single GetPage under the server-side strategy is not guaranteed a
// perfectly consistent snapshot when writes race its count-then-fetch
// sequence. That weak-consistency window is accepted.
type RosterService struct {
	repo            member.Repository
	strategy        Strategy
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
}

func NewRosterService(
	repo member.Repository,
	strategy Strategy,
	defaultPageSize int,
	maxPageSize int,
	logger *slog.Logger,
) (*RosterService, error) {
	switch strategy {
	case StrategyServerSide, StrategyFullFetch:
	default:
		return nil, fmt.Errorf("unknown paging strategy %q", strategy)
	}
	if defaultPageSize < 1 {
		return nil, fmt.Errorf("default page size must be >= 1")
	}
	if maxPageSize < defaultPageSize {
		return nil, fmt.Errorf("max page size must be >= default page size")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RosterService{
		repo:            repo,
		strategy:        strategy,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger,
	}, nil
}

// Strategy reports which paging strategy this service was built with.
func (s *RosterService) Strategy() Strategy {
	return s.strategy
}

// GetPage returns one page of the scored roster. A pageSize of zero takes
// the configured default; page numbers outside [1, totalPages] are
// rejected, never clamped. An empty roster admits exactly page 1.
func (s *RosterService) GetPage(ctx context.Context, page, pageSize int, sortKey string) (paging.Page[ScoredMember], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetPage")
	defer span.End()

	if pageSize == 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize < 0 {
		return paging.Page[ScoredMember]{}, fmt.Errorf("%w: page size must be positive", ErrInvalidInput)
	}
	if pageSize > s.maxPageSize {
		return paging.Page[ScoredMember]{}, fmt.Errorf("%w: page size exceeds maximum of %d", ErrInvalidInput, s.maxPageSize)
	}

	switch s.strategy {
	case StrategyFullFetch:
		return s.fullFetchPage(ctx, page, pageSize, sortKey)
	default:
		return s.serverSidePage(ctx, page, pageSize, sortKey)
	}
}

func (s *RosterService) serverSidePage(ctx context.Context, page, pageSize int, sortKey string) (paging.Page[ScoredMember], error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return paging.Page[ScoredMember]{}, s.storeFailure(ctx, "count members", err)
	}

	if err := validatePage(page, total, pageSize); err != nil {
		return paging.Page[ScoredMember]{}, err
	}

	rows, err := s.repo.ListPage(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return paging.Page[ScoredMember]{}, s.storeFailure(ctx, "fetch member page", err)
	}

	scored := scoreAll(rows)
	sortScored(scored, sortKey)

	s.logger.DebugContext(ctx, "roster page served",
		"strategy", string(StrategyServerSide),
		"page", page,
		"page_size", pageSize,
		"total", total,
		"sort", sortKey,
	)

	return paging.NewPage(total, pageSize, page, scored), nil
}

func (s *RosterService) fullFetchPage(ctx context.Context, page, pageSize int, sortKey string) (paging.Page[ScoredMember], error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return paging.Page[ScoredMember]{}, s.storeFailure(ctx, "fetch roster", err)
	}

	scored := scoreAll(rows)
	sortScored(scored, sortKey)

	total := len(scored)
	if err := validatePage(page, total, pageSize); err != nil {
		return paging.Page[ScoredMember]{}, err
	}

	lo := (page - 1) * pageSize
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	if lo > total {
		lo = total
	}

	s.logger.DebugContext(ctx, "roster page served",
		"strategy", string(StrategyFullFetch),
		"page", page,
		"page_size", pageSize,
		"total", total,
		"sort", sortKey,
	)

	return paging.NewPage(total, pageSize, page, scored[lo:hi]), nil
}

// ListMembers returns the full roster in natural order, unscored. It backs
// full-fetch consumers that page and score on their own side.
func (s *RosterService) ListMembers(ctx context.Context) ([]member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListMembers")
	defer span.End()

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, "fetch roster", err)
	}

	return rows, nil
}

// CountMembers reports the roster size at the time of the call.
func (s *RosterService) CountMembers(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CountMembers")
	defer span.End()

	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, s.storeFailure(ctx, "count members", err)
	}

	return total, nil
}

func (s *RosterService) GetMember(ctx context.Context, id int64) (ScoredMember, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetMember")
	defer span.End()

	if id <= 0 {
		return ScoredMember{}, fmt.Errorf("%w: member id must be positive", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ScoredMember{}, s.storeFailure(ctx, "get member", err)
	}
	if !exists {
		return ScoredMember{}, fmt.Errorf("%w: member=%d", ErrNotFound, id)
	}

	return ScoredMember{Member: item, Score: scoring.Compute(item)}, nil
}

func (s *RosterService) CreateMember(ctx context.Context, item member.Member) (member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateMember")
	defer span.End()

	if item.ID < 0 {
		return member.Member{}, fmt.Errorf("%w: member id cannot be negative", ErrInvalidInput)
	}
	if err := item.Validate(); err != nil {
		return member.Member{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.repo.Insert(ctx, item)
	if err != nil {
		return member.Member{}, s.storeFailure(ctx, "insert member", err)
	}

	return created, nil
}

// UpdateMember replaces the full record at id. The payload identifier must
// match the path identifier; a mismatch is rejected before any store call.
func (s *RosterService) UpdateMember(ctx context.Context, id int64, item member.Member) (member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdateMember")
	defer span.End()

	if id <= 0 {
		return member.Member{}, fmt.Errorf("%w: member id must be positive", ErrInvalidInput)
	}
	if item.ID != 0 && item.ID != id {
		return member.Member{}, fmt.Errorf("%w: payload identifier %d does not match path identifier %d", ErrInvalidInput, item.ID, id)
	}
	item.ID = id
	if err := item.Validate(); err != nil {
		return member.Member{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	found, err := s.repo.Update(ctx, item)
	if err != nil {
		if errors.Is(err, member.ErrConflict) {
			// The store observed a concurrent write. When the record has
			// vanished altogether the caller should see not-found instead.
			if _, exists, getErr := s.repo.GetByID(ctx, id); getErr == nil && !exists {
				return member.Member{}, fmt.Errorf("%w: member=%d", ErrNotFound, id)
			}
			return member.Member{}, fmt.Errorf("%w: member=%d", ErrConflict, id)
		}
		return member.Member{}, s.storeFailure(ctx, "update member", err)
	}
	if !found {
		return member.Member{}, fmt.Errorf("%w: member=%d", ErrNotFound, id)
	}

	return item, nil
}

func (s *RosterService) DeleteMember(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DeleteMember")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: member id must be positive", ErrInvalidInput)
	}

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.storeFailure(ctx, "delete member", err)
	}
	if !found {
		return fmt.Errorf("%w: member=%d", ErrNotFound, id)
	}

	return nil
}

func validatePage(page, total, pageSize int) error {
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	// An empty roster still answers page 1 with an empty page.
	if totalPages == 0 {
		if page != 1 {
			return fmt.Errorf("%w: requested page %d, valid range is [1, 1]", ErrInvalidPage, page)
		}
		return nil
	}

	if page < 1 || page > totalPages {
		return fmt.Errorf("%w: requested page %d, valid range is [1, %d]", ErrInvalidPage, page, totalPages)
	}

	return nil
}

func scoreAll(rows []member.Member) []ScoredMember {
	out := make([]ScoredMember, 0, len(rows))
	for _, row := range rows {
		out = append(out, ScoredMember{Member: row, Score: scoring.Compute(row)})
	}

	return out
}

// sortScored orders items by the requested key over the unrounded score.
// The sort is stable and ties break on ascending identifier so repeated
// requests walk pages in a reproducible order. Unrecognized keys keep the
// store's natural order.
func sortScored(items []ScoredMember, sortKey string) {
	switch sortKey {
	case SortScore:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Score != items[j].Score {
				return items[i].Score < items[j].Score
			}
			return items[i].Member.ID < items[j].Member.ID
		})
	case SortScoreDesc:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Score != items[j].Score {
				return items[i].Score > items[j].Score
			}
			return items[i].Member.ID < items[j].Member.ID
		})
	case SortID:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Member.ID < items[j].Member.ID
		})
	case SortIDDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Member.ID > items[j].Member.ID
		})
	case SortName:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Member.Name != items[j].Member.Name {
				return items[i].Member.Name < items[j].Member.Name
			}
			return items[i].Member.ID < items[j].Member.ID
		})
	case SortNameDesc:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Member.Name != items[j].Member.Name {
				return items[i].Member.Name > items[j].Member.Name
			}
			return items[i].Member.ID < items[j].Member.ID
		})
	}
}

// storeFailure maps an unexpected store error onto the stable taxonomy.
// Known sentinels pass through untouched; anything else becomes a
// store-unavailable failure with the raw cause kept out of the message.
func (s *RosterService) storeFailure(ctx context.Context, op string, err error) error {
	for _, sentinel := range []error{ErrInvalidInput, ErrInvalidPage, ErrNotFound, ErrConflict, ErrStoreUnavailable} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	s.logger.ErrorContext(ctx, "member store call failed", "op", op, "error", err)

	return fmt.Errorf("%w: %s failed", ErrStoreUnavailable, op)
}
