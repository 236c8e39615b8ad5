package memory

import (
	"context"
	"sync"

	"github.com/volleyhub/roster-service/internal/domain/member"
)

// MemberRepository keeps the roster in process memory. Natural order is
// ascending identifier, which insertion order preserves because ids are
// assigned monotonically.
type MemberRepository struct {
	mu     sync.RWMutex
	rows   []member.Member
	index  map[int64]int
	nextID int64
}

func NewMemberRepository(seed []member.Member) *MemberRepository {
	r := &MemberRepository{
		index:  make(map[int64]int, len(seed)),
		nextID: 1,
	}
	for _, row := range seed {
		if row.ID == 0 {
			row.ID = r.nextID
		}
		if row.ID >= r.nextID {
			r.nextID = row.ID + 1
		}
		r.index[row.ID] = len(r.rows)
		r.rows = append(r.rows, row)
	}

	return r
}

func (r *MemberRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rows), nil
}

func (r *MemberRepository) List(_ context.Context) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]member.Member, len(r.rows))
	copy(out, r.rows)

	return out, nil
}

func (r *MemberRepository) ListPage(_ context.Context, offset, limit int) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset < 0 || limit <= 0 || offset >= len(r.rows) {
		return nil, nil
	}
	hi := offset + limit
	if hi > len(r.rows) {
		hi = len(r.rows)
	}

	out := make([]member.Member, hi-offset)
	copy(out, r.rows[offset:hi])

	return out, nil
}

func (r *MemberRepository) GetByID(_ context.Context, id int64) (member.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return member.Member{}, false, nil
	}

	return r.rows[pos], true, nil
}

func (r *MemberRepository) Insert(_ context.Context, item member.Member) (member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.index[item.ID] = len(r.rows)
	r.rows = append(r.rows, item)

	return item, nil
}

func (r *MemberRepository) Update(_ context.Context, item member.Member) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[item.ID]
	if !ok {
		return false, nil
	}
	r.rows[pos] = item

	return true, nil
}

func (r *MemberRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[id]
	if !ok {
		return false, nil
	}

	r.rows = append(r.rows[:pos], r.rows[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.rows); i++ {
		r.index[r.rows[i].ID] = i
	}

	return true, nil
}
