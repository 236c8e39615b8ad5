package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/volleyhub/roster-service/internal/domain/member"
	qb "github.com/volleyhub/roster-service/internal/platform/querybuilder"
)

type MemberRepository struct {
	db *sqlx.DB
}

var memberSelectColumns = []string{
	"id",
	"name",
	"position",
	"number",
	"matches_played",
	"points_scored",
	"medals_won",
	"created_at",
	"updated_at",
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("members").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count members query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}

	return total, nil
}

func (r *MemberRepository) List(ctx context.Context) ([]member.Member, error) {
	query, args, err := qb.Select(memberSelectColumns...).From("members").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list members query: %w", err)
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberFromRow(row))
	}

	return out, nil
}

func (r *MemberRepository) ListPage(ctx context.Context, offset, limit int) ([]member.Member, error) {
	query, args, err := qb.Select(memberSelectColumns...).From("members").
		OrderBy("id").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list member page query: %w", err)
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list member page: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberFromRow(row))
	}

	return out, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id int64) (member.Member, bool, error) {
	query, args, err := qb.Select(memberSelectColumns...).From("members").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return member.Member{}, false, fmt.Errorf("build get member query: %w", err)
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return member.Member{}, false, nil
		}
		return member.Member{}, false, fmt.Errorf("get member: %w", err)
	}

	return memberFromRow(row), true, nil
}

func (r *MemberRepository) Insert(ctx context.Context, item member.Member) (member.Member, error) {
	query, args, err := qb.InsertInto("members").
		Columns("name", "position", "number", "matches_played", "points_scored", "medals_won").
		Values(item.Name, item.Position, item.Number, item.MatchesPlayed, item.PointsScored, item.MedalsWon).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return member.Member{}, fmt.Errorf("build insert member query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isWriteConflict(err) {
			return member.Member{}, fmt.Errorf("insert member: %w", member.ErrConflict)
		}
		return member.Member{}, fmt.Errorf("insert member: %w", err)
	}
	item.ID = id

	return item, nil
}

func (r *MemberRepository) Update(ctx context.Context, item member.Member) (bool, error) {
	query, args, err := qb.Update("members").
		Set("name", item.Name).
		Set("position", item.Position).
		Set("number", item.Number).
		Set("matches_played", item.MatchesPlayed).
		Set("points_scored", item.PointsScored).
		Set("medals_won", item.MedalsWon).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update member query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isWriteConflict(err) {
			return false, fmt.Errorf("update member: %w", member.ErrConflict)
		}
		return false, fmt.Errorf("update member: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update member rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *MemberRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.DeleteFrom("members").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete member query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isWriteConflict(err) {
			return false, fmt.Errorf("delete member: %w", member.ErrConflict)
		}
		return false, fmt.Errorf("delete member: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete member rows affected: %w", err)
	}

	return affected > 0, nil
}
