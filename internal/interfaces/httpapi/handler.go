package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/volleyhub/roster-service/internal/domain/member"
	"github.com/volleyhub/roster-service/internal/domain/scoring"
	"github.com/volleyhub/roster-service/internal/observability"
	"github.com/volleyhub/roster-service/internal/usecase"
)

type Handler struct {
	roster    *usecase.RosterService
	metrics   *observability.Metrics
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(roster *usecase.RosterService, metrics *observability.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		roster:    roster,
		metrics:   metrics,
		logger:    logger,
		validator: validator.New(),
	}
}

type memberDTO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Position      string  `json:"position"`
	Number        int     `json:"number"`
	MatchesPlayed int     `json:"matchesPlayed"`
	PointsScored  int     `json:"pointsScored"`
	MedalsWon     int     `json:"medalsWon"`
	Score         float64 `json:"score"`
}

type memberPageDTO struct {
	Items           []memberDTO `json:"items"`
	TotalCount      int         `json:"totalCount"`
	PageSize        int         `json:"pageSize"`
	CurrentPage     int         `json:"currentPage"`
	TotalPages      int         `json:"totalPages"`
	HasPreviousPage bool        `json:"hasPreviousPage"`
	HasNextPage     bool        `json:"hasNextPage"`
}

type memberCountDTO struct {
	TotalCount int `json:"totalCount"`
}

type memberWriteRequest struct {
	ID            int64  `json:"id" validate:"omitempty,gte=0"`
	Name          string `json:"name" validate:"required,max=100"`
	Position      string `json:"position" validate:"required,max=50"`
	Number        int    `json:"number" validate:"gte=0,lte=99"`
	MatchesPlayed int    `json:"matchesPlayed" validate:"gte=0"`
	PointsScored  int    `json:"pointsScored" validate:"gte=0"`
	MedalsWon     int    `json:"medalsWon" validate:"gte=0"`
}

func (req memberWriteRequest) toDomain() member.Member {
	return member.Member{
		ID:            req.ID,
		Name:          strings.TrimSpace(req.Name),
		Position:      strings.TrimSpace(req.Position),
		Number:        req.Number,
		MatchesPlayed: req.MatchesPlayed,
		PointsScored:  req.PointsScored,
		MedalsWon:     req.MedalsWon,
	}
}

func scoredMemberToDTO(item usecase.ScoredMember) memberDTO {
	return memberDTO{
		ID:            item.Member.ID,
		Name:          item.Member.Name,
		Position:      item.Member.Position,
		Number:        item.Member.Number,
		MatchesPlayed: item.Member.MatchesPlayed,
		PointsScored:  item.Member.PointsScored,
		MedalsWon:     item.Member.MedalsWon,
		Score:         scoring.RoundForDisplay(item.Score),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetMembersPage serves GET /v1/members. Query parameters: page (defaults
// to 1), pageSize (defaults to the configured size) and sort.
func (h *Handler) GetMembersPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMembersPage")
	defer span.End()

	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	sortKey := strings.TrimSpace(r.URL.Query().Get("sort"))

	result, err := h.roster.GetPage(ctx, page, pageSize, sortKey)
	if err != nil {
		h.logger.WarnContext(ctx, "get members page failed", "page", page, "page_size", pageSize, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]memberDTO, 0, len(result.Items()))
	for _, item := range result.Items() {
		items = append(items, scoredMemberToDTO(item))
	}

	h.metrics.SetRosterSize(result.TotalCount())

	writeSuccess(ctx, w, http.StatusOK, memberPageDTO{
		Items:           items,
		TotalCount:      result.TotalCount(),
		PageSize:        result.PageSize(),
		CurrentPage:     result.CurrentPage(),
		TotalPages:      result.TotalPages(),
		HasPreviousPage: result.HasPreviousPage(),
		HasNextPage:     result.HasNextPage(),
	})
}

// GetAllMembers serves GET /v1/members/all: the raw roster in natural
// order, scored, without pagination.
func (h *Handler) GetAllMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAllMembers")
	defer span.End()

	rows, err := h.roster.ListMembers(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list members failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]memberDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, scoredMemberToDTO(usecase.ScoredMember{Member: row, Score: scoring.Compute(row)}))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMemberCount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMemberCount")
	defer span.End()

	total, err := h.roster.CountMembers(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "count members failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.metrics.SetRosterSize(total)

	writeSuccess(ctx, w, http.StatusOK, memberCountDTO{TotalCount: total})
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMember")
	defer span.End()

	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roster.GetMember(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoredMemberToDTO(item))
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMember")
	defer span.End()

	req, err := h.decodeMemberRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.roster.CreateMember(ctx, req.toDomain())
	if err != nil {
		h.logger.WarnContext(ctx, "create member failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, scoredMemberToDTO(usecase.ScoredMember{
		Member: created,
		Score:  scoring.Compute(created),
	}))
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMember")
	defer span.End()

	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := h.decodeMemberRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if _, err := h.roster.UpdateMember(ctx, id, req.toDomain()); err != nil {
		h.logger.WarnContext(ctx, "update member failed", "member_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMember")
	defer span.End()

	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.roster.DeleteMember(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeMemberRequest(ctx context.Context, r *http.Request) (memberWriteRequest, error) {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeMemberRequest")
	defer span.End()

	var req memberWriteRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return memberWriteRequest{}, fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		return memberWriteRequest{}, fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}

	return value, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: member id must be a positive integer", usecase.ErrInvalidInput)
	}

	return id, nil
}
