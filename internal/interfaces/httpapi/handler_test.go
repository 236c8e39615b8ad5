package httpapi

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/volleyhub/roster-service/internal/domain/member"
	"github.com/volleyhub/roster-service/internal/infrastructure/repository/memory"
	"github.com/volleyhub/roster-service/internal/observability"
	"github.com/volleyhub/roster-service/internal/usecase"
)

func newTestRouter(t *testing.T, seed []member.Member) http.Handler {
	t.Helper()

	repo := memory.NewMemberRepository(seed)
	logger := slog.New(slog.DiscardHandler)
	roster, err := usecase.NewRosterService(repo, usecase.StrategyServerSide, 10, 100, logger)
	if err != nil {
		t.Fatalf("NewRosterService: %v", err)
	}
	metrics := observability.NewMetrics("roster_test")
	handler := NewHandler(roster, metrics, logger)

	return NewRouter(handler, metrics, logger, nil)
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	data, _ := body["data"].(map[string]any)

	return data
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, memory.SeedMembers())

	// Hit a roster route first so there is something to scrape.
	doRequest(t, router, http.MethodGet, "/v1/members", "")

	rec := doRequest(t, router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "roster_test_http_requests_total") {
		t.Fatalf("scrape output missing request counter:\n%s", rec.Body.String())
	}
}

func TestGetMembersPage(t *testing.T) {
	router := newTestRouter(t, memory.SeedMembers())
	seedCount := len(memory.SeedMembers())

	rec := doRequest(t, router, http.MethodGet, "/v1/members?page=2&pageSize=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if got := int(data["totalCount"].(float64)); got != seedCount {
		t.Fatalf("totalCount = %d, want %d", got, seedCount)
	}
	if got := int(data["currentPage"].(float64)); got != 2 {
		t.Fatalf("currentPage = %d, want 2", got)
	}
	items, _ := data["items"].([]any)
	if len(items) != 5 {
		t.Fatalf("items = %d, want 5", len(items))
	}
	first, _ := items[0].(map[string]any)
	if _, ok := first["score"]; !ok {
		t.Fatalf("item missing score: %v", first)
	}
}

func TestGetMembersPageDefaults(t *testing.T) {
	router := newTestRouter(t, memory.SeedMembers())

	rec := doRequest(t, router, http.MethodGet, "/v1/members", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := decodeData(t, rec)
	if got := int(data["currentPage"].(float64)); got != 1 {
		t.Fatalf("currentPage = %d, want 1", got)
	}
	if got := int(data["pageSize"].(float64)); got != 10 {
		t.Fatalf("pageSize = %d, want 10", got)
	}
}

func TestGetMembersPageErrors(t *testing.T) {
	router := newTestRouter(t, memory.SeedMembers())

	cases := []struct {
		name   string
		target string
		reason string
	}{
		{"page beyond range", "/v1/members?page=99", "invalidPage"},
		{"zero page", "/v1/members?page=0", "invalidPage"},
		{"non numeric page", "/v1/members?page=abc", "invalidInput"},
		{"negative page size", "/v1/members?pageSize=-1", "invalidInput"},
		{"oversized page size", "/v1/members?pageSize=1000", "invalidInput"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, tc.target, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.reason) {
				t.Fatalf("body missing reason %q: %s", tc.reason, rec.Body.String())
			}
		})
	}
}

func TestGetMembersPageSorted(t *testing.T) {
	seed := []member.Member{
		{ID: 1, Name: "low", Position: "setter", MatchesPlayed: 1, PointsScored: 1},    // score 5
		{ID: 2, Name: "high", Position: "setter", MatchesPlayed: 1, PointsScored: 2, MedalsWon: 1}, // score 110
		{ID: 3, Name: "mid", Position: "setter", MatchesPlayed: 1, PointsScored: 4},    // score 20
	}
	router := newTestRouter(t, seed)

	rec := doRequest(t, router, http.MethodGet, "/v1/members?sort=score_desc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := decodeData(t, rec)
	items, _ := data["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	wantOrder := []string{"high", "mid", "low"}
	for i, want := range wantOrder {
		item, _ := items[i].(map[string]any)
		if item["name"] != want {
			t.Fatalf("item %d = %v, want %s", i, item["name"], want)
		}
	}
}

func TestGetAllMembers(t *testing.T) {
	router := newTestRouter(t, memory.SeedMembers())

	rec := doRequest(t, router, http.MethodGet, "/v1/members/all", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	items, _ := body["data"].([]any)
	if len(items) != len(memory.SeedMembers()) {
		t.Fatalf("items = %d, want %d", len(items), len(memory.SeedMembers()))
	}
}

func TestGetMemberCount(t *testing.T) {
	router := newTestRouter(t, memory.SeedMembers())

	rec := doRequest(t, router, http.MethodGet, "/v1/members/count", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := decodeData(t, rec)
	if got := int(data["totalCount"].(float64)); got != len(memory.SeedMembers()) {
		t.Fatalf("totalCount = %d, want %d", got, len(memory.SeedMembers()))
	}
}

func TestGetMember(t *testing.T) {
	router := newTestRouter(t, memory.SeedMembers())

	rec := doRequest(t, router, http.MethodGet, "/v1/members/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := decodeData(t, rec)
	if got := int(data["id"].(float64)); got != 2 {
		t.Fatalf("id = %d, want 2", got)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/members/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing member status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/members/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d, want 400", rec.Code)
	}
}

func TestCreateMember(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doRequest(t, router, http.MethodPost, "/v1/members",
		`{"name":"Nadia","position":"libero","number":4,"matchesPlayed":10,"pointsScored":20,"medalsWon":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["id"].(float64) == 0 {
		t.Fatalf("created member has no id: %v", data)
	}
	if got := data["score"].(float64); got != 110 {
		t.Fatalf("score = %v, want 110", got)
	}

	t.Run("missing name", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/members", `{"position":"libero"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/members", `{"name":"x","position":"setter","bogus":1}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("negative stat", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/members",
			`{"name":"x","position":"setter","matchesPlayed":-2}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestUpdateMember(t *testing.T) {
	router := newTestRouter(t, memory.SeedMembers())

	rec := doRequest(t, router, http.MethodPut, "/v1/members/5",
		`{"id":5,"name":"Eka Wulandari","position":"opposite","number":9,"matchesPlayed":20,"pointsScored":270,"medalsWon":1}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/members/5", "")
	data := decodeData(t, rec)
	if got := int(data["matchesPlayed"].(float64)); got != 20 {
		t.Fatalf("matchesPlayed = %d, want 20", got)
	}

	t.Run("payload id mismatch", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/v1/members/5",
			`{"id":7,"name":"Eka Wulandari","position":"opposite"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing member", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/v1/members/999",
			`{"name":"ghost","position":"setter"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestDeleteMember(t *testing.T) {
	router := newTestRouter(t, memory.SeedMembers())

	rec := doRequest(t, router, http.MethodDelete, "/v1/members/3", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, router, http.MethodDelete, "/v1/members/3", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/members/3", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted member fetch status = %d, want 404", rec.Code)
	}
}
