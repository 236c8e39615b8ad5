package rosterapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/volleyhub/roster-service/internal/domain/member"
	"github.com/volleyhub/roster-service/internal/platform/logging"
	"github.com/volleyhub/roster-service/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, breaker resilience.BreakerConfig) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:        server.URL,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/members/count" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"apiVersion":"2.0","data":{"totalCount":42}}`))
	}, resilience.BreakerConfig{})

	total, err := client.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 42 {
		t.Fatalf("Count = %d, want 42", total)
	}
}

func TestListPageMapsOffsetToPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/members" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "3" || q.Get("pageSize") != "10" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"apiVersion":"2.0","data":{"items":[{"id":21,"name":"a","position":"setter"}],"totalCount":25}}`))
	}, resilience.BreakerConfig{})

	rows, err := client.ListPage(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 21 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, resilience.BreakerConfig{})

	_, exists, err := client.GetByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if exists {
		t.Fatal("missing member reported as found")
	}
}

func TestInsert(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/members" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"apiVersion":"2.0","data":{"id":7,"name":"Nadia","position":"libero"}}`))
	}, resilience.BreakerConfig{})

	created, err := client.Insert(context.Background(), member.Member{Name: "Nadia", Position: "libero"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("created id = %d, want 7", created.ID)
	}
}

func TestUpdateConflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}, resilience.BreakerConfig{})

	_, err := client.Update(context.Background(), member.Member{ID: 3, Name: "x", Position: "setter"})
	if !errors.Is(err, member.ErrConflict) {
		t.Fatalf("got %v, want member.ErrConflict", err)
	}
}

func TestUpdateMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, resilience.BreakerConfig{})

	found, err := client.Update(context.Background(), member.Member{ID: 3, Name: "x", Position: "setter"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if found {
		t.Fatal("missing member reported as updated")
	}
}

func TestDelete(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}, resilience.BreakerConfig{})

	found, err := client.Delete(context.Background(), 3)
	if err != nil || !found {
		t.Fatalf("first delete: found=%v err=%v", found, err)
	}

	found, err = client.Delete(context.Background(), 3)
	if err != nil || found {
		t.Fatalf("second delete: found=%v err=%v", found, err)
	}
}

func TestBreakerOpensAfterUpstreamFailures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, resilience.BreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 2; i++ {
		if _, err := client.Count(context.Background()); err == nil {
			t.Fatalf("request %d: expected failure", i)
		}
	}

	// Threshold reached: the breaker now rejects without touching the
	// upstream.
	_, err := client.Count(context.Background())
	if err == nil || !errors.Is(err, errRosterAPITransient) {
		t.Fatalf("got %v, want transient circuit-open error", err)
	}
	if client.breaker.State() != resilience.BreakerOpen {
		t.Fatalf("breaker state = %v, want open", client.breaker.State())
	}
}
