package httpapi

import (
	"net/http"

	"github.com/volleyhub/roster-service/internal/observability"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics *observability.Metrics) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}
}

func registerMemberRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/members", handler.GetMembersPage)
	mux.HandleFunc("GET /v1/members/all", handler.GetAllMembers)
	mux.HandleFunc("GET /v1/members/count", handler.GetMemberCount)
	mux.HandleFunc("GET /v1/members/{id}", handler.GetMember)
	mux.HandleFunc("POST /v1/members", handler.CreateMember)
	mux.HandleFunc("PUT /v1/members/{id}", handler.UpdateMember)
	mux.HandleFunc("DELETE /v1/members/{id}", handler.DeleteMember)
}
