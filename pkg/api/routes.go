package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"review-board/pkg/auth"
	"review-board/pkg/deploy"
	"review-board/pkg/lifecycle"
	"review-board/pkg/store"
)

// Deps bundles what the handlers operate on. The engine owns the
// ledger; the store owns the task collection; the hub fans transition
// events out to connected dashboards.
type Deps struct {
	Store   *store.TaskStore
	Engine  *lifecycle.Engine
	Gateway deploy.Gateway
	Hub     *WSHub
}

// RegisterRoutes wires the HTTP handlers on the provided mux. With an
// empty token every request is allowed (dev mode); otherwise requests
// need the static token or a valid reviewer JWT.
func RegisterRoutes(mux *http.ServeMux, d Deps, token string) {
	authOK := authFunc(token)

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("review-board server"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	registerTaskRoutes(mux, d, authOK)
	registerTransitionRoutes(mux, d, authOK)
	registerDeployRoutes(mux, d, authOK)
	registerHistoryRoutes(mux, d, authOK)
	registerStatsRoutes(mux, d, authOK)
	if d.Hub != nil {
		mux.HandleFunc("/api/v1/ws/ui", d.Hub.HandleUIWS)
	}
}

func authFunc(token string) func(r *http.Request) bool {
	if token == "" {
		return func(_ *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		h := bearerToken(r)
		if h == token {
			return true
		}
		// a reviewer session token is as good as the static token
		_, err := auth.Parse(h)
		return err == nil
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("X-Auth-Token"); h != "" {
		return h
	}
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	return ""
}

// actorFromRequest resolves the acting reviewer for history
// attribution. No or unparsable token means a system-attributed change.
func actorFromRequest(r *http.Request) string {
	claims, err := auth.Parse(bearerToken(r))
	if err != nil {
		return ""
	}
	return claims.Username
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
