package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// registerDeployRoutes exposes the production push. The push runs
// after the approval already committed; a failure here is reported to
// the caller and never unwinds task status or history.
func registerDeployRoutes(mux *http.ServeMux, d Deps, authOK func(r *http.Request) bool) {
	mux.HandleFunc("/api/v1/deploy", func(w http.ResponseWriter, r *http.Request) {
		if !authOK(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req DeployRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.TaskIDs) == 0 {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		resp := DeployResponse{OK: true}
		for _, id := range req.TaskIDs {
			if err := d.Gateway.Push(r.Context(), id); err != nil {
				log.Printf("deploy aborted at task %d: %v", id, err)
				resp.OK = false
				resp.Error = err.Error()
				break
			}
			resp.Pushed++
		}
		d.Hub.Broadcast(WSMessage{Type: "deploy_result", Payload: resp})
		writeJSON(w, http.StatusOK, resp)
	})
}
