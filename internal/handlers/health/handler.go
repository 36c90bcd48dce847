package health

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/fileget/internal/handlers/response"
)

// PoolStatus is the part of the worker pool the health check reports on
type PoolStatus interface {
	Alive() int
}

type Status struct {
	Status       string `json:"status"`
	AliveWorkers int    `json:"alive_workers"`
}

type ApiHandler struct {
	Pool PoolStatus
}

func NewHandler(pool PoolStatus) *ApiHandler {
	return &ApiHandler{Pool: pool}
}

func (api *ApiHandler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", api.Health).Methods("GET")
}

// Health reports 503 once every worker has exited
func (api *ApiHandler) Health(w http.ResponseWriter, r *http.Request) {
	alive := api.Pool.Alive()
	if alive == 0 {
		response.Fail(w, http.StatusServiceUnavailable, "no workers alive")
		return
	}
	response.OK(w, Status{Status: "ok", AliveWorkers: alive})
}
