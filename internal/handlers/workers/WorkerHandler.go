package workers

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/fileget/internal/core/services/worker"
	"gitlab.com/fcv-2025.net/fileget/internal/handlers/response"
)

type ApiHandler struct {
	WorkerService worker.IWorkerRegistryService
}

func NewHandler(WorkerService worker.IWorkerRegistryService) *ApiHandler {
	return &ApiHandler{
		WorkerService: WorkerService,
	}
}

func (api *ApiHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/workers", api.GetWorkers).Methods("GET")
	r.HandleFunc("/api/workers/{workerId}", api.GetWorker).Methods("GET")
}

func (api *ApiHandler) GetWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := api.WorkerService.GetAllWorkers(r.Context())
	if err != nil {
		response.Fail(w, http.StatusInternalServerError, "Failed to get workers")
		return
	}

	response.OK(w, workers)
}

func (api *ApiHandler) GetWorker(w http.ResponseWriter, r *http.Request) {
	workerID := mux.Vars(r)["workerId"]

	info, err := api.WorkerService.GetWorker(r.Context(), workerID)
	if err != nil {
		response.Fail(w, http.StatusInternalServerError, "Failed to get worker")
		return
	}
	if info == nil {
		response.Fail(w, http.StatusNotFound, "worker not found")
		return
	}

	response.OK(w, info)
}
