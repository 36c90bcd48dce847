package transfers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/transfer"
	"gitlab.com/fcv-2025.net/fileget/internal/handlers/response"
)

const defaultLimit = 50

type ApiHandler struct {
	TransferService transfer.ITransferLogService
	logger          primary.Logger
}

func NewHandler(transferService transfer.ITransferLogService, logger primary.Logger) *ApiHandler {
	return &ApiHandler{
		TransferService: transferService,
		logger:          logger,
	}
}

func (api *ApiHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/transfers", api.ListTransfers).Methods("GET")
}

// ListTransfers returns the most recent transfers, newest first
func (api *ApiHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Fail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := api.TransferService.ListRecent(r.Context(), limit)
	if err != nil {
		api.logger.Error("Failed to list transfers", "error", err)
		response.Fail(w, http.StatusInternalServerError, "Failed to list transfers")
		return
	}

	response.OK(w, records)
}
