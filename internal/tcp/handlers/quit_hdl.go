package handlers

import (
	"context"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
)

var _ primary.CommandHandler = (*QuitHandler)(nil)

// QuitHandler ends the connection without a response
type QuitHandler struct {
	Logger primary.Logger
}

func (h *QuitHandler) HandleCommand(_ context.Context, ex *primary.Exchange) (bool, error) {
	h.Logger.Info("Quit command received", "remote", ex.RemoteAddr)
	return false, nil
}
