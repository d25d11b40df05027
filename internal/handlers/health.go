package handlers

import (
	"context"
	"net/http"
	"time"

	"hootool/internal/logger"
	"hootool/internal/utils/helpers"

	"go.uber.org/zap"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store pinger
}

func NewHealthHandler(store pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

// Health godoc
// @Summary Проверка живости сервиса и хранилища
// @Tags diagnostics
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.WithCtx(r.Context()).Warn("Хранилище не отвечает", zap.Error(err))
		helpers.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", DB: "down"})
		return
	}
	helpers.JSON(w, http.StatusOK, healthResponse{Status: "ok", DB: "up"})
}
