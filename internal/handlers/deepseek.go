package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"hootool/internal/demo"
	"hootool/internal/logger"
	"hootool/internal/services"
	"hootool/internal/utils/helpers"

	"go.uber.org/zap"
)

type completionTester interface {
	TestCompletion(ctx context.Context) (json.RawMessage, error)
}

type DeepSeekHandler struct {
	client   completionTester
	demoMode bool
}

func NewDeepSeekHandler(client completionTester, demoMode bool) *DeepSeekHandler {
	return &DeepSeekHandler{client: client, demoMode: demoMode}
}

type deepSeekErrorResponse struct {
	Message  string          `json:"message"`
	Status   int             `json:"status,omitempty"`
	Upstream json.RawMessage `json:"upstream,omitempty"`
}

// Test godoc
// @Summary Проверка доступности DeepSeek
// @Description Отправляет фиксированный промпт в chat/completions и возвращает ответ как есть.
// @Tags diagnostics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} deepSeekErrorResponse
// @Router /api/test-deepseek [post]
func (h *DeepSeekHandler) Test(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	if demo.Enabled(h.demoMode) {
		helpers.RawJSON(w, http.StatusOK, services.DemoCompletion())
		return
	}

	body, err := h.client.TestCompletion(r.Context())
	if err == nil {
		helpers.RawJSON(w, http.StatusOK, body)
		return
	}

	var upErr *services.UpstreamError
	switch {
	case errors.Is(err, services.ErrDeepSeekNotConfigured):
		log.Error("DEEPSEEK_API_KEY не задан")
		helpers.Message(w, http.StatusInternalServerError, "DeepSeek API 密钥未配置")
	case errors.As(err, &upErr):
		log.Warn("DeepSeek вернул ошибку", zap.Int("status", upErr.Status))
		resp := deepSeekErrorResponse{Message: "DeepSeek API 调用失败", Status: upErr.Status}
		if json.Valid([]byte(upErr.Body)) {
			resp.Upstream = json.RawMessage(upErr.Body)
		}
		helpers.JSON(w, http.StatusInternalServerError, resp)
	default:
		log.Error("Ошибка запроса к DeepSeek", zap.Error(err))
		helpers.Message(w, http.StatusInternalServerError, "DeepSeek API 调用失败")
	}
}
