package handlers

import (
	"errors"
	"net/http"
	"strings"

	"hootool/internal/logger"
	"hootool/internal/services"
	"hootool/internal/utils/helpers"

	"go.uber.org/zap"
)

const msgForgotSent = "如果该邮箱已注册，我们已发送重置密码邮件"

type PasswordHandler struct {
	svc *services.PasswordService
}

func NewPasswordHandler(svc *services.PasswordService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

type forgotReq struct {
	Email string `json:"email" validate:"required,email"`
}

// Forgot godoc
// @Summary Запрос восстановления пароля
// @Description Отправляет письмо со ссылкой для сброса пароля. Ответ одинаковый, даже если e-mail не найден.
// @Tags password
// @Accept json
// @Produce json
// @Param input body forgotReq true "Email пользователя"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.MessageResponse
// @Router /api/auth/forgot-password [post]
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req forgotReq
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Message(w, http.StatusBadRequest, "邮箱为必填项")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if fe := helpers.Validate(req); fe != nil {
		log.Warn("Невалидный payload в Forgot", zap.Any("fields", fe))
		if fe.Has("required") {
			helpers.Message(w, http.StatusBadRequest, "邮箱为必填项")
		} else {
			helpers.Message(w, http.StatusBadRequest, "邮箱格式不正确")
		}
		return
	}

	if err := h.svc.RequestReset(r.Context(), req.Email); err != nil {
		// клиенту отвечаем одинаково
		log.Error("Сбой при запросе восстановления пароля", zap.String("email_masked", maskEmail(req.Email)), zap.Error(err))
	} else {
		log.Info("Запрошено восстановление пароля", zap.String("email_masked", maskEmail(req.Email)))
	}

	helpers.Message(w, http.StatusOK, msgForgotSent)
}

type resetReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Reset godoc
// @Summary Сброс пароля по токену
// @Description Устанавливает новый пароль по токену из письма. Токен одноразовый и действует до resetTokenExpiry.
// @Tags password
// @Accept json
// @Produce json
// @Param input body resetReq true "Токен и новый пароль"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.MessageResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /api/auth/reset-password [post]
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req resetReq
	if err := helpers.DecodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Token) == "" || req.Password == "" {
		log.Warn("Невалидный payload в Reset")
		helpers.Message(w, http.StatusBadRequest, "缺少必要参数")
		return
	}

	err := h.svc.ResetPassword(r.Context(), req.Token, req.Password)
	switch {
	case err == nil:
		log.Info("Пароль успешно сброшен")
		helpers.Message(w, http.StatusOK, "密码重置成功")
	case errors.Is(err, services.ErrMissingFields):
		helpers.Message(w, http.StatusBadRequest, "缺少必要参数")
	case errors.Is(err, services.ErrPasswordTooLong):
		helpers.Message(w, http.StatusBadRequest, msgPasswordTooLong)
	case errors.Is(err, services.ErrInvalidToken):
		helpers.Message(w, http.StatusBadRequest, "重置链接无效或已过期")
	default:
		log.Error("Ошибка сброса пароля", zap.Error(err))
		helpers.Message(w, http.StatusInternalServerError, msgServerError)
	}
}

func maskEmail(s string) string {
	at := strings.IndexByte(s, '@')
	if at <= 1 {
		return "***"
	}
	return s[:1] + "***" + s[at:]
}
