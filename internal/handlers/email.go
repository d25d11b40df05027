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

type verifyRequest struct {
	Token string `json:"token"`
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyEmail godoc
// @Summary Подтверждение email по токену из письма
// @Tags auth
// @Accept json
// @Produce json
// @Param input body verifyRequest true "Токен верификации"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.MessageResponse
// @Router /api/auth/verify [post]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req verifyRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		helpers.Message(w, http.StatusBadRequest, "缺少验证令牌")
		return
	}

	err := h.authService.VerifyEmail(r.Context(), req.Token)
	switch {
	case err == nil:
		helpers.Message(w, http.StatusOK, "邮箱验证成功")
	case errors.Is(err, services.ErrMissingFields):
		helpers.Message(w, http.StatusBadRequest, "缺少验证令牌")
	case errors.Is(err, services.ErrInvalidToken):
		log.Warn("Неверный токен верификации")
		helpers.Message(w, http.StatusBadRequest, "验证链接无效或已过期")
	default:
		log.Error("Ошибка подтверждения email", zap.Error(err))
		helpers.Message(w, http.StatusInternalServerError, msgServerError)
	}
}

// ResendVerification godoc
// @Summary Повторная отправка письма с подтверждением
// @Tags auth
// @Accept json
// @Produce json
// @Param input body resendRequest true "Email"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.MessageResponse
// @Router /api/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req resendRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Message(w, http.StatusBadRequest, "邮箱为必填项")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if fe := helpers.Validate(req); fe != nil {
		if fe.Has("required") {
			helpers.Message(w, http.StatusBadRequest, "邮箱为必填项")
		} else {
			helpers.Message(w, http.StatusBadRequest, "邮箱格式不正确")
		}
		return
	}

	err := h.authService.ResendVerification(r.Context(), req.Email)
	switch {
	case err == nil:
		helpers.Message(w, http.StatusOK, "验证邮件已重新发送")
	case errors.Is(err, services.ErrUserNotFound):
		helpers.Message(w, http.StatusBadRequest, "该邮箱未注册")
	case errors.Is(err, services.ErrAlreadyVerified):
		helpers.Message(w, http.StatusBadRequest, "该邮箱已验证")
	default:
		log.Error("Ошибка повторной отправки письма", zap.Error(err))
		helpers.Message(w, http.StatusInternalServerError, msgServerError)
	}
}
