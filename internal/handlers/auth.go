package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"hootool/internal/demo"
	"hootool/internal/logger"
	"hootool/internal/models"
	"hootool/internal/reqctx"
	"hootool/internal/services"
	"hootool/internal/utils/helpers"

	"go.uber.org/zap"
)

const (
	msgServerError     = "服务器错误"
	msgPasswordTooLong = "密码长度不能超过72个字节"
)

type AuthHandler struct {
	authService *services.AuthService
	jwtSecret   string
	accessTTL   time.Duration
}

func NewAuthHandler(authService *services.AuthService, jwtSecret string, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   jwtSecret,
		accessTTL:   accessTTL,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string                     `json:"access_token"`
	TokenType   string                     `json:"token_type"`
	ExpiresIn   int64                      `json:"expires_in"`
	User        models.UserProfileResponse `json:"user"`
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Данные регистрации"
// @Success 201 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.MessageResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req registerRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		log.Warn("Ошибка декодирования JSON в Register", zap.Error(err))
		helpers.Message(w, http.StatusBadRequest, "邮箱和密码为必填项")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if fe := helpers.Validate(req); fe != nil {
		log.Warn("Невалидные данные регистрации", zap.Any("fields", fe))
		switch {
		case fe.Has("required"):
			helpers.Message(w, http.StatusBadRequest, "邮箱和密码为必填项")
		case fe["email"] == "email":
			helpers.Message(w, http.StatusBadRequest, "邮箱格式不正确")
		default:
			helpers.Message(w, http.StatusBadRequest, "请求参数不正确")
		}
		return
	}

	user, err := h.authService.RegisterUser(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	switch {
	case err == nil:
	case errors.Is(err, services.ErrMissingFields):
		helpers.Message(w, http.StatusBadRequest, "邮箱和密码为必填项")
		return
	case errors.Is(err, services.ErrPasswordTooLong):
		helpers.Message(w, http.StatusBadRequest, msgPasswordTooLong)
		return
	case errors.Is(err, services.ErrEmailTaken):
		log.Info("Email уже занят", zap.String("email", req.Email))
		helpers.Message(w, http.StatusBadRequest, "该邮箱已被注册")
		return
	default:
		// строка могла остаться, письмо переотправляется через resend-verification
		log.Error("Ошибка регистрации пользователя", zap.Error(err))
		helpers.Message(w, http.StatusInternalServerError, msgServerError)
		return
	}

	log.Info("Пользователь зарегистрирован", zap.String("user_id", user.ID))
	helpers.Message(w, http.StatusCreated, "注册成功，请查收验证邮件")
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} loginResponse
// @Failure 400 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.MessageResponse
// @Failure 403 {object} helpers.MessageResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req loginRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil || helpers.Validate(req) != nil {
		helpers.Message(w, http.StatusBadRequest, "邮箱和密码为必填项")
		return
	}

	token, user, err := h.authService.LoginUser(r.Context(), req.Email, req.Password, h.jwtSecret, h.accessTTL)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrMissingFields):
		helpers.Message(w, http.StatusBadRequest, "邮箱和密码为必填项")
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		helpers.Message(w, http.StatusUnauthorized, "邮箱或密码错误")
		return
	case errors.Is(err, services.ErrEmailNotVerified):
		helpers.Message(w, http.StatusForbidden, "请先验证邮箱")
		return
	default:
		log.Error("Ошибка входа", zap.Error(err))
		helpers.Message(w, http.StatusInternalServerError, msgServerError)
		return
	}

	log.Info("Вход выполнен", zap.String("user_id", user.ID))
	helpers.JSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.accessTTL / time.Second),
		User:        user.Profile(),
	})
}

// Profile godoc
// @Summary Профиль текущего пользователя
// @Tags dashboard
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.UserProfileResponse
// @Failure 401 {object} helpers.MessageResponse
// @Router /api/dashboard/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if reqctx.IsDemo(ctx) {
		helpers.JSON(w, http.StatusOK, models.UserProfileResponse{
			ID:    demo.UserID,
			Email: "demo@hootool.ai",
			Name:  "Demo",
			Demo:  true,
		})
		return
	}

	userID, ok := reqctx.GetUserID(ctx)
	if !ok {
		helpers.Message(w, http.StatusUnauthorized, "请先登录")
		return
	}

	user, err := h.authService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			// токен пережил пользователя
			helpers.Message(w, http.StatusUnauthorized, "请先登录")
			return
		}
		logger.WithCtx(ctx).Error("Ошибка получения профиля", zap.Error(err))
		helpers.Message(w, http.StatusInternalServerError, msgServerError)
		return
	}
	helpers.JSON(w, http.StatusOK, user.Profile())
}
