package handlers

import (
	"net/http"
	"strings"

	"hootool/internal/demo"
	"hootool/internal/utils/helpers"
)

type DemoHandler struct {
	demoMode bool
}

func NewDemoHandler(demoMode bool) *DemoHandler {
	return &DemoHandler{demoMode: demoMode}
}

type demoImageResponse struct {
	Type     string `json:"type"`
	Style    string `json:"style"`
	ImageURL string `json:"image_url"`
	Demo     bool   `json:"demo"`
}

type demoStatusResponse struct {
	Demo bool `json:"demo"`
}

// Image godoc
// @Summary Картинка-заглушка для операции
// @Tags demo
// @Produce json
// @Param type query string true "Тип операции (stylize, enhance, ...)"
// @Param style query string false "Стиль, по умолчанию равен type"
// @Param demo query bool false "Демо-режим для этого запроса"
// @Success 200 {object} demoImageResponse
// @Failure 400 {object} helpers.MessageResponse
// @Router /api/demo/image [get]
func (h *DemoHandler) Image(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := strings.TrimSpace(q.Get("type"))
	if kind == "" {
		helpers.Message(w, http.StatusBadRequest, "缺少必要参数")
		return
	}
	style := strings.TrimSpace(q.Get("style"))
	if style == "" {
		style = kind
	}

	helpers.JSON(w, http.StatusOK, demoImageResponse{
		Type:     kind,
		Style:    style,
		ImageURL: demo.ImageURL(kind, style),
		Demo:     demo.EnabledForRequest(h.demoMode, r),
	})
}

// Status godoc
// @Summary Включён ли демо-режим
// @Tags demo
// @Produce json
// @Param demo query bool false "Демо-режим для этого запроса"
// @Success 200 {object} demoStatusResponse
// @Router /api/demo/status [get]
func (h *DemoHandler) Status(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, demoStatusResponse{Demo: demo.EnabledForRequest(h.demoMode, r)})
}
