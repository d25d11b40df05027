// Package demo решает, работает ли приложение в демо-режиме (без реального
// бэкенда), и выдаёт картинки-заглушки вместо результатов обработки.
package demo

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	QueryParam    = "demo"
	defaultColor  = "gray/white"
	placeholderFn = "https://via.placeholder.com/512x512/%s?text=%s"
)

// UserID: фиксированный пользователь, под которым гейт пускает демо-запросы.
const UserID = "demo-user"

var styleColors = map[string]string{
	"stylize":           "purple/white",
	"enhance":           "blue/white",
	"remove-background": "green/white",
	"upscale":           "orange/white",
	"anime":             "pink/white",
	"sketch":            "black/white",
	"watercolor":        "teal/white",
}

// Enabled: серверная проверка, только флаг окружения.
func Enabled(envFlag bool) bool {
	return envFlag
}

// EnabledForRequest проверяет запрос на стороне клиента,
// флаг окружения или ?demo=true в URL.
func EnabledForRequest(envFlag bool, r *http.Request) bool {
	if envFlag {
		return true
	}
	if r == nil || r.URL == nil {
		return false
	}
	return strings.EqualFold(r.URL.Query().Get(QueryParam), "true")
}

// ImageURL возвращает детерминированную картинку-заглушку для операции kind.
// Пустой style означает style = kind; неизвестный стиль даёт gray/white.
func ImageURL(kind, style string) string {
	if style == "" {
		style = kind
	}
	color, ok := styleColors[style]
	if !ok {
		color = defaultColor
	}
	return fmt.Sprintf(placeholderFn, color, url.QueryEscape(kind))
}
