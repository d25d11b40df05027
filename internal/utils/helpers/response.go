package helpers

import (
	"encoding/json"
	"net/http"
)

type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message: стандартный ответ auth-эндпоинтов: {"message": "..."}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageResponse{Message: msg})
}

// RawJSON отдаёт уже сериализованное тело (ответ апстрима) без перекодирования.
func RawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
