package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"message": message})
}

// RespondValidation 发送字段校验失败响应
func RespondValidation(w http.ResponseWriter, fields interface{}) {
	RespondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"message": "Invalid request data",
		"errors":  fields,
	})
}
