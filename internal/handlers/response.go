package handlers

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every structural and row operation answers with
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	ID      *int64 `json:"id,omitempty"`
}

// EntityListResponse answers GET /api/entities
type EntityListResponse struct {
	Entities []string `json:"entities"`
}

// EntityDescription answers GET /api/entities/{name}
type EntityDescription struct {
	EntityName string      `json:"entityName"`
	Attributes interface{} `json:"attributes"`
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func newResponse(statusCode int, message string) Response {
	return Response{
		Success: statusCode < http.StatusBadRequest,
		Message: message,
		Status:  statusCode,
	}
}
