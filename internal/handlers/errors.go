package handlers

import (
	"net/http"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/asakaida/kiban/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// StatusForKind maps an error kind to its HTTP status
func StatusForKind(kind entities.Kind) int {
	switch kind {
	case entities.KindUnknownType,
		entities.KindRequiredFieldMissing,
		entities.KindInvalidIdentifier,
		entities.KindInvalidAttribute,
		entities.KindInvalidID,
		entities.KindInvalidPayload:
		return http.StatusBadRequest
	case entities.KindEntityNotFound, entities.KindAttributeNotFound:
		return http.StatusNotFound
	case entities.KindEntityAlreadyExists, entities.KindAttributeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and answers with the envelope. Client errors are logged
// at warn level, store failures at error level.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	kind := entities.KindOf(err)
	statusCode := StatusForKind(kind)
	message := logging.SanitizeError(err)

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("kind", string(kind)),
		zap.Int("status", statusCode),
		zap.String("error", message),
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Warn("Request rejected", fields...)
	}

	if encErr := WriteJSON(w, statusCode, newResponse(statusCode, message)); encErr != nil {
		logger.Error("Failed to encode error response", zap.Error(encErr))
	}
}
