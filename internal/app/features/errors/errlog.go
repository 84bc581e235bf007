// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs unexpected failures and writes the storage_error envelope.
// Handlers use it for the "DB blew up" path so the log line and the response
// always stay paired.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// Internal logs the error with request context and responds 500 storage_error.
// The underlying error never reaches the client.
func (e *ErrorLogger) Internal(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	Write(w, http.StatusInternalServerError, CodeStorage, "something went wrong; please try again")
}
