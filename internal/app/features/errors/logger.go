// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers can report a failure in one call. The log message carries the
// detail; the user sees only the friendly message.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the given zap logger.
func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

// LogServerError logs err at error level and renders a forbidden-style
// page with userMsg. Use for database and other internal failures.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	w.WriteHeader(http.StatusInternalServerError)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogBadRequest logs err at warn level and renders an error page with
// userMsg. Use for malformed form data and bad identifiers.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	w.WriteHeader(http.StatusBadRequest)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogForbidden logs at warn level and renders the forbidden page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg, userMsg, backURL string) {
	e.log.Warn(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogNotFound logs at debug level and renders the not-found page.
// Also used when authorization fails on a team-scoped resource.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string) {
	e.log.Debug(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	RenderNotFound(w, r)
}
