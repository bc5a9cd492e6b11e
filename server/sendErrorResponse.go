package server

import (
	"net/http"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/apperrors"
)

var (
	// The counters for error codes
	counters = make(map[counterKey]int64)
	// For this case, mutex is simpler than channels
	mutex = &sync.Mutex{}
)

// AppError is an error with diagnostics for the HTTP boundary.
type AppError struct {
	Code   int
	Error  error
	Msg    string
	File   string
	Line   int
	Fields []zap.Field
}

// NewAppError constructs an application error
func NewAppError(code int, err error, msg string, fields ...zap.Field) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Code:   code,
		Error:  err,
		Msg:    msg,
		File:   file,
		Line:   line,
		Fields: fields,
	}
}

// mapError converts a service-layer error to the matching HTTP status.
func mapError(err error) *AppError {
	code := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindDataFormat, apperrors.KindOperation:
		code = http.StatusBadRequest
	case apperrors.KindNotFound:
		code = http.StatusNotFound
	case apperrors.KindPermission:
		code = http.StatusForbidden
	case apperrors.KindDatabase:
		code = http.StatusInternalServerError
	}
	_, file, line, _ := runtime.Caller(1)
	return &AppError{Code: code, Error: err, Msg: err.Error(), File: file, Line: line}
}

func countOKResponse(logger *zap.Logger) {
	sendErrorResponseRaw(logger, nil, nil)
}

func sendErrorResponse(logger *zap.Logger, w *http.ResponseWriter, code int, err error, msg string, fields ...zap.Field) {
	_, file, line, _ := runtime.Caller(1)
	sendErrorResponseRaw(logger, w, &AppError{code, err, msg, file, line, fields})
}

func sendAppErrorResponse(logger *zap.Logger, w *http.ResponseWriter, herr *AppError) {
	sendErrorResponseRaw(logger, w, herr)
}

// Some codes have already had to have been set because an http body follows.
// It's mostly just 200 and 206 that have http bodies.
func alreadySent(code int) bool {
	switch code {
	case http.StatusPartialContent, http.StatusOK:
		return true
	default:
		return false
	}
}

// sendErrorResponseRaw is the single exit point for finished transactions
func sendErrorResponseRaw(logger *zap.Logger, w *http.ResponseWriter, herr *AppError) {
	if herr != nil {
		var herrString string
		if herr.Error != nil {
			herrString = herr.Error.Error()
		}
		var fields []zap.Field
		fields = append(fields, zap.Int("status", herr.Code))
		fields = append(fields, zap.String("message", herr.Msg))
		fields = append(fields, zap.String("err", herrString))
		fields = append(fields, zap.String("file", herr.File))
		fields = append(fields, zap.Int("line", herr.Line))
		fields = append(fields, herr.Fields...)
		if herr.Code < 400 {
			logger.Info("transaction end", fields...)
		} else if herr.Code < 500 {
			logger.Warn("transaction end", fields...)
		} else {
			logger.Error("transaction end", fields...)
		}
		mutex.Lock()
		counters[counterKey{herr.Code, herr.File, herr.Line}]++
		mutex.Unlock()
		if w != nil && !alreadySent(herr.Code) {
			http.Error(*w, herr.Msg, herr.Code)
		}
	} else {
		logger.Info("transaction end", zap.Int("status", 200))
		mutex.Lock()
		counters[counterKey{200, "", 0}]++
		mutex.Unlock()
	}
}

// We key counters by code and the code location that raised it. file:line
// is not strictly required, but it isolates exactly which exit produced
// the count.
type counterKey struct {
	Code int
	File string
	Line int
}
