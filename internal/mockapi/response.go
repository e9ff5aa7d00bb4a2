package mockapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response is the catalog envelope. The HTTP status is always 200;
// failures are reported through Code.
type Response struct {
	Code      int    `json:"code"`
	Msg       string `json:"msg"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// Envelope codes used by the catalog.
const (
	CodeOK            = 0
	CodeBadRequest    = 400
	CodeNotFound      = 404
	CodeInternalError = 500
)

// WriteJSON writes v as JSON with the given status code.
// Non-ASCII text is written unescaped, as the catalog does.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteSuccess writes a code 0 envelope carrying data.
func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Response{
		Code:      CodeOK,
		Msg:       "success",
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

// WriteError writes a failure envelope. The HTTP status stays 200.
func WriteError(w http.ResponseWriter, code int, msg string) error {
	return WriteJSON(w, http.StatusOK, Response{
		Code:      code,
		Msg:       msg,
		Timestamp: time.Now().UnixMilli(),
	})
}

// WriteNotFound writes a code 404 envelope.
func WriteNotFound(w http.ResponseWriter, msg string) error {
	return WriteError(w, CodeNotFound, msg)
}

// WriteBadRequest writes a code 400 envelope.
func WriteBadRequest(w http.ResponseWriter, msg string) error {
	return WriteError(w, CodeBadRequest, msg)
}

// WriteInternalError writes a code 500 envelope.
func WriteInternalError(w http.ResponseWriter, msg string) error {
	return WriteError(w, CodeInternalError, msg)
}
