package probe

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotJSON is returned when a response body is not a JSON envelope.
var ErrNotJSON = errors.New("response is not JSON")

// Envelope is the {code, msg, data} wrapper every catalog response uses.
// code 0 means success; the HTTP status stays 200 for application errors.
type Envelope struct {
	Code      *int            `json:"code"`
	Msg       string          `json:"msg"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// DecodeEnvelope parses body as an envelope.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	return &env, nil
}

// OK reports whether the envelope carries code 0.
func (e *Envelope) OK() bool {
	return e.Code != nil && *e.Code == 0
}

// Message returns the server message, or 未知错误 when it sent none.
func (e *Envelope) Message() string {
	if e.Msg == "" {
		return "未知错误"
	}
	return e.Msg
}

// HasData reports whether data is present and not null.
func (e *Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}
