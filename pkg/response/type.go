package response

import (
	"encoding/json"
	"time"
)

// Resp is the envelope every API handler returns. ErrorCode 0 means
// success; Data carries the handler payload, Errors carries optional
// per-field validation detail.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// Date marshals as a bare calendar date (DateFormat) in server-local
// time, for payload fields where the clock component is noise.
type Date time.Time

// MarshalJSON implements json.Marshaler for Date.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Local().Format(DateFormat))
}

// DateTime marshals as DateTimeFormat in server-local time.
type DateTime time.Time

// MarshalJSON implements json.Marshaler for DateTime.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Local().Format(DateTimeFormat))
}
