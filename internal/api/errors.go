package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error is a non-2xx response from the Notion API. Message is passed through
// exactly as the API reported it.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API request failed with status %d (%s): %s", e.Status, e.Code, e.Message)
}

func newError(status int, body []byte) *Error {
	apiErr := &Error{Status: status}
	var payload struct {
		Object  string `json:"object"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Object == "error" {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
