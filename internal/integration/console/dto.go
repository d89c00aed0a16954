package console

import (
	"github.com/flexprice/adminconsole/internal/domain/plan"
	jsoniter "github.com/json-iterator/go"
)

// envelope is the response shape shared by the console APIs:
// {"success": true, "data": ...} or {"success": false, "error": {"message": ...}}
type envelope struct {
	Success bool                `json:"success"`
	Data    jsoniter.RawMessage `json:"data,omitempty"`
	Error   *errorBody          `json:"error,omitempty"`
	// Message is used by older endpoints that report errors at the top level
	Message string `json:"message,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *envelope) errorMessage() string {
	if e == nil {
		return ""
	}
	if e.Error != nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Message
}

// listPlansResponse is the data of GET /plans
type listPlansResponse []*plan.Plan
