package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseRequest converts tool arguments into a typed request struct.
// Arguments are round-tripped through JSON, which converts numbers and
// nested objects to the field types of T. Unknown arguments are rejected.
//
// Example:
//
//	var req CreateTestPlanRequest
//	if err := api.ParseRequest(args, &req); err != nil {
//	    return api.HandleError(err), nil
//	}
func ParseRequest[T any](args map[string]interface{}, request *T) error {
	jsonData, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal request arguments: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(request); err != nil {
		return NewValidationError("", fmt.Sprintf("failed to parse request: %v", err))
	}
	return nil
}

// HandleError turns an error into an error tool result carrying its message.
func HandleError(err error) *CallToolResult {
	return &CallToolResult{
		Content: []interface{}{err.Error()},
		IsError: true,
	}
}

// HandleErrorWithPrefix is HandleError with a leading context message.
func HandleErrorWithPrefix(err error, prefix string) *CallToolResult {
	return &CallToolResult{
		Content: []interface{}{fmt.Sprintf("%s: %v", prefix, err)},
		IsError: true,
	}
}
