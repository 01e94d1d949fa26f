package mcp

import (
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/mediastudio/internal/api"
)

// ToolError is the body of a failed tool call.
type ToolError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var recoveryHints = map[string]string{
	"PROJECT_NOT_FOUND":     "Call list_projects to find a valid id",
	"INVALID_INPUT":         "Check required arguments",
	"PROVIDER_UNCONFIGURED": "Set the provider API key and restart",
	"PROVIDER_RATE_LIMITED": "Wait before calling again",
	"PROVIDER_TIMEOUT":      "Try again with a simpler prompt",
}

// MapError maps domain and provider errors to tool error codes.
func MapError(err error) *ToolError {
	if err == nil {
		return nil
	}
	apiErr := api.MapError(err)
	return &ToolError{
		Code:         apiErr.Code,
		Message:      apiErr.Message,
		RecoveryHint: recoveryHints[apiErr.Code],
	}
}

func errorResult(err error) *sdkmcp.CallToolResult {
	res := jsonResult(MapError(err))
	res.IsError = true
	return res
}

func jsonResult(v any) *sdkmcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"code":"INTERNAL","message":%q}`, err.Error()))
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
