package mcpserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"studio/internal/domain"
)

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

// fail turns err into a tool error result. Notices raised during the call are
// appended so the agent sees the user-facing message too.
func (s *Server) fail(err error) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString(err.Error())
	for _, n := range s.notices.Drain() {
		fmt.Fprintf(&b, "\n[%s] %s", n.Level, n.Message)
	}
	res := textResult(b.String())
	res.IsError = true
	return res, nil
}

// getFloat returns a numeric argument, or def when absent.
func getFloat(args map[string]any, key string, def float64) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return def, false
}

// getPercent reads a numeric percentage argument as a Fraction.
func getPercent(args map[string]any, key string) (domain.Fraction, bool) {
	v, ok := getFloat(args, key, 0)
	if !ok {
		return 0, false
	}
	return domain.Fraction(v / 100), true
}

// getObject decodes a JSON object argument given either as a string or as an
// already-decoded object.
func getObject(args map[string]any, key string, target any) (bool, error) {
	switch v := args[key].(type) {
	case nil:
		return false, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return false, nil
		}
		if err := parseJSON(v, target); err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		return true, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		if err := json.Unmarshal(data, target); err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		return true, nil
	}
}

// getBreakpoint reads an optional breakpoint argument.
func getBreakpoint(req mcp.CallToolRequest, def domain.Breakpoint) (domain.Breakpoint, error) {
	raw := req.GetString("breakpoint", "")
	if raw == "" {
		return def, nil
	}
	return domain.ParseBreakpoint(raw)
}
