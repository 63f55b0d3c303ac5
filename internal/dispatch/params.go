package dispatch

// Param helpers for handlers. HCL-decoded numbers arrive as int64 or
// float64 depending on the literal; programmatic callers may pass plain
// ints. These accessors absorb that variance so every handler does not
// repeat the same type switch.

// StringParam returns the named string parameter, or fallback when absent
// or of a different type.
func (c *Call) StringParam(name, fallback string) string {
	if v, ok := c.Params[name].(string); ok {
		return v
	}
	return fallback
}

// IntParam returns the named integer parameter, or fallback when absent.
func (c *Call) IntParam(name string, fallback int) int {
	switch v := c.Params[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// FloatParam returns the named float parameter, or fallback when absent.
func (c *Call) FloatParam(name string, fallback float64) float64 {
	switch v := c.Params[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}
