package attrs

// ExtractString extracts a string value from a key-value attribute slice as
// passed to slog-style variadic loggers ([key1, value1, key2, value2, ...]).
// Returns empty string if the key is absent or the value is not a string.
// Audit helpers use this to lift correlation fields out of log attributes.
func ExtractString(attrs []any, key string) string {
	for i := 0; i < len(attrs)-1; i += 2 {
		k, ok := attrs[i].(string)
		if !ok {
			continue
		}
		if k == key {
			if v, ok := attrs[i+1].(string); ok {
				return v
			}
		}
	}
	return ""
}
