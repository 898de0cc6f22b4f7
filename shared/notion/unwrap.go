package notion

// UnwrapRecord returns the innermost object of a record-table entry.
// Depending on the API version and path, entries arrive as {value: {value: X}},
// {value: X}, or bare X; this peels at most two levels of the "value" wrapper.
// It is total: anything that is not a JSON object yields nil and the caller
// applies its own default.
func UnwrapRecord(raw any) map[string]any {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	level1, ok := obj["value"].(map[string]any)
	if !ok {
		return obj
	}

	if level2, ok := level1["value"].(map[string]any); ok {
		return level2
	}
	return level1
}

// StringValue reads a string field from a loosely-typed record, returning ""
// when the field is absent or not a string.
func StringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
