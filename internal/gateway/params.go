package gateway

// Params is the parameter bag of a gateway call. Accessors return a
// ValidationError for missing or mistyped required parameters; optional
// accessors fall back to the zero value.
type Params map[string]any

// String returns a required string parameter.
func (p Params) String(key string) (string, *Error) {
	v, ok := p[key]
	if !ok {
		return "", validationError("missing required parameter %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", validationError("parameter %q must be a string", key)
	}
	if s == "" {
		return "", validationError("parameter %q must not be empty", key)
	}
	return s, nil
}

// OptString returns an optional string parameter, "" when absent.
func (p Params) OptString(key string) (string, *Error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", validationError("parameter %q must be a string", key)
	}
	return s, nil
}

// OptBool returns an optional bool parameter, false when absent.
func (p Params) OptBool(key string) (bool, *Error) {
	v, ok := p[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, validationError("parameter %q must be a boolean", key)
	}
	return b, nil
}

// OptInt returns an optional integer parameter, 0 when absent. JSON
// decoders hand numbers over as float64, so both arrive here.
func (p Params) OptInt(key string) (int, *Error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, validationError("parameter %q must be an integer", key)
	}
}

// OptStringSlice returns an optional list-of-strings parameter, nil when
// absent.
func (p Params) OptStringSlice(key string) ([]string, *Error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, validationError("parameter %q must be a list of strings", key)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, validationError("parameter %q must be a list of strings", key)
	}
}
