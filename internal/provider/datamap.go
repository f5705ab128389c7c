package provider

// FieldSpec declares how a single property resolves: the default used when
// the input omits the field, and an optional transform applied to whichever
// value was selected.
type FieldSpec struct {
	Default   any
	Transform func(any) any
}

// FieldMap is a declarative property schema keyed by input field name.
type FieldMap map[string]FieldSpec

// Resolve produces one value per declared field. Input values win over
// defaults, unknown input keys are dropped, and transforms run on defaults
// and supplied values alike.
func (m FieldMap) Resolve(input map[string]any) map[string]any {
	resolved := make(map[string]any, len(m))
	for name, spec := range m {
		value, ok := input[name]
		if !ok {
			value = spec.Default
		}
		if spec.Transform != nil {
			value = spec.Transform(value)
		}
		resolved[name] = value
	}
	return resolved
}

// CleanStringList is a FieldSpec transform for list-valued properties. A nil
// value becomes an empty list; entries equal to nil, "", or the placeholder
// "-" are removed, preserving the order of the rest.
func CleanStringList(value any) any {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	}

	clean := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || s == "" || s == "-" {
			continue
		}
		clean = append(clean, s)
	}
	return clean
}

func stringField(resolved map[string]any, name string) string {
	value, _ := resolved[name].(string)
	return value
}

func stringListField(resolved map[string]any, name string) []string {
	value, _ := resolved[name].([]string)
	return value
}
