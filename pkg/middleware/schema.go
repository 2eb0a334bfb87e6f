package middleware

import "sort"

// IsMulti reports whether schema is a Multi Schema: a map carrying at least
// one of the four section keys at its top level.
//
// Classification is structural. A Single Schema whose rule map happens to
// define a top-level field named "body" is indistinguishable from a Multi
// Schema and will be misclassified; callers that need such field names
// should wrap them one level down or validate with an explicit section
// target.
func IsMulti(schema any) bool {
	m, ok := schema.(map[string]any)
	if !ok {
		return false
	}
	for _, t := range sectionOrder {
		if _, ok := m[string(t)]; ok {
			return true
		}
	}
	return false
}

// sectionKeys returns the keys of a Multi Schema in validation order:
// recognized sections first (body, params, query, headers), then any
// remaining keys sorted. Unrecognized keys are kept so the dispatcher can
// reject them; the literal key "multiple" never legitimately appears and
// is dropped here.
func sectionKeys(schema map[string]any) []string {
	keys := make([]string, 0, len(schema))
	for _, t := range sectionOrder {
		if _, ok := schema[string(t)]; ok {
			keys = append(keys, string(t))
		}
	}

	var rest []string
	for k := range schema {
		if t := Target(k); t.IsSection() || t == TargetMultiple {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// schemaFields lists the top-level field names a schema validates, used to
// extract named headers and path parameters. JSON Schema documents are
// probed for a "properties" object; rule maps use their own keys.
func schemaFields(schema any) []string {
	m, ok := schema.(map[string]any)
	if !ok {
		return nil
	}
	if props, ok := m["properties"].(map[string]any); ok {
		m = props
	}
	fields := make([]string, 0, len(m))
	for k := range m {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
