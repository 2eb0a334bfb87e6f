package middleware

// Target names which request section(s) a middleware instance checks.
type Target string

// Recognized validation targets. TargetMultiple is a mode, not a request
// section: it tells the dispatcher to consult the schema's own keys.
const (
	TargetBody     Target = "body"
	TargetParams   Target = "params"
	TargetQuery    Target = "query"
	TargetHeaders  Target = "headers"
	TargetMultiple Target = "multiple"
)

// sectionOrder fixes the order in which Multi Schema sections are checked.
// Go maps have no insertion order, so first-failure-wins needs an explicit
// deterministic sequence.
var sectionOrder = []Target{TargetBody, TargetParams, TargetQuery, TargetHeaders}

// IsSection reports whether t names one of the four request sections.
func (t Target) IsSection() bool {
	switch t {
	case TargetBody, TargetParams, TargetQuery, TargetHeaders:
		return true
	}
	return false
}

// ParseTarget converts a string into a Target. The second return value is
// false for strings outside the recognized set.
func ParseTarget(s string) (Target, bool) {
	t := Target(s)
	if t.IsSection() || t == TargetMultiple {
		return t, true
	}
	return "", false
}
