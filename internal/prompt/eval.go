package prompt

// EvalConditional is the pure include/exclude decision for one conditional
// block against its context value.
//
// Policy note: not_equals is deliberately NOT the logical negation of equals
// when the variable is absent. An Unset value fails `== "x"` but satisfies
// `!= "x"`, so "if category != X" holds whenever category information is
// missing. Template authors rely on this to write exclusion branches that
// stay active for topics with incomplete metadata.
func EvalConditional(c Conditional, value string) bool {
	switch c.Operator {
	case OpTruthy:
		return value != Unset && value != ""
	case OpEquals:
		return value != Unset && value == c.Value
	case OpNotEquals:
		return value == Unset || value != c.Value
	}
	return false
}
