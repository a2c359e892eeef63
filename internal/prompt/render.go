package prompt

import (
	"errors"
	"sort"

	"promptforge/internal/constraint"
	"promptforge/internal/logging"
)

// RenderOptions control a single render call.
type RenderOptions struct {
	// Strict additionally requires every context variable to be referenced
	// somewhere in the template and every live variable to resolve.
	Strict bool

	// Constraints, when non-nil, are serialized canonically and appended
	// after all other content.
	Constraints *constraint.Constraints
}

// Render expands a parsed template against a context.
//
// Resolution order: conditionals first (each span replaced by its body or
// the empty string), then flat placeholder substitution over the result, so
// placeholders inside included bodies resolve like any other. Parse-time
// errors cannot occur here; the only failures are the two strict-mode
// audits, each reporting its complete offender list.
func Render(tpl *Template, ctx *Context, opts RenderOptions) (string, error) {
	timer := logging.StartTimer(logging.CategoryRender, "Render "+tpl.Name)
	defer timer.Stop()

	resolved := resolveConditionals(tpl, ctx)

	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(resolved, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		value, _ := ctx.Get(name)
		if value == Unset {
			missing = append(missing, name)
		}
		return value
	})

	if opts.Strict {
		if err := strictAudit(tpl, ctx, missing); err != nil {
			logging.Render("strict render of %s failed: %v", tpl.Name, err)
			return "", err
		}
	}

	if opts.Constraints != nil {
		out += "\n\n" + constraint.Format(*opts.Constraints)
	}

	logging.RenderDebug("rendered %s: %d bytes", tpl.Name, len(out))
	return out, nil
}

// resolveConditionals replaces every conditional span with its body when the
// condition holds, or the empty string when it does not. Bodies keep their
// placeholders unexpanded for the substitution pass.
func resolveConditionals(tpl *Template, ctx *Context) string {
	if len(tpl.Conditionals) == 0 {
		return tpl.Source
	}
	return conditionalRe.ReplaceAllStringFunc(tpl.Source, func(m string) string {
		sub := conditionalRe.FindStringSubmatch(m)
		cond, ok := parseConditionHeader(sub[1])
		if !ok {
			// Parse already rejected malformed headers.
			return ""
		}
		value, _ := ctx.Get(cond.Variable)
		if EvalConditional(cond, value) {
			return sub[2]
		}
		return ""
	})
}

// strictAudit runs the two strict-mode checks. Unused looks at every
// reference in the template source, including branches a false conditional
// excluded; missing looks only at variables that survived into the expanded
// content. Both errors carry complete lists and are joined when both fire.
func strictAudit(tpl *Template, ctx *Context, missing []string) error {
	referenced := make(map[string]bool)
	for _, v := range tpl.ReferencedVariables() {
		referenced[v] = true
	}

	var unused []string
	for _, key := range ctx.Keys() {
		if !referenced[key] {
			unused = append(unused, key)
		}
	}

	var unusedErr, missingErr error
	if len(unused) > 0 {
		unusedErr = &UnusedVariablesError{Template: tpl.Name, Variables: unused}
	}
	if len(missing) > 0 {
		missingErr = &MissingVariablesError{Template: tpl.Name, Variables: dedupSort(missing)}
	}
	return errors.Join(unusedErr, missingErr)
}

func dedupSort(vars []string) []string {
	seen := make(map[string]bool, len(vars))
	out := make([]string, 0, len(vars))
	for _, v := range vars {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
