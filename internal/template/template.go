// Package template implements the placeholder engine: scanning prompt text
// for {name} tokens and merging supplied values back in. Both operations are
// total over all string inputs; malformed brace syntax is ignored rather
// than reported.
package template

import (
	"regexp"
	"strings"
)

// placeholderPattern matches a single pair of braces around a word-character
// name. Empty braces, nested braces and names with other characters do not
// match.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Scan extracts the distinct placeholder names referenced in a template, in
// order of first appearance. A template with no placeholders yields an empty
// slice, never an error.
func Scan(tmpl string) []string {
	names := []string{}
	seen := make(map[string]bool)

	for _, match := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}

// Merge substitutes values into a template. Every occurrence of {key} is
// replaced by the key's value for each key present in values. Substitution
// is literal: replaced text is never re-scanned, keys absent from the
// template are inert, and placeholders without a value are left verbatim.
func Merge(tmpl string, values map[string]string) string {
	if len(values) == 0 {
		return tmpl
	}

	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := values[name]; ok {
			return value
		}
		return token
	})
}

// Reconcile adjusts a value mapping to the placeholder set of a template:
// values for names still present are preserved, names that disappeared are
// dropped, and newly appeared names start as empty strings. The result's
// key set is always exactly Scan(tmpl).
func Reconcile(tmpl string, values map[string]string) map[string]string {
	next := make(map[string]string)
	for _, name := range Scan(tmpl) {
		next[name] = values[name]
	}
	return next
}

// ContainsPlaceholders reports whether any {name} token remains in the text
func ContainsPlaceholders(text string) bool {
	return placeholderPattern.MatchString(text)
}

// UnfilledNames returns the placeholder names that have no non-empty value
func UnfilledNames(tmpl string, values map[string]string) []string {
	var missing []string
	for _, name := range Scan(tmpl) {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
