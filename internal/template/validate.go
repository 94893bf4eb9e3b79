package template

import (
	"fmt"
	"strings"
)

// KeyMismatchError reports a template whose placeholders and declared
// variables disagree. It is advisory: Apply works regardless.
type KeyMismatchError struct {
	TemplateID string
	Undeclared []string
	Unused     []string
	Duplicate  []string
}

func (e *KeyMismatchError) Error() string {
	var parts []string
	if len(e.Undeclared) > 0 {
		parts = append(parts, "undeclared placeholders: "+strings.Join(e.Undeclared, ", "))
	}
	if len(e.Unused) > 0 {
		parts = append(parts, "unused variables: "+strings.Join(e.Unused, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate variables: "+strings.Join(e.Duplicate, ", "))
	}
	return fmt.Sprintf("template %q key mismatch: %s", e.TemplateID, strings.Join(parts, "; "))
}

// Validate checks that every placeholder of t is declared exactly once in
// t.Variables and every variable is used. It returns nil or a *KeyMismatchError.
func Validate(t EmailTemplate) error {
	declared := make(map[string]bool, len(t.Variables))
	mismatch := &KeyMismatchError{TemplateID: t.ID}

	for _, v := range t.Variables {
		if declared[v.Key] {
			mismatch.Duplicate = append(mismatch.Duplicate, v.Key)
			continue
		}
		declared[v.Key] = true
	}

	used := make(map[string]bool)
	for _, k := range t.Keys() {
		used[k] = true
		if !declared[k] {
			mismatch.Undeclared = append(mismatch.Undeclared, k)
		}
	}

	for _, v := range t.Variables {
		if !used[v.Key] && !contains(mismatch.Unused, v.Key) {
			mismatch.Unused = append(mismatch.Unused, v.Key)
		}
	}

	if len(mismatch.Undeclared)+len(mismatch.Unused)+len(mismatch.Duplicate) == 0 {
		return nil
	}
	return mismatch
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
