// Package template fills email templates with named {{key}} placeholders.
package template

import (
	"cmp"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// Variable describes one placeholder of a template.
type Variable struct {
	Key          string `json:"key" yaml:"key" jsonschema:"placeholder key"`
	Label        string `json:"label" yaml:"label" jsonschema:"display label"`
	DefaultValue string `json:"default_value,omitempty" yaml:"default_value,omitempty" jsonschema:"value used when none is supplied"`
}

// EmailTemplate is an email body with optional subject and recipient lines,
// each of which may contain placeholders.
type EmailTemplate struct {
	ID        string     `json:"id" yaml:"id" jsonschema:"template ID"`
	Name      string     `json:"name" yaml:"name" jsonschema:"display name"`
	Template  string     `json:"template" yaml:"template" jsonschema:"body with {{key}} placeholders"`
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty" jsonschema:"subject line"`
	Recipient string     `json:"recipient,omitempty" yaml:"recipient,omitempty" jsonschema:"recipient line"`
	Variables []Variable `json:"variables" yaml:"variables" jsonschema:"declared placeholders"`
}

// Data maps placeholder keys to user supplied values.
type Data map[string]string

// Rendered is the output of Apply.
type Rendered struct {
	Content   string `json:"content" jsonschema:"rendered body"`
	Subject   string `json:"subject" jsonschema:"rendered subject"`
	Recipient string `json:"recipient" jsonschema:"rendered recipient"`
}

// Token returns the literal placeholder for key.
func Token(key string) string {
	return "{{" + key + "}}"
}

// Apply substitutes every key of data into the body, subject and recipient.
// A key with an empty value renders as [key]. Placeholders whose key is absent
// from data are left untouched. Keys are matched literally and replaced text
// is never rescanned, so the order of keys does not matter.
func Apply(t EmailTemplate, data Data) Rendered {
	if len(data) == 0 {
		return Rendered{Content: t.Template, Subject: t.Subject, Recipient: t.Recipient}
	}

	// Longest token first so a key that embeds another key's token wins.
	keys := slices.SortedFunc(maps.Keys(data), func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), strings.Compare(a, b))
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		v := data[k]
		if v == "" {
			v = "[" + k + "]"
		}
		pairs = append(pairs, Token(k), v)
	}
	r := strings.NewReplacer(pairs...)

	return Rendered{
		Content:   r.Replace(t.Template),
		Subject:   r.Replace(t.Subject),
		Recipient: r.Replace(t.Recipient),
	}
}

var placeholder = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Placeholders lists the distinct keys referenced in s, in order of first use.
func Placeholders(s string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(s, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// Keys lists the placeholders used anywhere in t.
func (t EmailTemplate) Keys() []string {
	return Placeholders(t.Template + "\n" + t.Subject + "\n" + t.Recipient)
}

// Unresolved lists placeholders still present after rendering.
func Unresolved(r Rendered) []string {
	return Placeholders(r.Content + "\n" + r.Subject + "\n" + r.Recipient)
}

// Defaults returns the initial Data of t: every variable with a non-empty default.
func Defaults(t EmailTemplate) Data {
	d := make(Data)
	for _, v := range t.Variables {
		if v.DefaultValue != "" {
			d[v.Key] = v.DefaultValue
		}
	}
	return d
}

// Merge overlays data on top of the defaults of t.
func Merge(t EmailTemplate, data Data) Data {
	merged := Defaults(t)
	maps.Copy(merged, data)
	return merged
}
