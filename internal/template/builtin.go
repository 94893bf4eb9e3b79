package template

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

type catalog struct {
	Templates []EmailTemplate `yaml:"templates"`
}

// Builtin returns the read-only templates shipped with the server.
func Builtin() ([]EmailTemplate, error) {
	var c catalog
	if err := yaml.Unmarshal(builtinYAML, &c); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal failed: %w", err)
	}

	return c.Templates, nil
}

// FindBuiltin returns the built-in template with the given id.
func FindBuiltin(id string) (EmailTemplate, bool) {
	all, err := Builtin()
	if err != nil {
		return EmailTemplate{}, false
	}
	for _, t := range all {
		if t.ID == id {
			return t, true
		}
	}
	return EmailTemplate{}, false
}
