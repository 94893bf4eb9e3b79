package tool

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/compose-mcp/internal/template"
)

// TemplateInfo describes a template as returned by the template tools.
type TemplateInfo struct {
	ID           string              `json:"id" jsonschema:"template ID"`
	Name         string              `json:"name" jsonschema:"template name"`
	Template     string              `json:"template" jsonschema:"body with {{key}} placeholders"`
	Subject      string              `json:"subject,omitempty" jsonschema:"subject with {{key}} placeholders"`
	Recipient    string              `json:"recipient,omitempty" jsonschema:"recipient with {{key}} placeholders"`
	Variables    []template.Variable `json:"variables" jsonschema:"declared variables"`
	Placeholders []string            `json:"placeholders" jsonschema:"placeholder keys in order of appearance"`
	Builtin      bool                `json:"builtin" jsonschema:"built-in templates are read-only"`
	IsDefault    bool                `json:"is_default,omitempty" jsonschema:"the user's default template"`
	UpdatedAt    string              `json:"updated_at,omitempty" jsonschema:"last update time, RFC 3339"`
}

func templateInfo(t template.EmailTemplate, builtin bool) TemplateInfo {
	vars := t.Variables
	if vars == nil {
		vars = []template.Variable{}
	}
	keys := t.Keys()
	if keys == nil {
		keys = []string{}
	}

	return TemplateInfo{
		ID:           t.ID,
		Name:         t.Name,
		Template:     t.Template,
		Subject:      t.Subject,
		Recipient:    t.Recipient,
		Variables:    vars,
		Placeholders: keys,
		Builtin:      builtin,
	}
}

// sessionKey identifies the client session of req. Transports without
// session ids (stdio, in-memory) are keyed by their session object.
func sessionKey(req *mcp.CallToolRequest) string {
	if req == nil || req.Session == nil {
		return ""
	}
	if id := req.Session.ID(); id != "" {
		return id
	}
	return fmt.Sprintf("session-%p", req.Session)
}
