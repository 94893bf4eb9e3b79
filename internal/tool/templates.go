package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/hal9000y/compose-mcp/internal/store"
	"github.com/hal9000y/compose-mcp/internal/template"
)

// ErrReadOnlyTemplate is returned when a built-in template would be changed.
var ErrReadOnlyTemplate = errors.New("built-in templates are read-only")

type ListTemplatesRequest struct{}

type ListTemplatesResponse struct {
	Templates    []TemplateInfo `json:"templates" jsonschema:"built-in templates first, then saved ones newest first"`
	TotalResults int            `json:"total_results" jsonschema:"number of templates returned"`
}

type GetTemplateRequest struct {
	ID string `json:"id" jsonschema:"the template ID"`
}

type ApplyTemplateRequest struct {
	TemplateID string            `json:"template_id,omitempty" jsonschema:"ID of a stored or built-in template"`
	Template   string            `json:"template,omitempty" jsonschema:"inline body, used when template_id is empty"`
	Subject    string            `json:"subject,omitempty" jsonschema:"inline subject, used when template_id is empty"`
	Recipient  string            `json:"recipient,omitempty" jsonschema:"inline recipient, used when template_id is empty"`
	Data       map[string]string `json:"data,omitempty" jsonschema:"values by placeholder key, merged over variable defaults"`
}

type ApplyTemplateResponse struct {
	Content    string   `json:"content" jsonschema:"rendered body"`
	Subject    string   `json:"subject,omitempty" jsonschema:"rendered subject"`
	Recipient  string   `json:"recipient,omitempty" jsonschema:"rendered recipient"`
	Unresolved []string `json:"unresolved,omitempty" jsonschema:"placeholders left without a value"`
	Warnings   []string `json:"warnings,omitempty" jsonschema:"template key mismatches"`
}

type SaveTemplateRequest struct {
	ID        string              `json:"id,omitempty" jsonschema:"saved template to update, empty to create"`
	Name      string              `json:"name,omitempty" jsonschema:"template name, required on create"`
	Template  string              `json:"template,omitempty" jsonschema:"body with {{key}} placeholders, required on create"`
	Subject   *string             `json:"subject,omitempty" jsonschema:"subject with {{key}} placeholders"`
	Recipient *string             `json:"recipient,omitempty" jsonschema:"recipient with {{key}} placeholders"`
	Variables []template.Variable `json:"variables,omitempty" jsonschema:"declared variables, omitted keeps the current ones"`
	IsDefault *bool               `json:"is_default,omitempty" jsonschema:"mark as the user's default template"`
}

type SaveTemplateResponse struct {
	Template TemplateInfo `json:"template" jsonschema:"the saved template"`
	Created  bool         `json:"created" jsonschema:"true when a new template was created"`
	Warnings []string     `json:"warnings,omitempty" jsonschema:"template key mismatches"`
}

type DeleteTemplateRequest struct {
	ID string `json:"id" jsonschema:"saved template to delete"`
}

type DeleteTemplateResponse struct {
	Deleted bool `json:"deleted" jsonschema:"whether the template was deleted"`
}

type templateStore interface {
	Create(ctx context.Context, t template.EmailTemplate, isDefault bool) (store.Record, error)
	Get(ctx context.Context, id string) (store.Record, error)
	List(ctx context.Context) ([]store.Record, error)
	Update(ctx context.Context, id string, p store.Patch) (store.Record, error)
	Delete(ctx context.Context, id string) error
}

func NewTemplates(svc templateStore, logger *zap.Logger) *Templates {
	return &Templates{svc: svc, logger: logger}
}

type Templates struct {
	svc    templateStore
	logger *zap.Logger
}

func (t *Templates) ListTemplates(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListTemplatesRequest,
) (*mcp.CallToolResult, ListTemplatesResponse, error) {
	builtins, err := template.Builtin()
	if err != nil {
		return nil, ListTemplatesResponse{}, fmt.Errorf("template.Builtin failed: %w", err)
	}

	records, err := t.svc.List(ctx)
	if err != nil {
		return nil, ListTemplatesResponse{}, fmt.Errorf("svc.List failed: %w", err)
	}

	infos := make([]TemplateInfo, 0, len(builtins)+len(records))
	for _, b := range builtins {
		infos = append(infos, templateInfo(b, true))
	}
	for _, r := range records {
		infos = append(infos, recordInfo(r))
	}

	return nil, ListTemplatesResponse{Templates: infos, TotalResults: len(infos)}, nil
}

func (t *Templates) GetTemplate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetTemplateRequest,
) (*mcp.CallToolResult, TemplateInfo, error) {
	info, err := t.lookup(ctx, input.ID)
	if err != nil {
		return nil, TemplateInfo{}, err
	}
	return nil, info, nil
}

func (t *Templates) ApplyTemplate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ApplyTemplateRequest,
) (*mcp.CallToolResult, ApplyTemplateResponse, error) {
	tpl := template.EmailTemplate{
		Template:  input.Template,
		Subject:   input.Subject,
		Recipient: input.Recipient,
	}
	if input.TemplateID != "" {
		info, err := t.lookup(ctx, input.TemplateID)
		if err != nil {
			return nil, ApplyTemplateResponse{}, err
		}
		tpl = template.EmailTemplate{
			ID:        info.ID,
			Name:      info.Name,
			Template:  info.Template,
			Subject:   info.Subject,
			Recipient: info.Recipient,
			Variables: info.Variables,
		}
	}

	rendered := template.Apply(tpl, template.Merge(tpl, input.Data))

	var warnings []string
	if input.TemplateID != "" {
		warnings = mismatchWarnings(tpl)
	}

	return nil, ApplyTemplateResponse{
		Content:    rendered.Content,
		Subject:    rendered.Subject,
		Recipient:  rendered.Recipient,
		Unresolved: template.Unresolved(rendered),
		Warnings:   warnings,
	}, nil
}

func (t *Templates) SaveTemplate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SaveTemplateRequest,
) (*mcp.CallToolResult, SaveTemplateResponse, error) {
	if input.ID == "" {
		return t.create(ctx, input)
	}
	if _, ok := template.FindBuiltin(input.ID); ok {
		return nil, SaveTemplateResponse{}, fmt.Errorf("%w: %s", ErrReadOnlyTemplate, input.ID)
	}

	patch := store.Patch{
		Subject:   input.Subject,
		Recipient: input.Recipient,
		Variables: input.Variables,
		IsDefault: input.IsDefault,
	}
	if input.Name != "" {
		patch.Name = &input.Name
	}
	if input.Template != "" {
		patch.Template = &input.Template
	}

	rec, err := t.svc.Update(ctx, input.ID, patch)
	if err != nil {
		return nil, SaveTemplateResponse{}, fmt.Errorf("svc.Update failed: %w", err)
	}

	return nil, SaveTemplateResponse{
		Template: recordInfo(rec),
		Warnings: mismatchWarnings(rec.EmailTemplate),
	}, nil
}

func (t *Templates) create(ctx context.Context, input SaveTemplateRequest) (*mcp.CallToolResult, SaveTemplateResponse, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Template) == "" {
		return nil, SaveTemplateResponse{}, errors.New("name and template are required to create a template")
	}

	tpl := template.EmailTemplate{
		Name:      input.Name,
		Template:  input.Template,
		Subject:   deref(input.Subject),
		Recipient: deref(input.Recipient),
		Variables: input.Variables,
	}

	rec, err := t.svc.Create(ctx, tpl, deref(input.IsDefault))
	if err != nil {
		return nil, SaveTemplateResponse{}, fmt.Errorf("svc.Create failed: %w", err)
	}

	return nil, SaveTemplateResponse{
		Template: recordInfo(rec),
		Created:  true,
		Warnings: mismatchWarnings(rec.EmailTemplate),
	}, nil
}

func (t *Templates) DeleteTemplate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteTemplateRequest,
) (*mcp.CallToolResult, DeleteTemplateResponse, error) {
	if _, ok := template.FindBuiltin(input.ID); ok {
		return nil, DeleteTemplateResponse{}, fmt.Errorf("%w: %s", ErrReadOnlyTemplate, input.ID)
	}

	if err := t.svc.Delete(ctx, input.ID); err != nil {
		return nil, DeleteTemplateResponse{}, fmt.Errorf("svc.Delete failed: %w", err)
	}

	t.logger.Info("template deleted", zap.String("id", input.ID))

	return nil, DeleteTemplateResponse{Deleted: true}, nil
}

func (t *Templates) lookup(ctx context.Context, id string) (TemplateInfo, error) {
	if b, ok := template.FindBuiltin(id); ok {
		return templateInfo(b, true), nil
	}

	rec, err := t.svc.Get(ctx, id)
	if err != nil {
		return TemplateInfo{}, fmt.Errorf("svc.Get %s failed: %w", id, err)
	}

	return recordInfo(rec), nil
}

func recordInfo(r store.Record) TemplateInfo {
	info := templateInfo(r.EmailTemplate, false)
	info.IsDefault = r.IsDefault
	info.UpdatedAt = r.UpdatedAt.Format(time.RFC3339)
	return info
}

func mismatchWarnings(t template.EmailTemplate) []string {
	var mismatch *template.KeyMismatchError
	if err := template.Validate(t); errors.As(err, &mismatch) {
		return []string{mismatch.Error()}
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
