// Package compose generates complete emails with a generative model.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hal9000y/compose-mcp/internal/format"
	"github.com/hal9000y/compose-mcp/internal/template"
	"github.com/hal9000y/compose-mcp/internal/tokens"
)

// ErrMissingField indicates a required request field is empty.
var ErrMissingField = errors.New("missing required field")

// Reply is the raw model answer with provider reported token counts, zero when unknown.
type Reply struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Model turns a prompt into email text.
type Model interface {
	GenerateEmail(ctx context.Context, prompt string) (Reply, error)
}

// Request describes the email to write.
type Request struct {
	Sender            string `json:"sender" jsonschema:"sender name"`
	SenderTitle       string `json:"sender_title,omitempty" jsonschema:"sender job title"`
	Receiver          string `json:"receiver" jsonschema:"receiver name"`
	ReceiverTitle     string `json:"receiver_title,omitempty" jsonschema:"receiver job title"`
	Subject           string `json:"subject" jsonschema:"email subject"`
	Tone              string `json:"tone,omitempty" jsonschema:"formal, casual, friendly or professional (default)"`
	Length            string `json:"length,omitempty" jsonschema:"short, medium (default) or long"`
	AdditionalContext string `json:"additional_context,omitempty" jsonschema:"extra facts to include"`
}

// Email is a generated email.
type Email struct {
	Body     string
	Usage    tokens.Usage
	Fallback bool
	// Reason is set when Fallback is true.
	Reason error
}

// Generator writes emails with a Model and falls back to a canned email.
type Generator struct {
	model  Model
	logger *zap.Logger
}

// NewGenerator creates a Generator. A nil model always yields the fallback email.
func NewGenerator(model Model, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{model: model, logger: logger}
}

// Generate writes the email described by req. Only invalid requests fail;
// model problems produce the fallback email.
func (g *Generator) Generate(ctx context.Context, req Request) (Email, error) {
	if err := req.Validate(); err != nil {
		return Email{}, err
	}

	if g.model == nil {
		return fallback(req, errors.New("no model configured")), nil
	}

	prompt := Prompt(req)
	reply, err := g.model.GenerateEmail(ctx, prompt)
	if err == nil && strings.TrimSpace(reply.Text) == "" {
		err = errors.New("empty model reply")
	}
	if err != nil {
		g.logger.Warn("email generation failed, using fallback", zap.Error(err))
		return fallback(req, err), nil
	}

	body := format.CleanEmailResponse(reply.Text)
	estimatedIn := tokens.Estimate(req.Subject + req.Sender + req.Receiver + req.AdditionalContext)

	return Email{
		Body: body,
		Usage: tokens.NewUsage(
			tokens.Pick(reply.InputTokens, estimatedIn),
			tokens.Pick(reply.OutputTokens, tokens.Estimate(reply.Text)),
		),
	}, nil
}

// Validate checks the required fields.
func (r Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Sender) == "" {
		missing = append(missing, "sender")
	}
	if strings.TrimSpace(r.Receiver) == "" {
		missing = append(missing, "receiver")
	}
	if strings.TrimSpace(r.Subject) == "" {
		missing = append(missing, "subject")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

var fallbackTemplate = template.EmailTemplate{
	ID:   "fallback",
	Name: "Fallback",
	Template: `Dear {{receiver}},

I hope this email finds you well. I am writing to discuss {{subject}}.

As {{senderTitle}} at our organization, I wanted to reach out to you in your capacity as {{receiverTitle}} to explore potential collaboration opportunities.

Our team has been working on innovative solutions that I believe would align perfectly with your objectives. I would appreciate the opportunity to discuss this further at your convenience.

Please let me know if you would be interested in scheduling a call or meeting to explore this topic in more detail.

Best regards,
{{sender}}`,
	Variables: []template.Variable{
		{Key: "receiver", Label: "Receiver"},
		{Key: "subject", Label: "Subject"},
		{Key: "senderTitle", Label: "Sender title", DefaultValue: "a representative"},
		{Key: "receiverTitle", Label: "Receiver title", DefaultValue: "a professional"},
		{Key: "sender", Label: "Sender"},
	},
}

// FallbackEmail renders the canned email used when no model is available.
func FallbackEmail(req Request) string {
	data := template.Data{
		"receiver": req.Receiver,
		"subject":  req.Subject,
		"sender":   req.Sender,
	}
	if req.SenderTitle != "" {
		data["senderTitle"] = req.SenderTitle
	}
	if req.ReceiverTitle != "" {
		data["receiverTitle"] = req.ReceiverTitle
	}

	return template.Apply(fallbackTemplate, template.Merge(fallbackTemplate, data)).Content
}

func fallback(req Request, reason error) Email {
	return Email{Body: FallbackEmail(req), Fallback: true, Reason: reason}
}
