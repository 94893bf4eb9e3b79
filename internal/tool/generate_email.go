package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/compose-mcp/internal/compose"
	"github.com/hal9000y/compose-mcp/internal/tokens"
)

type GenerateEmailResponse struct {
	Email    string       `json:"email" jsonschema:"the generated email"`
	Fallback bool         `json:"fallback" jsonschema:"true when a canned email was returned instead of a model answer"`
	Notice   string       `json:"notice,omitempty" jsonschema:"why the canned email was returned"`
	Usage    tokens.Usage `json:"usage" jsonschema:"tokens spent"`
}

type emailGenerator interface {
	Generate(ctx context.Context, req compose.Request) (compose.Email, error)
}

func NewGenerateEmail(gen emailGenerator, rec recorder) *GenerateEmail {
	return &GenerateEmail{gen: gen, rec: rec}
}

type GenerateEmail struct {
	gen emailGenerator
	rec recorder
}

func (t *GenerateEmail) GenerateEmail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input compose.Request,
) (*mcp.CallToolResult, GenerateEmailResponse, error) {
	email, err := t.gen.Generate(ctx, input)
	if err != nil {
		return nil, GenerateEmailResponse{}, fmt.Errorf("gen.Generate failed: %w", err)
	}
	t.rec.EmailGeneration(email.Fallback)

	resp := GenerateEmailResponse{
		Email:    email.Body,
		Fallback: email.Fallback,
		Usage:    email.Usage,
	}
	if email.Fallback {
		resp.Notice = "The model could not write this email, a generic draft was returned"
	}

	return nil, resp, nil
}
