package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"
)

type CreateDraftRequest struct {
	To      string `json:"to" jsonschema:"recipient address, e.g. Jane Doe <jane@example.com>"`
	Subject string `json:"subject" jsonschema:"email subject"`
	Body    string `json:"body" jsonschema:"plain text email body"`
}

type CreateDraftResponse struct {
	DraftID   string `json:"draft_id" jsonschema:"Gmail draft ID"`
	MessageID string `json:"message_id,omitempty" jsonschema:"Gmail message ID of the draft"`
	ThreadID  string `json:"thread_id,omitempty" jsonschema:"Gmail thread ID of the draft"`
}

type draftSvc interface {
	CreateDraft(ctx context.Context, to, subject, body string) (*gmail.Draft, error)
}

func NewCreateDraft(svc draftSvc) *CreateDraft {
	return &CreateDraft{svc: svc}
}

type CreateDraft struct {
	svc draftSvc
}

func (t *CreateDraft) CreateDraft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateDraftRequest,
) (*mcp.CallToolResult, CreateDraftResponse, error) {
	if strings.TrimSpace(input.To) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, CreateDraftResponse{}, errors.New("to and body are required")
	}

	draft, err := t.svc.CreateDraft(ctx, input.To, input.Subject, input.Body)
	if err != nil {
		return nil, CreateDraftResponse{}, fmt.Errorf("svc.CreateDraft failed: %w", err)
	}

	resp := CreateDraftResponse{DraftID: draft.Id}
	if draft.Message != nil {
		resp.MessageID = draft.Message.Id
		resp.ThreadID = draft.Message.ThreadId
	}

	return nil, resp, nil
}
