package tool

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/hal9000y/compose-mcp/internal/metrics"
	"github.com/hal9000y/compose-mcp/internal/tone"
)

// Deps are the collaborators behind the tools. Drafts may be nil, in which
// case create_draft is not offered.
type Deps struct {
	Tone      toneAnalyzer
	Budgets   *tone.Budgets
	Templates templateStore
	Generator emailGenerator
	Drafts    draftSvc
	Metrics   recorder
	Logger    *zap.Logger
}

type recorder interface {
	ToneAnalysis(mode string)
	EmailGeneration(fallback bool)
}

// NewServer creates an MCP server with the email composition tools.
func NewServer(deps Deps) *mcp.Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRecorder(nil)
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "compose-helper", Version: "v1.0.0"}, nil)

	toneT := NewAnalyzeTone(deps.Tone, deps.Budgets, deps.Metrics, deps.Logger)
	mcp.AddTool(server, &mcp.Tool{
		Name: "analyze_tone",
		Description: fmt.Sprintf("Analyze formality, sentiment and clarity of an email draft. "+
			"Each session gets %d model calls per draft, then a local analysis is returned", deps.Budgets.MaxCalls()),
	}, toneT.AnalyzeTone)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reset_tone_budget",
		Description: "Restore the tone analysis call budget of the current session",
	}, toneT.ResetToneBudget)

	templatesT := NewTemplates(deps.Templates, deps.Logger)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_templates",
		Description: "List built-in and saved email templates",
	}, templatesT.ListTemplates)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_template",
		Description: "Get an email template by ID with its placeholders",
	}, templatesT.GetTemplate)

	mcp.AddTool(server, &mcp.Tool{
		Name: "apply_template",
		Description: "Fill {{key}} placeholders of a template. Empty values render as [key], " +
			"keys without a value stay as {{key}}",
	}, templatesT.ApplyTemplate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_template",
		Description: "Create a template, or update a saved one when id is set",
	}, templatesT.SaveTemplate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_template",
		Description: "Delete a saved template",
	}, templatesT.DeleteTemplate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_email",
		Description: "Write a complete email from sender, receiver, subject, tone and length",
	}, NewGenerateEmail(deps.Generator, deps.Metrics).GenerateEmail)

	if deps.Drafts != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "create_draft",
			Description: "Save an email as a Gmail draft",
		}, NewCreateDraft(deps.Drafts).CreateDraft)
	}

	return server
}
