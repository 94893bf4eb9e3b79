package tool_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/compose-mcp/internal/compose"
	"github.com/hal9000y/compose-mcp/internal/store"
	"github.com/hal9000y/compose-mcp/internal/tone"
	"github.com/hal9000y/compose-mcp/internal/tool"
)

type remoteMock struct {
	calls           atomic.Int32
	AnalyzeToneFunc func(ctx context.Context, text string) (tone.RemoteReply, error)
}

func (m *remoteMock) AnalyzeTone(ctx context.Context, text string) (tone.RemoteReply, error) {
	m.calls.Add(1)
	return m.AnalyzeToneFunc(ctx, text)
}

type modelMock struct {
	GenerateEmailFunc func(ctx context.Context, prompt string) (compose.Reply, error)
}

func (m *modelMock) GenerateEmail(ctx context.Context, prompt string) (compose.Reply, error) {
	return m.GenerateEmailFunc(ctx, prompt)
}

type draftSvcMock struct {
	CreateDraftFunc func(ctx context.Context, to, subject, body string) (*gmail.Draft, error)
}

func (m *draftSvcMock) CreateDraft(ctx context.Context, to, subject, body string) (*gmail.Draft, error) {
	return m.CreateDraftFunc(ctx, to, subject, body)
}

type recorderMock struct {
	mu          sync.Mutex
	modes       []string
	generations []bool
}

func (m *recorderMock) ToneAnalysis(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes = append(m.modes, mode)
}

func (m *recorderMock) EmailGeneration(fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations = append(m.generations, fallback)
}

func newDeps(t *testing.T, remote tone.Remote, model compose.Model) tool.Deps {
	t.Helper()

	budgets, err := tone.NewBudgets(0, tone.MaxCalls)
	require.NoError(t, err)

	templates, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "templates.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = templates.Close() })

	return tool.Deps{
		Tone:      tone.NewEngine(remote, nil),
		Budgets:   budgets,
		Templates: templates,
		Generator: compose.NewGenerator(model, nil),
		Metrics:   &recorderMock{},
	}
}

func connect(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

func call(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	return result
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, "tool failed: %s", errorText(result))

	var out T
	require.NoError(t,
		json.Unmarshal(
			[]byte(result.Content[0].(*mcp.TextContent).Text),
			&out,
		),
	)
	return out
}

func errorText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if text, ok := result.Content[0].(*mcp.TextContent); ok {
		return text.Text
	}
	return ""
}
