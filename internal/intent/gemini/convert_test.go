package gemini

import (
	"testing"

	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestCallsFromContent(t *testing.T) {
	content := &genai.Content{
		Role: "model",
		Parts: []*genai.Part{
			genai.NewPartFromText("Reading the file first."),
			{FunctionCall: &genai.FunctionCall{Name: "read_file", Args: map[string]any{"path": "a.txt"}}},
			{FunctionCall: &genai.FunctionCall{Name: "run_command", Args: map[string]any{"command": "ls"}}},
		},
	}

	calls, err := CallsFromContent("c1", content)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, tool.ReadFile, calls[0].Name)
	assert.Equal(t, "c1", calls[0].ConversationID)
	path, _ := calls[0].Arg("path")
	assert.Equal(t, "a.txt", path)
	assert.Equal(t, tool.RunCommand, calls[1].Name)

	_, err = CallsFromContent("c1", &genai.Content{})
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestCallsFromResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		calls   int
		wantErr error
	}{
		{"nil", nil, 0, ErrNoCandidates},
		{"no candidates", &genai.GenerateContentResponse{}, 0, ErrNoCandidates},
		{
			"safety",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}},
			0, ErrBlocked,
		},
		{
			"text only",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Role: "model", Parts: []*genai.Part{genai.NewPartFromText("done")}},
			}}},
			0, nil,
		},
		{
			"function call",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{Name: "git_status"}}}},
			}}},
			1, nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, err := CallsFromResponse("c1", tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, calls, tt.calls)
		})
	}
}

func TestFunctionResponse(t *testing.T) {
	call := tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "x"})

	ok := FunctionResponse(tool.Succeeded(call, tool.Text("Created x (1 bytes)")))
	require.NotNil(t, ok.FunctionResponse)
	assert.Equal(t, "write_file", ok.FunctionResponse.Name)
	assert.Equal(t, "success", ok.FunctionResponse.Response["outcome"])
	assert.Equal(t, "Created x (1 bytes)", ok.FunctionResponse.Response["content"])

	denied := FunctionResponse(tool.Unsuccessful(call, tool.Denied, tool.KindDenied, "Operation denied by user"))
	assert.Equal(t, "denied", denied.FunctionResponse.Response["outcome"])
	assert.Equal(t, map[string]any{"kind": "denied", "message": "Operation denied by user"}, denied.FunctionResponse.Response["error"])
	assert.NotContains(t, denied.FunctionResponse.Response, "content")

	content := ResultsContent([]tool.Result{tool.Succeeded(call, tool.Text("a")), tool.Succeeded(call, tool.Text("b"))})
	assert.Equal(t, "user", content.Role)
	assert.Len(t, content.Parts, 2)
}

func TestTools(t *testing.T) {
	assert.Nil(t, Tools(nil))

	tools := Tools([]tool.Declaration{{
		Name:        "search",
		Description: "Search files",
		Parameters: &tool.Schema{
			Type:     tool.TypeObject,
			Required: []string{"pattern"},
			Properties: map[string]*tool.Schema{
				"pattern": {Type: tool.TypeString, Description: "text"},
				"limit":   {Type: tool.TypeInteger},
				"globs":   {Type: tool.TypeArray, Items: &tool.Schema{Type: tool.TypeString}},
			},
		},
	}})

	require.Len(t, tools, 1)
	require.Len(t, tools[0].FunctionDeclarations, 1)
	fd := tools[0].FunctionDeclarations[0]
	assert.Equal(t, "search", fd.Name)
	assert.Equal(t, genai.TypeObject, fd.Parameters.Type)
	assert.Equal(t, []string{"pattern"}, fd.Parameters.Required)
	assert.Equal(t, genai.TypeInteger, fd.Parameters.Properties["limit"].Type)
	assert.Equal(t, genai.TypeString, fd.Parameters.Properties["globs"].Items.Type)
}
