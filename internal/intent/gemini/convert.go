// Package gemini converts between genai function-calling types and tool calls.
// It never talks to the API.
package gemini

import (
	"errors"

	"github.com/Cyclone1070/toolgate/internal/tool"
	"google.golang.org/genai"
)

// CallsFromContent extracts every FunctionCall part of content, in order.
func CallsFromContent(conversationID string, content *genai.Content) ([]tool.Call, error) {
	if content == nil || len(content.Parts) == 0 {
		return nil, ErrNoContent
	}
	calls := make([]tool.Call, 0, len(content.Parts))
	for _, part := range content.Parts {
		if part == nil || part.FunctionCall == nil {
			continue
		}
		calls = append(calls, tool.NewCall(conversationID, tool.Name(part.FunctionCall.Name), part.FunctionCall.Args))
	}
	return calls, nil
}

// CallsFromResponse reads the first candidate of a model response.
// Text-only responses yield no calls and no error.
func CallsFromResponse(conversationID string, resp *genai.GenerateContentResponse) ([]tool.Call, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, &BlockedError{Reason: candidate.FinishReason}
	}
	if candidate.Content == nil {
		return nil, nil
	}
	calls, err := CallsFromContent(conversationID, candidate.Content)
	if errors.Is(err, ErrNoContent) {
		return nil, nil
	}
	return calls, err
}

// FunctionResponse renders a result as the part the model expects back.
func FunctionResponse(r tool.Result) *genai.Part {
	response := map[string]any{
		"outcome": string(r.Outcome),
	}
	if r.Err != nil {
		response["error"] = map[string]any{
			"kind":    string(r.Err.Kind),
			"message": r.Err.Message,
		}
	} else {
		response["content"] = r.Content()
	}
	return &genai.Part{
		FunctionResponse: &genai.FunctionResponse{
			Name:     string(r.Call.Name),
			Response: response,
		},
	}
}

// ResultsContent packs results into one user turn.
func ResultsContent(results []tool.Result) *genai.Content {
	parts := make([]*genai.Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, FunctionResponse(r))
	}
	return &genai.Content{Role: "user", Parts: parts}
}

// Tools converts tool declarations to a single genai tool.
func Tools(decls []tool.Declaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}
	fds := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if d.Parameters != nil {
			fd.Parameters = toSchema(d.Parameters)
		}
		fds = append(fds, fd)
	}
	return []*genai.Tool{{FunctionDeclarations: fds}}
}

func toSchema(s *tool.Schema) *genai.Schema {
	out := &genai.Schema{
		Type:        toType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	if s.Items != nil {
		out.Items = toSchema(s.Items)
	}
	return out
}

func toType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
