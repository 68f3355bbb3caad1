package tools

import (
	"context"
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITools encodes the registry as an OpenAI-compatible tools array.
func (r *Registry) OpenAITools() []openai.Tool {
	specs := r.Specs()
	out := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Schema,
			},
		})
	}
	return out
}

// CallOpenAI runs a model-issued tool call and returns the tool message to
// append to the conversation. Unknown tools and handler failures are
// reported in the message content as {"error": ...}.
func (r *Registry) CallOpenAI(ctx context.Context, call openai.ToolCall) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Name:       call.Function.Name,
		ToolCallID: call.ID,
	}

	out, err := r.Call(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
	if err != nil {
		out = errorResult(err.Error())
	}
	msg.Content = string(out)

	return msg
}
