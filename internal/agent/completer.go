package agent

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// Completer is the text-generation backend consumed by the reasoning
// pipeline. Implementations return assistant text that is supposed to be a
// single JSON object but is not guaranteed to be one.
type Completer interface {
	Complete(ctx context.Context, systemInstruction, prompt string, temperature float64) (string, error)
}

// ModelCompleter adapts a langchaingo model to the Completer interface.
type ModelCompleter struct {
	Model llms.Model
}

func NewModelCompleter(model llms.Model) *ModelCompleter {
	return &ModelCompleter{Model: model}
}

func (c *ModelCompleter) Complete(ctx context.Context, systemInstruction, prompt string, temperature float64) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemInstruction)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := c.Model.GenerateContent(ctx, messages, llms.WithTemperature(temperature))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("backend returned no choices")
	}
	return resp.Choices[0].Content, nil
}
