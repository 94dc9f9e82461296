package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/prompts"

	"github.com/aguxez/foodplates/config"
	"github.com/aguxez/foodplates/models"
)

const promptTemplate = `
	You write menu copy for a restaurant admin dashboard.

	Plate name: {{.Name}}
	Price: {{.Price}}
	Current description: {{.Description}}

	Recently written descriptions (do not repeat their wording):
	{{.History}}

	Write one appetizing description for this plate in at most two sentences.
	Mention the main ingredients you can infer from the name. Do not mention the price.
	Reply with the description only: no quotes, no markdown, no preamble.
	`

// DescriptionWriter drafts plate descriptions with an LLM, remembering the last few
// so consecutive suggestions don't read the same.
type DescriptionWriter struct {
	mu           sync.Mutex // serialises load, call and save on bufferMemory
	chain        *chains.LLMChain
	bufferMemory *memory.ConversationWindowBuffer
	log          zerolog.Logger
}

// NewOpenAI connects to an OpenAI-compatible endpoint described by cfg.
func NewOpenAI(cfg config.AgentConfig, log zerolog.Logger) (*DescriptionWriter, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}
	return NewDescriptionWriter(llm, log), nil
}

func NewDescriptionWriter(llm llms.Model, log zerolog.Logger) *DescriptionWriter {
	chain := chains.NewLLMChain(
		llm,
		prompts.NewPromptTemplate(promptTemplate, []string{"Name", "Price", "Description", "History"}),
	)
	return &DescriptionWriter{
		chain:        chain,
		bufferMemory: memory.NewConversationWindowBuffer(5),
		log:          log,
	}
}

func (w *DescriptionWriter) Describe(ctx context.Context, d models.Draft) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	history, err := w.bufferMemory.LoadMemoryVariables(ctx, map[string]any{})
	if err != nil {
		return "", fmt.Errorf("loading memory variables: %w", err)
	}

	input := map[string]any{
		"Name":        d.Name,
		"Price":       d.Price,
		"Description": d.Description,
		"History":     history["history"],
	}

	result, err := chains.Call(ctx, w.chain, input)
	if err != nil {
		return "", fmt.Errorf("calling chain: %w", err)
	}
	text, ok := result[w.chain.OutputKey].(string)
	if !ok {
		return "", fmt.Errorf("chain returned %T, want string", result[w.chain.OutputKey])
	}
	text = cleanResponse(text)
	if text == "" {
		return "", fmt.Errorf("empty description for %q", d.Name)
	}

	err = w.bufferMemory.SaveContext(ctx, map[string]any{"plate": d.Name}, map[string]any{"description": text})
	if err != nil {
		w.log.Warn().Err(err).Msg("saving description to memory")
	}
	return text, nil
}

// cleanResponse flattens the model's reply to one line of plain text.
func cleanResponse(s string) string {
	s = strings.ReplaceAll(s, "```text", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, `"'`)
}
