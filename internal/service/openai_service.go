package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"studyforge/config"
)

// EmbeddingDimensions is the fixed dimensionality of all stored vectors.
const EmbeddingDimensions = 1536

const (
	completionModel = openai.GPT4oMini
	embeddingModel  = openai.SmallEmbedding3
)

// EmbeddingService maps text to fixed-length vectors. EmbedMany preserves the
// index correspondence between inputs and outputs.
type EmbeddingService interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionService invokes the language model in structured-output mode and
// decodes the response into out. A response that cannot be decoded into the
// requested shape fails with ErrLLMValidation; transport failures surface
// as-is.
type CompletionService interface {
	CompleteStructured(ctx context.Context, prompt string, schemaName string, out any) error
}

type openAIService struct {
	client *openai.Client
	cfg    *config.Config
}

// NewOpenAIService builds the single long-lived OpenAI client the process
// uses for both embeddings and completions.
func NewOpenAIService(cfg *config.Config) *openAIService {
	if cfg.OpenAIApiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set. Embedding and completion calls will fail.")
		return &openAIService{cfg: cfg, client: nil}
	}
	return &openAIService{client: openai.NewClient(cfg.OpenAIApiKey), cfg: cfg}
}

func NewEmbeddingService(s *openAIService) EmbeddingService { return s }

func NewCompletionService(s *openAIService) CompletionService { return s }

func (s *openAIService) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *openAIService) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if s.client == nil {
		return nil, fmt.Errorf("openai client not initialized")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// Place vectors by index so text[i] always maps to vectors[i].
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding service returned out-of-range index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

func (s *openAIService) CompleteStructured(ctx context.Context, prompt string, schemaName string, out any) error {
	if s.client == nil {
		return fmt.Errorf("openai client not initialized")
	}

	schema, err := jsonschema.GenerateSchemaForType(out)
	if err != nil {
		return fmt.Errorf("failed to build output schema %s: %w", schemaName, err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: completionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.5,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("%w: completion returned no choices", ErrLLMValidation)
	}

	raw := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warn().Err(err).Str("schema", schemaName).Str("raw", raw).Msg("Completion response failed schema decode")
		return fmt.Errorf("%w: %v", ErrLLMValidation, err)
	}
	return nil
}
