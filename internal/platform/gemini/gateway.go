// Package gemini implements the generation.Invoker boundary on top of
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preplab/ielts-api/internal/config"
	"github.com/preplab/ielts-api/internal/generation"
	"github.com/preplab/ielts-api/internal/schema"
	"google.golang.org/genai"
)

// Gateway is the single chokepoint for generative-endpoint calls. It holds a
// fixed endpoint, model identifier and credential; it carries no per-call
// mutable state, so one instance is shared process-wide and concurrent
// invocations are independent.
type Gateway struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// compile-time check that Gateway satisfies the Invoker boundary
var _ generation.Invoker = (*Gateway)(nil)

// NewGateway creates a Gateway from the LLM configuration.
func NewGateway(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Gateway, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Gateway{
		logger: logger.With(slog.String("component", "gemini_gateway")),
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Invoke implements generation.Invoker.
//
// Structured requests (req.Shape != nil) are sent with a JSON response
// constraint and the returned payload is validated against the shape before
// it is handed back; a violation is reported as ErrUpstream with the field
// path attached. Free-text requests return the raw text. Invoke never
// retries: transport failures surface as ErrNetwork for the caller's retry
// policy to handle.
func (g *Gateway) Invoke(ctx context.Context, req generation.Request) (*generation.RawResult, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.Attachment != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Attachment.Data, req.Attachment.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Instruction))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	var genCfg *genai.GenerateContentConfig
	if req.Shape != nil {
		genCfg = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   toGenaiSchema(req.Shape),
		}
	}

	g.logger.DebugContext(ctx, "invoking generative endpoint",
		slog.String("model", g.model),
		slog.Bool("structured", req.Shape != nil),
		slog.Bool("has_attachment", req.Attachment != nil),
		slog.Int("instruction_length", len(req.Instruction)))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genCfg)
	if err != nil {
		classified := classify(err)
		g.logger.ErrorContext(ctx, "generative endpoint call failed",
			slog.String("model", g.model),
			slog.String("error", err.Error()))
		return nil, classified
	}

	return toResult(req.Shape, resp)
}

// toResult converts a successful SDK response into a RawResult, enforcing
// the output contract for structured requests.
func toResult(shape *schema.Shape, resp *genai.GenerateContentResponse) (*generation.RawResult, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates returned", generation.ErrEmptyResponse)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: blank text payload", generation.ErrEmptyResponse)
	}

	result := &generation.RawResult{Text: text}

	if shape != nil {
		data, err := schema.Validate(shape, []byte(text))
		if err != nil {
			if errors.Is(err, schema.ErrSchemaViolation) {
				// The model was reachable but broke the output contract.
				// Surface the violation detail; never coerce to defaults.
				return nil, fmt.Errorf("%w: %v", generation.ErrUpstream, err)
			}
			// Structured output that is not even JSON is an empty payload
			// for the caller's purposes.
			return nil, fmt.Errorf("%w: %v", generation.ErrEmptyResponse, err)
		}
		result.Data = data
	}

	return result, nil
}

// classify maps an SDK error to the gateway error taxonomy: an upstream
// rejection when the API answered with an error payload, a transport failure
// otherwise.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s (code %d)", generation.ErrUpstream, apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("%w: %v", generation.ErrNetwork, err)
}

// toGenaiSchema converts a schema.Shape into the SDK's schema
// representation so one shape value drives both the request constraint and
// local validation.
func toGenaiSchema(s *schema.Shape) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{}

	switch s.Kind {
	case schema.KindObject:
		out.Type = genai.TypeObject
		if len(s.Properties) > 0 {
			out.Properties = make(map[string]*genai.Schema, len(s.Properties))
			for name, prop := range s.Properties {
				out.Properties[name] = toGenaiSchema(prop)
			}
		}
		out.Required = s.Required
	case schema.KindArray:
		out.Type = genai.TypeArray
		out.Items = toGenaiSchema(s.Items)
	case schema.KindString:
		out.Type = genai.TypeString
		out.Enum = s.Enum
	case schema.KindNumber:
		out.Type = genai.TypeNumber
	case schema.KindInteger:
		out.Type = genai.TypeInteger
	case schema.KindBoolean:
		out.Type = genai.TypeBoolean
	}

	return out
}
