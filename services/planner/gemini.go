// File: services/planner/gemini.go
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiGateway implements Gateway on top of the Gemini API, constrained to
// a JSON response schema so the answer parses deterministically.
type GeminiGateway struct {
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiGateway creates a Gemini-backed planner. The timeout bounds every
// Propose call so a slow model can never wedge a session in PLANNING.
func NewGeminiGateway(apiKey, modelName string, timeout time.Duration, logger *zap.Logger) (*GeminiGateway, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = candidateSchema

	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiGateway{model: model, timeout: timeout, logger: logger}, nil
}

// candidateSchema is the JSON shape the model must answer with.
var candidateSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"startTime": {
			Type:        genai.TypeString,
			Description: "The proposed start time for the meeting in ISO 8601 format.",
		},
		"endTime": {
			Type:        genai.TypeString,
			Description: "The proposed end time for the meeting in ISO 8601 format.",
		},
		"roomId": {
			Type:        genai.TypeString,
			Description: "The ID of the chosen room from the provided list of available rooms.",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "A brief, friendly explanation for why this time and room were chosen.",
		},
	},
	Required: []string{"startTime", "endTime", "roomId", "reasoning"},
}

// candidateWire is the raw JSON answer before time parsing.
type candidateWire struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	RoomID    string `json:"roomId"`
	Reasoning string `json:"reasoning"`
}

func (g *GeminiGateway) Propose(ctx context.Context, req Request) (*Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt, err := BuildPrompt(req, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to build planner prompt: %w", err)
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Warn("gemini generate failed", zap.Error(err))
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoCandidate
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return ParseCandidate(sb.String())
}

// ParseCandidate decodes and validates the model's JSON answer.
func ParseCandidate(raw string) (*Candidate, error) {
	var wire candidateWire
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &wire); err != nil {
		return nil, fmt.Errorf("planner returned malformed JSON: %w", err)
	}
	if wire.RoomID == "" || wire.StartTime == "" || wire.EndTime == "" {
		return nil, ErrNoCandidate
	}

	start, err := time.Parse(time.RFC3339, wire.StartTime)
	if err != nil {
		return nil, fmt.Errorf("planner returned unparseable start time %q: %w", wire.StartTime, err)
	}
	end, err := time.Parse(time.RFC3339, wire.EndTime)
	if err != nil {
		return nil, fmt.Errorf("planner returned unparseable end time %q: %w", wire.EndTime, err)
	}

	cand := &Candidate{RoomID: wire.RoomID, Reasoning: wire.Reasoning}
	cand.Slot.Start = start
	cand.Slot.End = end
	if err := cand.Slot.Validate(); err != nil {
		return nil, err
	}
	return cand, nil
}
