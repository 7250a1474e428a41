// Package match suggests referees for a league's request, turning a natural
// language query into structured constraints and ranking candidates by their
// average rating.
package match

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/refnexus/refnexus/pkg/anthropic"
)

// Constraints is the structured form of a referee request. All fields are
// optional; only MinRating, MaxDistanceKM, and Location affect the candidate
// search.
type Constraints struct {
	Location         *LatLon  `json:"location,omitempty"`
	Kickoff          string   `json:"kickoff,omitempty"`
	AgeGroup         string   `json:"age_group,omitempty"`
	CompetitionLevel string   `json:"competition_level,omitempty"`
	Role             string   `json:"role,omitempty"`
	MaxDistanceKM    *float64 `json:"max_distance_km,omitempty"`
	MinRating        *float64 `json:"min_rating,omitempty"`
}

// Extractor turns a natural language query into search constraints.
type Extractor interface {
	ParseRefRequest(ctx context.Context, query string, leagueID int64) (Constraints, error)
}

const constraintsTool = "ref_constraints"

const constraintsSystemPrompt = "You are an assistant that extracts structured referee assignment constraints. " +
	"Return function call arguments only."

// llmExtractor extracts constraints with a schema-constrained tool call.
type llmExtractor struct {
	client anthropic.Client
	model  string
}

// NewExtractor creates an LLM-backed constraint extractor.
func NewExtractor(client anthropic.Client, model string) Extractor {
	return &llmExtractor{client: client, model: model}
}

func (e *llmExtractor) ParseRefRequest(ctx context.Context, query string, leagueID int64) (Constraints, error) {
	if query == "" {
		return Constraints{}, nil
	}

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 1024,
		System:    []anthropic.SystemBlock{{Text: constraintsSystemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf("League %d: %s", leagueID, query)},
		},
		Tools: []anthropic.ToolDefinition{{
			Name:        constraintsTool,
			Description: "Extract constraints for referee search",
			Properties: map[string]any{
				"location": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"lat": map[string]any{"type": "number"},
						"lon": map[string]any{"type": "number"},
					},
				},
				"kickoff":           map[string]any{"type": "string"},
				"age_group":         map[string]any{"type": "string"},
				"competition_level": map[string]any{"type": "string"},
				"role":              map[string]any{"type": "string"},
				"max_distance_km":   map[string]any{"type": "number"},
				"min_rating":        map[string]any{"type": "number"},
			},
		}},
		ForceTool: constraintsTool,
	})
	if err != nil {
		return Constraints{}, err
	}
	resp.Usage.LogCost(e.model, "constraint_extraction")

	input := resp.ToolInput(constraintsTool)
	if input == nil {
		return Constraints{}, nil
	}

	var constraints Constraints
	if err := json.Unmarshal(input, &constraints); err != nil {
		zap.L().Warn("constraint extraction returned malformed tool input", zap.Error(err))
		return Constraints{}, nil
	}
	return constraints, nil
}
