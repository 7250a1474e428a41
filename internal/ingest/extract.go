package ingest

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/refnexus/refnexus/pkg/anthropic"
)

const extractSystemPrompt = "You are an assistant that extracts structured game schedule data. " +
	"Return a JSON array of objects with keys: scheduled_start, field_name, " +
	"address, location_name, field_number, age_group, competition_level, " +
	"gender_focus, center_fee, ar_fee, latitude, longitude, status. " +
	"Use ISO8601 for scheduled_start when possible."

// shouldUseLLM decides whether to fall back to LLM extraction: unstructured
// text, no parsed rows, or at least half the rows missing a schedule.
func shouldUseLLM(rows []NormalizedRow, rawText string) bool {
	if rawText != "" {
		return true
	}
	if len(rows) == 0 {
		return true
	}

	missing := 0
	for _, row := range rows {
		if row[keyScheduledStart] == nil {
			missing++
		}
	}
	threshold := len(rows) / 2
	if threshold < 1 {
		threshold = 1
	}
	return missing >= threshold
}

// extractRows asks the model to pull schedule rows out of unstructured text.
// Returns nil on any failure so previously parsed rows stand untouched.
func (s *Service) extractRows(ctx context.Context, text string) []RawRow {
	if len(text) > s.charBudget {
		text = text[:s.charBudget]
	}

	temp := 0.2
	resp, err := s.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: 4096,
		System:    []anthropic.SystemBlock{{Text: extractSystemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: text},
		},
		Temperature: &temp,
	})
	if err != nil {
		zap.L().Warn("schedule extraction failed", zap.Error(err))
		return nil
	}
	resp.Usage.LogCost(s.model, "schedule_extraction")

	var items []any
	if err := json.Unmarshal([]byte(cleanJSONArray(resp.Text())), &items); err != nil {
		zap.L().Warn("schedule extraction returned non-JSON output")
		return nil
	}

	var rows []RawRow
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			rows = append(rows, obj)
		}
	}
	return rows
}

// cleanJSONArray attempts to extract a JSON array from text that may contain
// markdown code fences or other wrapping.
func cleanJSONArray(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first [ and last ].
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
