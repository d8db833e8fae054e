// Package extractor turns free-form request text into card fields using a
// generative text model. Extraction never fails: when the model cannot be
// used the result falls back to fields derived from the input itself.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	MaxTitleLength  = 100
	TruncationMark  = "..."
	DefaultPriority = "medium"
	dueDateLayout   = "2006-01-02"
)

var (
	ErrNoJSON        = errors.New("no valid JSON found in response")
	ErrEmptyResponse = errors.New("empty response from model")
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

var priorities = []string{"high", "medium", "low"}

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Fields are the card attributes extracted from a request.
type Fields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`
	DueDate     *string  `json:"due_date"`
	Priority    string   `json:"priority"`
}

// Result is either an extraction from the model (Fallback false) or the
// degraded fields built from the raw input, with Reason set.
type Result struct {
	Fields   Fields
	Fallback bool
	Reason   error
}

type Extractor struct {
	generator Generator
}

func New(generator Generator) *Extractor {
	return &Extractor{generator: generator}
}

func (e *Extractor) Process(ctx context.Context, text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = fallback(text, fmt.Errorf("generator panicked: %v", r))
		}
	}()

	if e.generator == nil {
		return fallback(text, errors.New("no generator configured"))
	}

	response, err := e.generator.Generate(ctx, buildPrompt(text))
	if err != nil {
		return fallback(text, fmt.Errorf("generate content: %w", err))
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return fallback(text, ErrEmptyResponse)
	}

	// Greedy match from the first '{' to the last '}'. A response holding two
	// separate objects does not parse and falls back.
	match := jsonObjectPattern.FindString(response)
	if match == "" {
		return fallback(text, ErrNoJSON)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return fallback(text, fmt.Errorf("%w: %v", ErrNoJSON, err))
	}

	return Result{Fields: normalize(raw, text)}
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following text and extract information for creating a Trello card.
Return a JSON object with the following structure:
{
    "title": "Concise, descriptive card title (max %d characters)",
    "description": "Detailed description with all relevant information",
    "labels": ["label1", "label2"],
    "due_date": "YYYY-MM-DD (if mentioned, otherwise null)",
    "priority": "high/medium/low (if mentioned, otherwise medium)"
}

Text to analyze: %s

JSON Response:
`, MaxTitleLength, text)
}

func normalize(raw map[string]any, text string) Fields {
	f := Fields{
		Title:       stringField(raw, "title"),
		Description: stringField(raw, "description"),
		Labels:      labelsField(raw),
		Priority:    strings.ToLower(strings.TrimSpace(stringField(raw, "priority"))),
	}

	if f.Title == "" {
		f.Title = text
	}
	f.Title = Truncate(f.Title)

	if f.Description == "" {
		f.Description = text
	}

	if !slices.Contains(priorities, f.Priority) {
		f.Priority = DefaultPriority
	}

	if due := strings.TrimSpace(stringField(raw, "due_date")); due != "" {
		if _, err := time.Parse(dueDateLayout, due); err == nil {
			f.DueDate = &due
		}
	}

	if !slices.ContainsFunc(f.Labels, func(l string) bool { return strings.EqualFold(l, f.Priority) }) {
		f.Labels = append(f.Labels, f.Priority)
	}

	return f
}

func fallback(text string, reason error) Result {
	zap.L().Warn("Falling back to raw text for card fields", zap.Error(reason))
	return Result{
		Fields: Fields{
			Title:       Truncate(text),
			Description: text,
			Labels:      []string{DefaultPriority},
			Priority:    DefaultPriority,
		},
		Fallback: true,
		Reason:   reason,
	}
}

// Truncate shortens s to MaxTitleLength characters plus a marker.
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxTitleLength {
		return s
	}
	return string(runes[:MaxTitleLength]) + TruncationMark
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func labelsField(raw map[string]any) []string {
	labels := []string{}
	switch v := raw["labels"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				labels = append(labels, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				labels = append(labels, s)
			}
		}
	}
	return labels
}
