package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response string
	err      error
	panics   bool
	prompt   string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.panics {
		panic("boom")
	}
	return s.response, s.err
}

func TestProcessParsesModelResponse(t *testing.T) {
	gen := &stubGenerator{response: "Sure! Here it is:\n```json\n" + `{
		"title": "XYZ Corp paper recycling",
		"description": "Paper waste recycling, 3000 lbs",
		"labels": ["paper", "service request"],
		"due_date": "2026-01-30",
		"priority": "High"
	}` + "\n```"}

	res := New(gen).Process(context.Background(), "Service request from XYZ Corp")

	assert.False(t, res.Fallback)
	assert.NoError(t, res.Reason)
	assert.Equal(t, "XYZ Corp paper recycling", res.Fields.Title)
	assert.Equal(t, "Paper waste recycling, 3000 lbs", res.Fields.Description)
	assert.Equal(t, []string{"paper", "service request", "high"}, res.Fields.Labels)
	require.NotNil(t, res.Fields.DueDate)
	assert.Equal(t, "2026-01-30", *res.Fields.DueDate)
	assert.Equal(t, "high", res.Fields.Priority)
	assert.Contains(t, gen.prompt, "Text to analyze: Service request from XYZ Corp")
}

func TestProcessFillsMissingFields(t *testing.T) {
	text := "Metal recycling request from DEF Industries"
	gen := &stubGenerator{response: `{"labels": [], "due_date": null}`}

	res := New(gen).Process(context.Background(), text)

	assert.False(t, res.Fallback)
	assert.Equal(t, text, res.Fields.Title)
	assert.Equal(t, text, res.Fields.Description)
	assert.Equal(t, "medium", res.Fields.Priority)
	assert.Equal(t, []string{"medium"}, res.Fields.Labels)
	assert.Nil(t, res.Fields.DueDate)
}

func TestProcessDoesNotDuplicatePriorityLabel(t *testing.T) {
	gen := &stubGenerator{response: `{"title": "t", "labels": ["low", "glass"], "priority": "low"}`}

	res := New(gen).Process(context.Background(), "text")

	assert.Equal(t, []string{"low", "glass"}, res.Fields.Labels)
}

func TestProcessNormalizesInvalidValues(t *testing.T) {
	gen := &stubGenerator{response: `{"title": "t", "priority": "urgent!!", "due_date": "Jan 30"}`}

	res := New(gen).Process(context.Background(), "text")

	assert.Equal(t, "medium", res.Fields.Priority)
	assert.Nil(t, res.Fields.DueDate)
}

func TestProcessFallsBack(t *testing.T) {
	text := "Urgent: New supplier ABC Recycling needs profile research"

	tests := []struct {
		name   string
		gen    Generator
		reason error
	}{
		{"generator error", &stubGenerator{err: errors.New("quota exceeded")}, nil},
		{"plain text", &stubGenerator{response: "I cannot help with that."}, ErrNoJSON},
		{"empty", &stubGenerator{response: "  \n"}, ErrEmptyResponse},
		{"broken json", &stubGenerator{response: `{"title": "x",`}, ErrNoJSON},
		{"two objects", &stubGenerator{response: `{"title": "a"} and {"title": "b"}`}, ErrNoJSON},
		{"panic", &stubGenerator{panics: true}, nil},
		{"no generator", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res Result
			require.NotPanics(t, func() {
				res = New(tt.gen).Process(context.Background(), text)
			})

			assert.True(t, res.Fallback)
			require.Error(t, res.Reason)
			if tt.reason != nil {
				assert.ErrorIs(t, res.Reason, tt.reason)
			}
			assert.Equal(t, Fields{
				Title:       text,
				Description: text,
				Labels:      []string{"medium"},
				Priority:    "medium",
			}, res.Fields)
		})
	}
}

func TestTruncate(t *testing.T) {
	short := strings.Repeat("a", MaxTitleLength)
	assert.Equal(t, short, Truncate(short))

	long := strings.Repeat("b", MaxTitleLength+25)
	got := Truncate(long)
	assert.LessOrEqual(t, len([]rune(got)), MaxTitleLength+len(TruncationMark))
	assert.True(t, strings.HasSuffix(got, TruncationMark))

	accented := strings.Repeat("é", MaxTitleLength+1)
	assert.Equal(t, strings.Repeat("é", MaxTitleLength)+TruncationMark, Truncate(accented))
}

func TestLongInputTitleIsTruncatedOnFallback(t *testing.T) {
	text := strings.Repeat("x", 150)

	res := New(&stubGenerator{err: errors.New("down")}).Process(context.Background(), text)

	assert.Len(t, res.Fields.Title, 103)
	assert.True(t, strings.HasSuffix(res.Fields.Title, "..."))
	assert.Equal(t, text, res.Fields.Description)
}

func TestLongModelTitleIsTruncated(t *testing.T) {
	gen := &stubGenerator{response: `{"title": "` + strings.Repeat("t", 120) + `"}`}

	res := New(gen).Process(context.Background(), "short")

	assert.Equal(t, strings.Repeat("t", 100)+"...", res.Fields.Title)
}

func TestPriorityLabelMatchesCaseInsensitively(t *testing.T) {
	gen := &stubGenerator{response: `{"title": "t", "labels": ["Medium", "paper"], "priority": "Medium"}`}

	res := New(gen).Process(context.Background(), "text")

	assert.Equal(t, "medium", res.Fields.Priority)
	assert.Equal(t, []string{"Medium", "paper"}, res.Fields.Labels)
}
