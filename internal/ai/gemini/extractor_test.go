package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-parser/internal/cv"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

const draftJSON = `{
  "fullName": "Jane Doe",
  "email": "jane@example.com",
  "employeeId": "E-1",
  "allSkills": [
    {"name": " Python ", "mentions": 1, "category": "technical"},
    {"name": "Docker"}
  ],
  "workExperience": [
    {"company": "Acme", "position": "Engineer", "startDate": "2020-01-01", "endDate": "Present"}
  ],
  "education": "BSc, Uni (2019)"
}`

func TestExtractorExtract(t *testing.T) {
	stub := &stubGenerator{response: draftJSON}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	draft, err := extractor.Extract(context.Background(), "Jane Doe\nPython, Docker")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", draft.FullName)
	require.Len(t, draft.AllSkills, 2)
	assert.Equal(t, cv.Skill{Name: "Python", Mentions: 1, Category: cv.CategoryTechnical}, draft.AllSkills[0])
	assert.Equal(t, cv.Skill{Name: "Docker", Mentions: 1, Category: cv.CategoryTechnical}, draft.AllSkills[1])
	require.Len(t, draft.WorkExperience, 1)
	assert.Equal(t, "Present", draft.WorkExperience[0].EndDate)
	assert.Equal(t, "BSc, Uni (2019)", draft.Education)

	assert.Contains(t, stub.lastPrompt, "Jane Doe\nPython, Docker")
	assert.Contains(t, stub.lastPrompt, `"fullName"`)
	assert.NotContains(t, stub.lastPrompt, "{{CV_TEXT}}")
	assert.NotContains(t, stub.lastPrompt, "{{FORMAT_INSTRUCTIONS}}")
}

func TestExtractorAcceptsFencedResponse(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + draftJSON + "\n```"}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	draft, err := extractor.Extract(context.Background(), "cv")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", draft.FullName)
}

func TestExtractorRejectsMalformedDraft(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "I cannot help with that"},
		{name: "missing full name", response: `{"email": "a@b.c"}`},
		{name: "skill without name", response: `{"fullName": "A", "allSkills": [{"mentions": 1}]}`},
		{name: "experience without dates", response: `{"fullName": "A", "workExperience": [{"company": "X", "position": "Y"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewExtractor(&stubGenerator{response: tt.response}, zap.NewNop(), 0)

			_, err := extractor.Extract(context.Background(), "cv")
			require.Error(t, err)
			assert.True(t, errors.Is(err, cv.ErrInvalidDraft), "expected invalid draft, got %v", err)
		})
	}
}

func TestExtractorPropagatesGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	extractor := NewExtractor(&stubGenerator{err: boom}, zap.NewNop(), 0)

	_, err := extractor.Extract(context.Background(), "cv")
	assert.ErrorIs(t, err, boom)
}

func TestExtractorRequiresText(t *testing.T) {
	stub := &stubGenerator{response: draftJSON}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	_, err := extractor.Extract(context.Background(), " \n ")
	require.Error(t, err)
	assert.Empty(t, stub.lastPrompt)
}

func TestExtractorLogsTruncatedPreviews(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: draftJSON}
	extractor := NewExtractor(stub, zap.New(core), 5)

	_, err := extractor.Extract(context.Background(), strings.Repeat("x", 50))
	require.NoError(t, err)

	requests := observed.FilterMessage("gemini generate content request").All()
	require.Len(t, requests, 1)
	fields := requests[0].ContextMap()
	assert.Equal(t, "xxxxx...", fields["cv_preview"])
	assert.Equal(t, "gemini", fields["ai_provider"])
	assert.Equal(t, "stub-model", fields["ai_model"])

	assert.Len(t, observed.FilterMessage("gemini generate content response").All(), 1)
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced json", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fenced", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around", input: "Here it is: {\"a\":1} done", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extractJSON(tt.input))
		})
	}
}
