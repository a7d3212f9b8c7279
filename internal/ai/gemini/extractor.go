package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/cv"
	"github.com/spigell/cv-parser/internal/logger"
)

const (
	provider            = "gemini"
	DefaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

// Extractor asks Gemini for a draft EmployeeRecord and decodes the answer
// against the draft schema.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = DefaultMaxLogLength
	}

	return &Extractor{
		generator: generator,
		logger:    logger.WithCommonFields(log, provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (e *Extractor) Extract(ctx context.Context, cvText string) (*cv.EmployeeRecord, error) {
	if strings.TrimSpace(cvText) == "" {
		return nil, errors.New("cv text is required")
	}

	prompt := buildPrompt(cvText)

	e.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("cv_preview", logger.TruncateForLog(cvText, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	draft, err := cv.DecodeDraft([]byte(extractJSON(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return draft, nil
}

func buildPrompt(cvText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Schema:\n{{FORMAT_INSTRUCTIONS}}\n\nCV:\n{{CV_TEXT}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{FORMAT_INSTRUCTIONS}}", cv.DraftSchema())
	// the CV goes in last so a literal placeholder inside it is left alone
	prompt = strings.ReplaceAll(prompt, "{{CV_TEXT}}", cvText)
	return prompt
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// tolerate prose around the object
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start > 0 && end > start {
		raw = raw[start : end+1]
	}
	return raw
}
