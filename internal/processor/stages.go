package processor

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/document"
)

const (
	StageExtractText  = "extract_text"
	StageExtractDraft = "extract_draft"
	StageNormalize    = "normalize"
)

// DefaultStages returns a fresh pipeline in execution order.
func DefaultStages() []Stage {
	return []Stage{
		&extractTextStage{},
		&extractDraftStage{},
		&normalizeStage{},
	}
}

// DisableByName marks the stage with the provided name as disabled while keeping it in the list.
func DisableByName(stages []Stage, name, reason string) {
	for _, stage := range stages {
		if stage.Name() == name {
			stage.Disable(reason)
		}
	}
}

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type extractTextStage struct{ toggle }

func (s *extractTextStage) Name() string { return StageExtractText }

func (s *extractTextStage) Apply(_ context.Context, _ Deps, job *Job) (Step, error) {
	text, err := document.ExtractText(job.Filename, job.Data)
	if err != nil {
		return Step{}, err
	}
	job.Text = text

	return Step{Details: []zap.Field{
		zap.Int("bytes", len(job.Data)),
		zap.Int("characters", utf8.RuneCountInString(text)),
	}}, nil
}

type extractDraftStage struct{ toggle }

func (s *extractDraftStage) Name() string { return StageExtractDraft }

func (s *extractDraftStage) Apply(ctx context.Context, deps Deps, job *Job) (Step, error) {
	if deps.Extractor == nil {
		return Step{}, errors.New("extractor is not configured")
	}

	draft, err := deps.Extractor.Extract(ctx, job.Text)
	if err != nil {
		return Step{}, err
	}
	if draft == nil {
		return Step{}, errors.New("extractor returned no draft")
	}
	job.Draft = draft

	return Step{Details: []zap.Field{
		zap.Int("skills", len(draft.AllSkills)),
		zap.Int("jobs", len(draft.WorkExperience)),
	}}, nil
}

type normalizeStage struct{ toggle }

func (s *normalizeStage) Name() string { return StageNormalize }

func (s *normalizeStage) Apply(_ context.Context, deps Deps, job *Job) (Step, error) {
	record, err := deps.Normalizer.Normalize(job.Text, job.Draft)
	if err != nil {
		return Step{}, err
	}
	job.Record = record

	return Step{Details: []zap.Field{
		zap.Int("skills", len(record.AllSkills)),
		zap.Float64("experience_years", record.ExperienceYears),
		zap.String("primary_skill", record.PrimarySkill),
		zap.String("secondary_skill", record.SecondarySkill),
	}}, nil
}
