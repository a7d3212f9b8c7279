package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/ai"
	"github.com/spigell/cv-parser/internal/cv"
	"github.com/spigell/cv-parser/internal/document"
)

// ErrFileTooLarge is returned for uploads above the configured limit.
var ErrFileTooLarge = errors.New("file too large")

// DefaultMaxBytes is the upload limit used when none is configured.
const DefaultMaxBytes = 10 << 20

// Stage is a single step of the processing pipeline.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, deps Deps, job *Job) (Step, error)
}

// Deps aggregates dependencies shared across all stages.
type Deps struct {
	Logger     *zap.Logger
	Extractor  ai.Extractor
	Normalizer *cv.Normalizer
}

// Job carries one CV through the stages.
type Job struct {
	Filename string
	Data     []byte

	Text   string
	Draft  *cv.EmployeeRecord
	Record *cv.EmployeeRecord
}

// Step describes what a stage produced, for logging.
type Step struct {
	Details []zap.Field
}

type recorder interface {
	Stage(stage string, d time.Duration)
	SkillsExtracted(n int)
}

type Config struct {
	MaxBytes int64
}

// Processor turns an uploaded document into a finalized EmployeeRecord.
type Processor struct {
	deps     Deps
	maxBytes int64
	metrics  recorder
}

func New(cfg Config, extractor ai.Extractor, normalizer *cv.Normalizer, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = cv.NewNormalizer()
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &Processor{
		deps: Deps{
			Logger:     logger,
			Extractor:  extractor,
			Normalizer: normalizer,
		},
		maxBytes: maxBytes,
	}
}

// WithMetrics observes stage durations and skill counts in r.
func (p *Processor) WithMetrics(r recorder) *Processor {
	p.metrics = r
	return p
}

// MaxBytes reports the upload limit.
func (p *Processor) MaxBytes() int64 {
	return p.maxBytes
}

// Process runs text extraction, model extraction and normalization.
func (p *Processor) Process(ctx context.Context, filename string, data []byte) (*cv.EmployeeRecord, error) {
	job := &Job{Filename: filename, Data: data}
	if err := p.run(ctx, job, DefaultStages()); err != nil {
		return nil, err
	}
	return job.Record, nil
}

// ProcessDraft normalizes a draft that was produced elsewhere against the
// text of the document, skipping the model.
func (p *Processor) ProcessDraft(ctx context.Context, filename string, data []byte, draft *cv.EmployeeRecord) (*cv.EmployeeRecord, error) {
	stages := DefaultStages()
	DisableByName(stages, StageExtractDraft, "draft supplied")

	job := &Job{Filename: filename, Data: data, Draft: draft}
	if err := p.run(ctx, job, stages); err != nil {
		return nil, err
	}
	return job.Record, nil
}

func (p *Processor) run(ctx context.Context, job *Job, stages []Stage) error {
	if int64(len(job.Data)) > p.maxBytes {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrFileTooLarge, len(job.Data), p.maxBytes)
	}

	log := p.deps.Logger.With(zap.String("filename", job.Filename))
	deps := p.deps
	deps.Logger = log

	for _, stage := range stages {
		if !stage.IsEnabled() {
			log.Info("stage disabled", zap.String("name", stage.Name()))
			continue
		}

		started := time.Now()
		info, err := stage.Apply(ctx, deps, job)
		elapsed := time.Since(started)

		if p.metrics != nil {
			p.metrics.Stage(stage.Name(), elapsed)
		}

		if err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}

		fields := append([]zap.Field{
			zap.String("name", stage.Name()),
			zap.Duration("took", elapsed),
		}, info.Details...)
		log.Info("processing stage", fields...)
	}

	if job.Record == nil {
		return errors.New("pipeline finished without a record")
	}

	if p.metrics != nil {
		p.metrics.SkillsExtracted(len(job.Record.AllSkills))
	}

	return nil
}

// IsClientError reports whether err was caused by the uploaded document or
// by a malformed draft rather than by the service.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrFileTooLarge,
		cv.ErrInvalidDraft,
		document.ErrUnsupportedFormat,
		document.ErrUnreadable,
		document.ErrEmptyDocument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
