package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// FieldService is the structured log field key for the command that emits entries.
	FieldService = "service"
	// FieldVersion is the structured log field key for the build version.
	FieldVersion = "version"
)

// Options selects the encoder and the fields attached to every entry.
type Options struct {
	JSON    bool
	Debug   bool
	Service string
	Version string
}

// New builds the service logger. Entries go to stderr so that commands can
// print records on stdout.
func New(opts Options) (*zap.Logger, error) {
	logger, err := config(opts).Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

func config(opts Options) zap.Config {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	encoder := zapcore.EncoderConfig{
		MessageKey:    "step",
		LevelKey:      "level",
		TimeKey:       "time",
		NameKey:       "logger",
		StacktraceKey: "stacktrace",
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeTime:    zapcore.RFC3339TimeEncoder,
		EncodeName:    zapcore.FullNameEncoder,
	}

	encoding := "console"
	if opts.JSON {
		encoding = "json"
		encoder.EncodeDuration = zapcore.MillisDurationEncoder
	} else {
		encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder.EncodeDuration = zapcore.StringDurationEncoder
	}

	// callers only help while debugging
	if opts.Debug {
		encoder.CallerKey = "caller"
		encoder.EncodeCaller = zapcore.ShortCallerEncoder
	}

	initial := map[string]any{}
	for _, f := range StringFields(
		StringField{Key: FieldService, Value: opts.Service},
		StringField{Key: FieldVersion, Value: opts.Version},
	) {
		initial[f.Key] = f.String
	}

	return zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(level),
		Development:       opts.Debug,
		DisableStacktrace: !opts.Debug,
		DisableCaller:     !opts.Debug,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     initial,
		EncoderConfig:     encoder,
	}
}
