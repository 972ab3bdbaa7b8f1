package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warn, error, dpanic, panic, fatal.
	Level string
	// Format is json or console.
	Format string
	// Output is stdout, stderr or file.
	Output string
	// FilePath is used when Output is file.
	FilePath string
	// Development enables caller info and colored console levels.
	Development bool
}

// NewZapLogger builds a zap logger from config.
func NewZapLogger(config Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	switch config.Level {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "info":
		level.SetLevel(zapcore.InfoLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	case "dpanic":
		level.SetLevel(zapcore.DPanicLevel)
	case "panic":
		level.SetLevel(zapcore.PanicLevel)
	case "fatal":
		level.SetLevel(zapcore.FatalLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}

	var encoder zapcore.Encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.LevelKey = "log.level"
	encoderConfig.MessageKey = "message"
	encoderConfig.CallerKey = "caller"

	if config.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if config.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var writeSyncer zapcore.WriteSyncer
	switch config.Output {
	case "stderr":
		writeSyncer = zapcore.AddSync(os.Stderr)
	case "file":
		if config.FilePath == "" {
			writeSyncer = zapcore.AddSync(os.Stdout)
		} else {
			file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return nil, err
			}
			writeSyncer = zapcore.AddSync(file)
		}
	default:
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	logger := zap.New(core)

	if config.Development {
		logger = logger.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	}

	logger = logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))

	return logger, nil
}
