package log

// Structured logging for the service
// File core receives everything (logs/app.log), console core only SUCCESS/ERROR lines
// Loggers stay no-op until Init is called, so packages and tests can log freely

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var Logger = zap.NewNop()
var consoleLogger = zap.NewNop()

var initMu sync.Mutex

// Options controls where and how verbosely Init writes.
type Options struct {
	Dir   string // logs directory, "logs" when empty
	Debug bool   // write DEBUG entries to the file core
}

// Init builds the file and console loggers. Safe to call more than once; the last call wins.
func Init(opts Options) error {
	initMu.Lock()
	defer initMu.Unlock()

	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileLevel := zapcore.InfoLevel
	if opts.Debug {
		fileLevel = zapcore.DebugLevel
	}

	fileConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	fileCore := zapcore.NewCore(
		&fieldsJSONEncoder{Encoder: zapcore.NewConsoleEncoder(fileConfig)},
		getLogFileWriter(filepath.Join(dir, "app.log")),
		fileLevel,
	)

	consoleConfig := zap.NewDevelopmentConfig()
	consoleConfig.EncoderConfig.EncodeLevel = customLevelEncoder
	consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncoderConfig.EncodeCaller = nil
	consoleConfig.Development = false
	consoleConfig.DisableStacktrace = true
	consoleConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	console, err := consoleConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to build console logger: %w", err)
	}

	Logger = zap.New(fileCore)
	consoleLogger = console
	return nil
}

// Sync flushes both cores.
func Sync() {
	_ = Logger.Sync()
	_ = consoleLogger.Sync()
}

// GenerateRequestID returns a random id used to correlate request/response log lines.
func GenerateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// LogRequest writes an outbound HTTP request line (file only).
func LogRequest(requestID, method, endpoint string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	}, fields...)
	Logger.Info("HTTP request", allFields...)
}

// LogResponse writes an upstream response line; non-2xx also goes to the console.
func LogResponse(requestID string, statusCode int, durationMs int64, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", durationMs),
	}, fields...)

	if statusCode >= 200 && statusCode < 300 {
		Logger.Info("HTTP response", allFields...)
		return
	}

	Logger.Error("HTTP response", allFields...)
	if endpoint := endpointField(fields); endpoint != "" {
		consoleLogger.Error(fmt.Sprintf("✗ HTTP request failed [%d] %s", statusCode, endpoint))
	} else {
		consoleLogger.Error(fmt.Sprintf("✗ HTTP request failed [%d]", statusCode))
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "SUCCESS" + colorReset) // console INFO is only used by LogSuccess
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		enc.AppendString(colorRed + level.CapitalString() + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

func LogInfo(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
}

// LogSuccess writes to the file and prints a check-marked line to the console.
func LogSuccess(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
	if ms := durationField(fields); ms > 0 {
		consoleLogger.Info(fmt.Sprintf("✓ %s (%dms)", message, ms))
	} else {
		consoleLogger.Info("✓ " + message)
	}
}

// LogError writes to the file and prints a cross-marked line to the console.
func LogError(message string, fields ...zap.Field) {
	Logger.Error(message, fields...)
	if ms := durationField(fields); ms > 0 {
		consoleLogger.Error(fmt.Sprintf("✗ %s (%dms)", message, ms))
	} else {
		consoleLogger.Error("✗ " + message)
	}
}

func LogWarn(message string, fields ...zap.Field) {
	Logger.Warn(message, fields...)
}

func LogDebug(message string, fields ...zap.Field) {
	Logger.Debug(message, fields...)
}

func durationField(fields []zap.Field) int64 {
	for _, field := range fields {
		if field.Key == "duration_ms" && field.Type == zapcore.Int64Type {
			return field.Integer
		}
	}
	return 0
}

func endpointField(fields []zap.Field) string {
	for _, field := range fields {
		if field.Key == "endpoint" {
			return field.String
		}
	}
	return ""
}

// MaxLogFileSize caps app.log; the file is truncated once it grows past this.
const MaxLogFileSize = 50 * 1024 * 1024

type truncatingLogWriter struct {
	mu   sync.Mutex
	file *os.File
	path string
}

func (w *truncatingLogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if info, err := w.file.Stat(); err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()
		f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
		w.file = f
	}
	return w.file.Write(p)
}

func (w *truncatingLogWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

func getLogFileWriter(path string) zapcore.WriteSyncer {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v, falling back to stderr\n", path, err)
		return zapcore.AddSync(os.Stderr)
	}
	return &truncatingLogWriter{file: file, path: path}
}

// fieldsJSONEncoder renders "time     LEVEL message\t{json fields}".
type fieldsJSONEncoder struct {
	zapcore.Encoder
}

func (e *fieldsJSONEncoder) Clone() zapcore.Encoder {
	return &fieldsJSONEncoder{Encoder: e.Encoder.Clone()}
}

func (e *fieldsJSONEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := buffer.NewPool().Get()

	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")
	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")
	buf.AppendString(entry.Message)

	if len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, field := range fields {
			field.AddTo(enc)
		}
		if data, err := json.Marshal(enc.Fields); err == nil {
			buf.AppendString("\t")
			buf.AppendString(string(data))
		}
	}

	buf.AppendString("\n")
	return buf, nil
}
