package logger

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapLogger keeps everything it logs in memory so the demo page can show the
// log of the last hull build. An optional rotating file receives a copy.
type ZapLogger struct {
	log    *zap.Logger
	mu     *sync.Mutex
	logBuf *bytes.Buffer
	file   *lumberjack.Logger
}

type options struct {
	level    zapcore.Level
	filename string
	color    bool
	console  io.Writer
	buffered bool
}

type Option func(*options)

// WithLevel sets the minimum level written to every sink.
func WithLevel(level zapcore.Level) Option {
	return func(o *options) { o.level = level }
}

// WithFile tees the log into a size-rotated file.
func WithFile(filename string) Option {
	return func(o *options) { o.filename = filename }
}

// WithConsole tees the log to w, usually os.Stderr.
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithoutBuffer stops keeping the log in memory. HTML and String return
// nothing then.
func WithoutBuffer() Option {
	return func(o *options) { o.buffered = false }
}

// WithoutColor drops the ANSI level colors.
func WithoutColor() Option {
	return func(o *options) { o.color = false }
}

func New(opts ...Option) *ZapLogger {
	o := options{level: zap.DebugLevel, color: true, buffered: true}
	for _, opt := range opts {
		opt(&o)
	}

	logBuf := &bytes.Buffer{}
	mu := &sync.Mutex{}

	config := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    colorLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if !o.color {
		config.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	encoder := zapcore.NewConsoleEncoder(config)
	var cores []zapcore.Core
	if o.buffered {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(&lockedBuffer{mu: mu, buf: logBuf}), o.level))
	}
	if o.console != nil {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(o.console)), o.level))
	}

	var file *lumberjack.Logger
	if o.filename != "" {
		file = &lumberjack.Logger{
			Filename:   o.filename,
			MaxSize:    16,
			MaxBackups: 3,
			Compress:   true,
		}
		fileConfig := config
		fileConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(fileConfig), zapcore.AddSync(file), o.level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))

	return &ZapLogger{
		log:    logger,
		mu:     mu,
		logBuf: logBuf,
		file:   file,
	}
}

// Nop returns a logger that discards everything.
func Nop() *ZapLogger {
	return &ZapLogger{
		log:    zap.NewNop(),
		mu:     &sync.Mutex{},
		logBuf: &bytes.Buffer{},
	}
}

type lockedBuffer struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("[2006-01-02 | 15:04:05]"))
}

func colorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var colorCode string
	switch level {
	case zapcore.DebugLevel:
		colorCode = "\033[36m" // Cyan
	case zapcore.InfoLevel:
		colorCode = "\033[32m" // Green
	case zapcore.WarnLevel:
		colorCode = "\033[33m" // Yellow
	case zapcore.ErrorLevel:
		colorCode = "\033[31m" // Red
	default:
		colorCode = "\033[0m" // Default
	}
	enc.AppendString(colorCode + level.String() + "\033[0m")
}

var ansiRe = regexp.MustCompile(`\033\[(\d+)m`)

// Converts ANSI color codes to HTML span with inline styles
func ansiToHTML(input string) string {
	var result strings.Builder
	var lastIndex int
	open := false

	result.WriteString("<pre>")

	for _, match := range ansiRe.FindAllStringIndex(input, -1) {
		start, end := match[0], match[1]

		if start > lastIndex {
			result.WriteString(escapeHTML(input[lastIndex:start]))
		}

		colorCode := input[start+2 : end-1]
		if color, ok := colorMap[colorCode]; ok {
			if open {
				result.WriteString("</span>")
			}
			result.WriteString(`<span style="color: ` + color + `;">`)
			open = true
		} else if colorCode == "0" && open {
			result.WriteString("</span>")
			open = false
		}

		lastIndex = end
	}

	if lastIndex < len(input) {
		result.WriteString(escapeHTML(input[lastIndex:]))
	}
	if open {
		result.WriteString("</span>")
	}

	result.WriteString("</pre>")
	return result.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

// Color mapping for ANSI codes
var colorMap = map[string]string{
	"31": "red",
	"32": "green",
	"33": "yellow",
	"34": "blue",
	"36": "cyan",
}

// HTML renders everything logged since the last ClearLogs.
func (z *ZapLogger) HTML() string {
	z.mu.Lock()
	defer z.mu.Unlock()
	return ansiToHTML(z.logBuf.String())
}

// String returns the raw buffered log.
func (z *ZapLogger) String() string {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.logBuf.String()
}

func (z *ZapLogger) ClearLogs() {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.logBuf.Reset()
}

// With returns a child logger sharing the same sinks.
func (z *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{
		log:    z.log.With(fields...),
		mu:     z.mu,
		logBuf: z.logBuf,
		file:   z.file,
	}
}

func (z *ZapLogger) Zap() *zap.Logger { return z.log }

func (z *ZapLogger) Info(wrappedMsg string, fields ...zap.Field) {
	z.log.Info(wrappedMsg, fields...)
}

func (z *ZapLogger) Debug(wrappedMsg string, fields ...zap.Field) {
	z.log.Debug(wrappedMsg, fields...)
}

func (z *ZapLogger) Warn(wrappedMsg string, fields ...zap.Field) {
	z.log.Warn(wrappedMsg, fields...)
}

func (z *ZapLogger) Error(wrappedMsg string, fields ...zap.Field) {
	z.log.Error(wrappedMsg, fields...)
}

func (z *ZapLogger) Fatal(wrappedMsg string, fields ...zap.Field) {
	z.log.Fatal(wrappedMsg, fields...)
}

// Sync flushes zap and closes the log file, if any.
func (z *ZapLogger) Sync() error {
	err := z.log.Sync()
	if z.file != nil {
		if cerr := z.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
