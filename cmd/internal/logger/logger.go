package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger 는 애플리케이션 전역에서 사용하는 최소 로거 인터페이스다.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields 는 구조화 로그를 위한 공통 필드 타입이다.
type Fields map[string]any

// Log 는 전역 로거 인스턴스다.
// Init 이 호출되지 않더라도 기본 info 레벨로 동작하도록 초기화한다.
var Log Logger = NewLogger("info")

var runID string

// Init 은 로그 레벨을 정한다. envKey 환경변수가 설정되어 있으면 그 값이 level 보다 우선한다.
func Init(envKey, level string) {
	if v := strings.ToLower(os.Getenv(envKey)); v != "" {
		level = v
	}
	if level == "" {
		level = "info"
	}
	Log = NewLogger(level)
}

// SetRunID 는 이후 모든 *WithFields 로그에 run_id 필드를 붙인다.
func SetRunID(id string) {
	runID = id
}

// NewLogger 는 주어진 레벨로 gookit/slog 기반 로거를 생성한다.
func NewLogger(level string) Logger {
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h)
}

func withRunID(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["run_id"]; !ok && runID != "" {
		fields["run_id"] = runID
	}
	return fields
}

// InfoWithFields 는 run_id 등 구조화 필드를 포함한 JSON 로그를 출력한다.
func InfoWithFields(msg string, fields Fields) {
	fields = withRunID(fields)
	if lg, ok := Log.(*slog.Logger); ok {
		lg.WithFields(slog.M(fields)).Info(msg)
		return
	}
	Log.Info(msg)
}

func DebugWithFields(msg string, fields Fields) {
	fields = withRunID(fields)
	if lg, ok := Log.(*slog.Logger); ok {
		lg.WithFields(slog.M(fields)).Debug(msg)
		return
	}
	Log.Debug(msg)
}

func WarnWithFields(msg string, fields Fields) {
	fields = withRunID(fields)
	if lg, ok := Log.(*slog.Logger); ok {
		lg.WithFields(slog.M(fields)).Warn(msg)
		return
	}
	Log.Warn(msg)
}

func ErrorWithFields(msg string, fields Fields) {
	fields = withRunID(fields)
	if lg, ok := Log.(*slog.Logger); ok {
		lg.WithFields(slog.M(fields)).Error(msg)
		return
	}
	Log.Error(msg)
}
