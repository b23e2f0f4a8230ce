package internal

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"payrelay/services"
)

// LogMessage is the record shape written to the database log collection.
type LogMessage struct {
	Time   time.Time `json:"time" bson:"time"`
	Level  string    `json:"level" bson:"level"`
	Module string    `json:"module" bson:"module"`
	Text   string    `json:"text" bson:"text"`
	Error  string    `json:"error,omitempty" bson:"error,omitempty"`
}

func (m *LogMessage) DataType() string {
	return "log"
}

// Logger implements services.LogHandler on top of zap, one instance per
// module. When a database sink is set, info and above are also written to
// the payment log collection.
type Logger struct {
	module   string
	debug    bool
	sugar    *zap.SugaredLogger
	database services.Database
}

func NewLogger(module string, debug bool, database services.Database) *Logger {
	conf := zap.NewProductionConfig()
	conf.Encoding = "console"
	conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		conf.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zl, err := conf.Build()
	if err != nil {
		zl = zap.NewNop()
	}
	return &Logger{
		module:   module,
		debug:    debug,
		sugar:    zl.Sugar().Named(module),
		database: database,
	}
}

func (l *Logger) Debug(message string) {
	if !l.debug {
		return
	}
	l.sugar.Debug(message)
}

func (l *Logger) Info(message string) {
	l.sugar.Info(message)
	l.write("info", message, "")
}

func (l *Logger) Warn(message string) {
	l.sugar.Warn(message)
	l.write("warn", message, "")
}

func (l *Logger) Error(message string, err error) {
	text := ""
	if err != nil {
		text = err.Error()
	}
	l.sugar.Errorw(message, "error", text)
	l.write("error", message, text)
}

func (l *Logger) write(level, text, errText string) {
	if l.database == nil {
		return
	}
	record := &LogMessage{
		Time:   time.Now(),
		Level:  level,
		Module: l.module,
		Text:   text,
		Error:  errText,
	}
	if err := l.database.WriteLogMessage(record); err != nil {
		l.sugar.Warnw("write log message", "error", err.Error())
	}
}
