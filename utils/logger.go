package utils

import (
	"log"
	"os"
)

type Log interface {
	Debug(a ...interface{})
	Info(a ...interface{})
	Warn(a ...interface{})
	Error(a ...interface{})
	Output(a ...interface{})
}

// NullLog is a logger that does nothing
type NullLog struct {
}

func (nl *NullLog) Debug(...interface{}) {
}

func (nl *NullLog) Info(...interface{}) {
}

func (nl *NullLog) Warn(...interface{}) {
}

func (nl *NullLog) Error(...interface{}) {
}

func (nl *NullLog) Output(...interface{}) {
}

type LevelType int

const (
	ERROR LevelType = iota
	WARN
	INFO
	DEBUG
)

// NewDefaultLogger creates a leveled logger writing human-readable output to
// stderr, with plain program output on stdout.
func NewDefaultLogger(logLevel LevelType) *defaultLogger {
	return &defaultLogger{
		logLevel:  logLevel,
		outputLog: log.New(os.Stdout, "", 0),
		debugLog:  log.New(os.Stderr, "[Debug] ", 0),
		infoLog:   log.New(os.Stderr, "[Info] ", 0),
		warnLog:   log.New(os.Stderr, "[Warn] ", 0),
		errorLog:  log.New(os.Stderr, "[Error] ", 0),
	}
}

type defaultLogger struct {
	logLevel  LevelType
	outputLog *log.Logger
	debugLog  *log.Logger
	infoLog   *log.Logger
	warnLog   *log.Logger
	errorLog  *log.Logger
}

func (dl *defaultLogger) Debug(a ...interface{}) {
	if dl.logLevel >= DEBUG {
		dl.debugLog.Println(a...)
	}
}

func (dl *defaultLogger) Info(a ...interface{}) {
	if dl.logLevel >= INFO {
		dl.infoLog.Println(a...)
	}
}

func (dl *defaultLogger) Warn(a ...interface{}) {
	if dl.logLevel >= WARN {
		dl.warnLog.Println(a...)
	}
}

func (dl *defaultLogger) Error(a ...interface{}) {
	if dl.logLevel >= ERROR {
		dl.errorLog.Println(a...)
	}
}

func (dl *defaultLogger) Output(a ...interface{}) {
	dl.outputLog.Println(a...)
}
