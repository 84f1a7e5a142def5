package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// 未调用 InitLog 时（例如单元测试）使用默认 logger
var logger = log.NewWithOptions(os.Stdout, log.Options{Level: log.InfoLevel})

func InitLog(appName string, logLevel string) {
	InitLogWithWriter(os.Stdout, appName, logLevel)
}

// InitLogWithWriter 使用 os.Stdout 而不是 os.Stderr，
// GoLand 控制台会将 stderr 显示为红色
func InitLogWithWriter(w io.Writer, appName string, logLevel string) {
	l := log.New(w)
	l.SetPrefix(appName)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)

	// 启用调用者信息（显示文件名和行号）
	l.SetReportCaller(true)
	l.SetCallerOffset(1)
	l.SetLevel(parseLevel(logLevel))
	logger = l
}

// SetLevel 热更新日志级别
func SetLevel(logLevel string) {
	logger.SetLevel(parseLevel(logLevel))
}

func parseLevel(logLevel string) log.Level {
	// 默认为 info 级别
	switch strings.ToLower(logLevel) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// 以下包装按 printf 约定转发，无参数时按原文输出，避免把消息当作格式串
func Fatal(format string, args ...any) {
	if len(args) == 0 {
		logger.Fatal(format)
		return
	}
	logger.Fatalf(format, args...)
}

func Info(format string, args ...any) {
	if len(args) == 0 {
		logger.Info(format)
		return
	}
	logger.Infof(format, args...)
}

func Warn(format string, args ...any) {
	if len(args) == 0 {
		logger.Warn(format)
		return
	}
	logger.Warnf(format, args...)
}

func Error(format string, args ...any) {
	if len(args) == 0 {
		logger.Error(format)
		return
	}
	logger.Errorf(format, args...)
}

func Debug(format string, args ...any) {
	if len(args) == 0 {
		logger.Debug(format)
		return
	}
	logger.Debugf(format, args...)
}
