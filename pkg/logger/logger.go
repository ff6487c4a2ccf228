package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOption 描述日志初始化参数，由上层配置转换而来。
type LogOption struct {
	Format   string // 日志格式，支持 "console" 或 "json"
	LogDir   string // 日志目录，为空时仅输出到 stderr
	Level    string // 日志级别：debug / info / warn / error
	Compress bool   // 是否压缩旧日志文件
}

var (
	once sync.Once
	log  = zap.NewNop().Sugar() // 未初始化时静默，库内日志不应干扰调用方
)

// Init 初始化全局 logger。重复调用仅第一次生效。
func Init(opt LogOption) {
	once.Do(func() {
		level := zapcore.InfoLevel
		switch strings.ToLower(opt.Level) {
		case "debug":
			level = zapcore.DebugLevel
		case "warn":
			level = zapcore.WarnLevel
		case "error":
			level = zapcore.ErrorLevel
		}

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		var enc zapcore.Encoder
		if opt.Format == "json" {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(encCfg)
		}

		ws := zapcore.AddSync(os.Stderr)
		if opt.LogDir != "" {
			ws = zapcore.AddSync(&lumberjack.Logger{
				Filename:   filepath.Join(opt.LogDir, "parser.log"),
				MaxSize:    256, // MB
				MaxBackups: 10,
				Compress:   opt.Compress,
			})
		}

		log = zap.New(zapcore.NewCore(enc, ws, level)).Sugar()
	})
}

func Debugf(format string, args ...any) { log.Debugf(format, args...) }
func Infof(format string, args ...any)  { log.Infof(format, args...) }
func Warnf(format string, args ...any)  { log.Warnf(format, args...) }
func Errorf(format string, args ...any) { log.Errorf(format, args...) }

// Sync 刷新缓冲日志，进程退出前调用。
func Sync() { _ = log.Sync() }
