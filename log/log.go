// Package log 构建采集命令使用的 zap 日志：
// JSON 输出到 stdout，配置了文件时再写一份到按大小滚动的日志文件。
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 对应配置文件中的 [log] 表
type Config struct {
	Level      string
	File       string // 为空时只输出到 stdout
	MaxSize    int    // MB，超过后滚动
	MaxBackups int    // 0 表示保留全部
	Compress   bool   // 滚动后的文件是否 gzip
}

func DefaultConfig() Config {
	return Config{
		Level:    "info",
		MaxSize:  200,
		Compress: true,
	}
}

type Plugin = zapcore.Core

func encoder() zapcore.Encoder {
	c := zap.NewProductionEncoderConfig()
	c.EncodeLevel = zapcore.CapitalLevelEncoder
	c.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewJSONEncoder(c)
}

// 调用位置总是记录，DPanic 以上附带堆栈
func loggerOptions() []zap.Option {
	var stackLevel zap.LevelEnablerFunc = func(level zapcore.Level) bool {
		return level >= zapcore.DPanicLevel
	}

	return []zap.Option{zap.AddCaller(), zap.AddStacktrace(stackLevel)}
}

func NewStdoutPlugin(enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(encoder(), zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

// NewFilePlugin lumberjack 不暴露 Sync，返回的 closer 必须在退出前关闭，否则尾部日志可能丢失
func NewFilePlugin(cfg Config, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}

	return zapcore.NewCore(encoder(), zapcore.AddSync(w), enabler), w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New 按配置构建 logger，level 为空时为 info
func New(cfg Config) (*zap.Logger, io.Closer, error) {
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		var err error
		if lvl, err = zapcore.ParseLevel(cfg.Level); err != nil {
			return nil, nil, err
		}
	}

	stdout := NewStdoutPlugin(lvl)
	if cfg.File == "" {
		return zap.New(stdout, loggerOptions()...), nopCloser{}, nil
	}

	file, closer := NewFilePlugin(cfg, lvl)

	return zap.New(zapcore.NewTee(stdout, file), loggerOptions()...), closer, nil
}
