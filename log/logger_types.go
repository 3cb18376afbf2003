package log

import (
	"io"
	"sync"
)

const (
	timestampFormat = " 02/01/2006 15:04:05 "
	spacer          = " | "
	// DefaultMaxFileSize for logger rotation file
	DefaultMaxFileSize int64 = 100
)

var (
	logger = Logger{}
	// fileLoggingConfiguredCorrectly flag set during config check if file logging meets requirements
	fileLoggingConfiguredCorrectly bool
	// globalLogConfig holds global configuration options for logger
	globalLogConfig = &Config{}
	// globalLogFile hold global configuration options for file logger
	globalLogFile = &Rotate{}

	// logPath system path to store log files in
	logPath string

	// read/write mutex for logger
	mu = &sync.RWMutex{}
)

// Config holds configuration settings loaded from the backtester config
type Config struct {
	Enabled          *bool `json:"enabled" mapstructure:"enabled"`
	SubLoggerConfig  `mapstructure:",squash"`
	LoggerFileConfig *loggerFileConfig `json:"fileSettings,omitempty" mapstructure:"fileSettings"`
	AdvancedSettings advancedSettings  `json:"advancedSettings" mapstructure:"advancedSettings"`
	SubLoggers       []SubLoggerConfig `json:"subloggers,omitempty" mapstructure:"subloggers"`
}

type advancedSettings struct {
	ShowLogSystemName *bool   `json:"showLogSystemName" mapstructure:"showLogSystemName"`
	Spacer            string  `json:"spacer" mapstructure:"spacer"`
	TimeStampFormat   string  `json:"timeStampFormat" mapstructure:"timeStampFormat"`
	Headers           headers `json:"headers" mapstructure:"headers"`
}

type headers struct {
	Info  string `json:"info" mapstructure:"info"`
	Warn  string `json:"warn" mapstructure:"warn"`
	Debug string `json:"debug" mapstructure:"debug"`
	Error string `json:"error" mapstructure:"error"`
}

// SubLoggerConfig holds sub logger configuration settings loaded from config
type SubLoggerConfig struct {
	Name   string `json:"name,omitempty" mapstructure:"name"`
	Level  string `json:"level" mapstructure:"level"`
	Output string `json:"output" mapstructure:"output"`
}

type loggerFileConfig struct {
	FileName string `json:"filename,omitempty" mapstructure:"filename"`
	Rotate   *bool  `json:"rotate,omitempty" mapstructure:"rotate"`
	MaxSize  int64  `json:"maxsize,omitempty" mapstructure:"maxsize"`
}

// Logger each instance of logger settings
type Logger struct {
	ShowLogSystemName                                bool
	TimestampFormat                                  string
	InfoHeader, ErrorHeader, DebugHeader, WarnHeader string
	Spacer                                           string
}

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

// multiWriter holds a set of writers which each receive every log line
type multiWriter struct {
	writers []io.Writer
	mu      sync.RWMutex
}
