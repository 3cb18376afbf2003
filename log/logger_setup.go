package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/turbo/newton/common/convert"
)

var (
	errSubloggerConfigIsNil  = errors.New("sublogger config is nil")
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errSubLoggerNotFound     = errors.New("sub logger not found")
	errConfigNil             = errors.New("log config is nil")
)

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	mw, err := MultiWriter()
	if err != nil {
		return nil, err
	}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(outputWriters[x]) {
		case "stdout", "console":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		case "file":
			if !fileLoggingConfiguredCorrectly {
				continue
			}
			writer = globalLogFile
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		if err = mw.Add(writer); err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: convert.BoolPtr(true),
		SubLoggerConfig: SubLoggerConfig{
			Level:  "INFO|DEBUG|WARN|ERROR",
			Output: "console",
		},
		LoggerFileConfig: &loggerFileConfig{
			FileName: "log.txt",
			Rotate:   convert.BoolPtr(false),
			MaxSize:  0,
		},
		AdvancedSettings: advancedSettings{
			ShowLogSystemName: convert.BoolPtr(true),
			Spacer:            spacer,
			TimeStampFormat:   timestampFormat,
			Headers: headers{
				Info:  "[INFO]",
				Warn:  "[WARN]",
				Debug: "[DEBUG]",
				Error: "[ERROR]",
			},
		},
	}
}

func newLogger(c *Config) Logger {
	showName := c.AdvancedSettings.ShowLogSystemName != nil && *c.AdvancedSettings.ShowLogSystemName
	return Logger{
		ShowLogSystemName: showName,
		TimestampFormat:   c.AdvancedSettings.TimeStampFormat,
		Spacer:            c.AdvancedSettings.Spacer,
		InfoHeader:        c.AdvancedSettings.Headers.Info,
		ErrorHeader:       c.AdvancedSettings.Headers.Error,
		DebugHeader:       c.AdvancedSettings.Headers.Debug,
		WarnHeader:        c.AdvancedSettings.Headers.Warn,
	}
}

func configureSubLogger(subLogger, levels string, output io.Writer) error {
	logPtr, found := subLoggers[subLogger]
	if !found {
		return fmt.Errorf("%w: %v", errSubLoggerNotFound, subLogger)
	}
	logPtr.output = output
	logPtr.levels = splitLevel(levels)
	return nil
}

// SetupGlobalLogger applies the config to every registered sub logger. Any
// sub logger specific settings in the config override the global level and
// output. logDir is only used when file output is configured.
func SetupGlobalLogger(c *Config, logDir string) error {
	if c == nil {
		return errConfigNil
	}
	mu.Lock()
	defer mu.Unlock()
	globalLogConfig = c
	logPath = logDir
	fileLoggingConfiguredCorrectly = c.LoggerFileConfig != nil &&
		c.LoggerFileConfig.FileName != "" &&
		logDir != ""
	if fileLoggingConfiguredCorrectly {
		globalLogFile = &Rotate{
			FileName: c.LoggerFileConfig.FileName,
			MaxSize:  c.LoggerFileConfig.MaxSize,
			Rotate:   c.LoggerFileConfig.Rotate,
		}
	}

	output, err := getWriters(&c.SubLoggerConfig)
	if err != nil {
		return err
	}
	for _, sl := range subLoggers {
		sl.levels = splitLevel(c.Level)
		sl.output = output
	}
	for x := range c.SubLoggers {
		subOutput, err := getWriters(&c.SubLoggers[x])
		if err != nil {
			return err
		}
		if err := configureSubLogger(strings.ToUpper(c.SubLoggers[x].Name), c.SubLoggers[x].Level, subOutput); err != nil {
			return err
		}
	}
	logger = newLogger(c)
	return nil
}

// CloseLogger closes the log file if one is open
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	if globalLogFile == nil {
		return nil
	}
	return globalLogFile.Close()
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch strings.ToUpper(enabledLevels[x]) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerNewSubLogger(subLogger string) *SubLogger {
	temp := &SubLogger{
		name:   strings.ToUpper(subLogger),
		output: os.Stdout,
		levels: splitLevel("INFO|WARN|DEBUG|ERROR"),
	}
	subLoggers[temp.name] = temp
	return temp
}

// register all loggers at package init()
func init() {
	Global = registerNewSubLogger("LOG")
	BackTester = registerNewSubLogger("BACKTESTER")
	EventMgr = registerNewSubLogger("EVENT")
	ConfigMgr = registerNewSubLogger("CONFIG")
	DatabaseMgr = registerNewSubLogger("DATABASE")
	DataHistory = registerNewSubLogger("DATAHISTORY")
	RESTSys = registerNewSubLogger("REST")

	defaults := GenDefaultSettings()
	globalLogConfig = &defaults
	logger = newLogger(globalLogConfig)
}
