package log

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Info takes a pointer subLogger struct and string sends to StageLogEvent
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.InfoHeader, func() string { return data })
}

// Infoln takes a pointer subLogger struct and interface sends to StageLogEvent
func Infoln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.InfoHeader, func() string { return fmt.Sprint(v...) })
}

// Infof takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Infof(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.InfoHeader, func() string { return fmt.Sprintf(data, v...) })
}

// Debug takes a pointer subLogger struct and string sends to StageLogEvent
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.DebugHeader, func() string { return data })
}

// Debugln takes a pointer subLogger struct, string and interface sends to StageLogEvent
func Debugln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.DebugHeader, func() string { return fmt.Sprint(v...) })
}

// Debugf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Debugf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.DebugHeader, func() string { return fmt.Sprintf(data, v...) })
}

// Warn takes a pointer subLogger struct & string and sends to StageLogEvent
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.WarnHeader, func() string { return data })
}

// Warnln takes a pointer subLogger struct & interface formats and sends to StageLogEvent
func Warnln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.WarnHeader, func() string { return fmt.Sprint(v...) })
}

// Warnf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Warnf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.WarnHeader, func() string { return fmt.Sprintf(data, v...) })
}

// Error takes a pointer subLogger struct & interface formats and sends to StageLogEvent
func Error(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.ErrorHeader, func() string { return data })
}

// Errorln takes a pointer subLogger struct, string & interface formats and sends to StageLogEvent
func Errorln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.ErrorHeader, func() string { return fmt.Sprint(v...) })
}

// Errorf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Errorf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.logger.ErrorHeader, func() string { return fmt.Sprintf(data, v...) })
}

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}

// getFields returns a snapshot of the sub logger state so that the caller can
// format outside of any sub logger mutation
func (sl *SubLogger) getFields() *logFields {
	if sl == nil || globalLogConfig == nil || globalLogConfig.Enabled == nil || !*globalLogConfig.Enabled {
		return nil
	}
	return &logFields{
		info:   sl.levels.Info,
		warn:   sl.levels.Warn,
		debug:  sl.levels.Debug,
		error:  sl.levels.Error,
		name:   sl.name,
		output: sl.output,
		logger: logger,
	}
}

// enabled checks if the log level is enabled
func (l *logFields) enabled(header string) bool {
	switch header {
	case l.logger.InfoHeader:
		return l.info
	case l.logger.WarnHeader:
		return l.warn
	case l.logger.ErrorHeader:
		return l.error
	case l.logger.DebugHeader:
		return l.debug
	}
	return false
}

// stage formats and writes a log event. The message is only rendered when the
// level is enabled
func (l *logFields) stage(header string, msg func() string) {
	if l == nil || !l.enabled(header) {
		return
	}
	data := msg()
	if runHook(header, l.name, data) {
		return
	}
	if l.output == nil {
		return
	}
	var b strings.Builder
	b.WriteString(header)
	if l.logger.TimestampFormat != "" {
		b.WriteString(time.Now().Format(l.logger.TimestampFormat))
	}
	if l.logger.ShowLogSystemName {
		b.WriteString(l.logger.Spacer)
		b.WriteString(l.name)
	}
	b.WriteString(l.logger.Spacer)
	b.WriteString(data)
	if !strings.HasSuffix(data, "\n") {
		b.WriteByte('\n')
	}
	_, err := l.output.Write([]byte(b.String()))
	displayError(err)
}
