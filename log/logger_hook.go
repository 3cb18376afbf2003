package log

import "sync/atomic"

// Hook receives each rendered message before it reaches the sub logger's
// writers. Returning true stops the message being written
type Hook func(header, subLogger, message string) (handled bool)

var hook atomic.Pointer[Hook]

// SetHook installs h for every sub logger, a nil h removes the current hook
func SetHook(h Hook) {
	if h == nil {
		hook.Store(nil)
		return
	}
	hook.Store(&h)
}

func runHook(header, subLogger, message string) bool {
	h := hook.Load()
	return h != nil && (*h)(header, subLogger, message)
}
