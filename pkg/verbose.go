package treeutils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Debug flags understood by the pipeline
const (
	DebugWalk     = "walk"
	DebugHash     = "hash"
	DebugIndex    = "index"
	DebugDiff     = "diff"
	DebugProgress = "progress"
)

var knownDebugFlags = []string{DebugWalk, DebugHash, DebugIndex, DebugDiff, DebugProgress}

var (
	logMu              sync.Mutex
	logOut             io.Writer = os.Stderr
	globalVerboseLevel int
	debugFlags         map[string]bool
)

// SetLogOutput redirects verbose, debug and trace lines and returns the
// previous writer. Passing nil restores stderr.
func SetLogOutput(w io.Writer) io.Writer {
	logMu.Lock()
	defer logMu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	prev := logOut
	logOut = w
	return prev
}

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	logMu.Lock()
	globalVerboseLevel = level
	logMu.Unlock()
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	logMu.Lock()
	defer logMu.Unlock()
	return globalVerboseLevel
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if GetVerboseLevel() < 3 {
		return func() {}
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	writeLogLine("[TRACE] Entering function: %s", funcName)
	return func() {
		writeLogLine("[TRACE] Exiting function: %s", funcName)
	}
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if GetVerboseLevel() >= level {
		writeLogLine(fmt.Sprintf("[VERBOSE-%d] ", level)+format, args...)
	}
}

// DebugLog logs a message when the named debug flag is enabled
func DebugLog(flag string, format string, args ...interface{}) {
	if IsDebugEnabled(flag) {
		writeLogLine("[DEBUG-"+strings.ToLower(flag)+"] "+format, args...)
	}
}

func writeLogLine(format string, args ...interface{}) {
	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	io.WriteString(logOut, line)
}

// SetDebugFlags sets the debug flags from a comma-separated string.
// Supports both simple flags ("walk,hash") and key:value format ("walk:true,hash:false").
func SetDebugFlags(flagsStr string) {
	parsed := parseDebugFlags(flagsStr)
	logMu.Lock()
	debugFlags = parsed
	logMu.Unlock()
}

func parseDebugFlags(flagsStr string) map[string]bool {
	flags := make(map[string]bool)
	for _, flag := range strings.Split(flagsStr, ",") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		parts := strings.SplitN(flag, ":", 2)
		name := strings.ToLower(parts[0])
		value := true
		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "false", "0", "no", "off":
				value = false
			}
		}
		flags[name] = value
	}
	return flags
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	logMu.Lock()
	defer logMu.Unlock()
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}
