package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 20000-20999: Process orchestration errors
// 21000-21999: Profiling errors
// 22000-22999: Interactive shell errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalError ErrorCode = 10001
	InvalidParams ErrorCode = 10002

	// ========== Process Errors (20000-20999) ==========

	// Creation (20000-20099)
	ProcessCreateFailed ErrorCode = 20000
	CommandNotFound     ErrorCode = 20001
	PipeCreateFailed    ErrorCode = 20002

	// Lifecycle (20100-20199)
	WaitFailed    ErrorCode = 20100
	ProcessReaped ErrorCode = 20101
	KillFailed    ErrorCode = 20102

	// Validation (20200-20299)
	InvalidStage    ErrorCode = 20200
	PipelineTooLong ErrorCode = 20201
	TooManyArgs     ErrorCode = 20202

	// ========== Profiling Errors (21000-21999) ==========

	ProfileUsage    ErrorCode = 21000
	InvalidTimeout  ErrorCode = 21001
	LogOpenFailed   ErrorCode = 21002
	LogAppendFailed ErrorCode = 21003
	WatchdogBusy    ErrorCode = 21004

	// ========== Shell Errors (22000-22999) ==========

	ConfigInvalid ErrorCode = 22000
	ParseFailed   ErrorCode = 22001
	ChdirFailed   ErrorCode = 22002
	LineTooLong   ErrorCode = 22003
	ReadFailed    ErrorCode = 22004
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:       "Success",
	InternalError: "Internal error",
	InvalidParams: "Invalid parameters",

	// Process
	ProcessCreateFailed: "Failed to create process",
	CommandNotFound:     "Command not found",
	PipeCreateFailed:    "Failed to create pipe",
	WaitFailed:          "Failed to wait for process",
	ProcessReaped:       "Process has already been reaped",
	KillFailed:          "Failed to kill process",
	InvalidStage:        "Invalid pipeline stage",
	PipelineTooLong:     "Too many pipeline stages",
	TooManyArgs:         "Too many arguments",

	// Profiling
	ProfileUsage:    "Invalid profiling command",
	InvalidTimeout:  "Invalid timeout",
	LogOpenFailed:   "Failed to open profiling log",
	LogAppendFailed: "Failed to append profiling log",
	WatchdogBusy:    "A timeout is already armed",

	// Shell
	ConfigInvalid: "Invalid configuration",
	ParseFailed:   "Failed to parse command line",
	ChdirFailed:   "Failed to change directory",
	LineTooLong:   "Input line too long",
	ReadFailed:    "Failed to read input",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// IsProcessError reports whether the code belongs to the process range
func (c ErrorCode) IsProcessError() bool {
	return c >= 20000 && c < 21000
}

// IsUsageError reports whether the code describes a malformed invocation
// that never reached process creation.
func (c ErrorCode) IsUsageError() bool {
	switch c {
	case InvalidParams, InvalidStage, PipelineTooLong, TooManyArgs,
		ProfileUsage, InvalidTimeout, LineTooLong, ParseFailed:
		return true
	}
	return false
}
