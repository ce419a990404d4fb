package constants

const (
	// DefaultHistoryLimit caps the in-memory history when none is configured
	DefaultHistoryLimit = 1000

	// Event source written by the log formatter
	LogSystemName = "taskboard"

	// Environment variable prefix for the CLI
	EnvPrefix = "TASKBOARD"
)
