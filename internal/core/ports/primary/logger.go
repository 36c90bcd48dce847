package primary

// Logger is a leveled key/value logger
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	// With returns a child logger that adds args to every entry.
	With(args ...interface{}) Logger
}
