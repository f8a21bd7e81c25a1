// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses ConfigurationLoader, which layers embedded defaults, an optional
// configuration file, and environment variables through Viper, LoggerFactory,
// which builds zap loggers for the requested level and format, and
// DiagnosticWriter, which keeps log lines and command announcements ordered on
// standard error.
package utils
