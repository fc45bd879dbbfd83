// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder suited to pipeline logs,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Services accept a context and extract the logger from it, so tests can
// swap in an observed core without touching global state.
package logger
