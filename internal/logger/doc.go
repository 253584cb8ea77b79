// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing console or JSON lines,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level and format configuration,
//   - key-value helpers (InfoKV, ErrorKV, etc.).
//
// Services accept a context and extract the logger from it, so every log
// line of a request carries the component name and the fields added on the way.
package logger
