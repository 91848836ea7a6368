// Package logger builds the zap loggers used by the commands and the server.
//
// log.level selects the minimum level; "debug" switches to zap's development
// config. log.format chooses json output or a colored console encoder.
// Console returns the fixed console logger the CLI uses to report a failed
// command before any configuration is known.
//
// Handlers tag their entries with the request's ray id:
//
//	l := logger.WithRayID(log, c)
//	l.Warn("Merge run failed", zap.Error(err))
package logger
