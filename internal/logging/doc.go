// Package logging provides structured logging utilities for gworkspace-mcp.
//
// It centralizes attribute names so records from the dispatcher, the
// authorizer and the domain clients can be correlated, and it keeps PII and
// secrets out of the logs.
//
// # Usage Patterns
//
//	logger := logging.WithTool(slog.Default(), "append_sheet")
//	logger.Info("tool completed",
//	    logging.Status(logging.StatusSuccess),
//	    logging.Duration(elapsed))
//
// # Security Considerations
//
//   - Recipient addresses are hashed before logging
//   - Tokens are never logged directly, only their length
package logging
