// Package gmail_tools provides the Gmail tools:
//
//   - search_emails: search messages with structured filters joined by AND
//   - list_recent_emails: list the most recent inbox messages
//   - send_email: send a plain text message with optional attachments
//
// Message bodies are returned as plain text; HTML-only messages are
// flattened to text.
package gmail_tools
