// Package docs provides a client for Google Docs.
//
// Documents are created, read and edited through the Docs API. Listing and
// deleting go through the Drive API, since the Docs API has no such calls.
// Document bodies are rendered as plain text or Markdown, including every
// tab of multi-tab documents.
package docs
