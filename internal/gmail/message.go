package gmail

import (
	"bytes"
	"encoding/base64"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	gmail "google.golang.org/api/gmail/v1"
)

const (
	mimeTextPlain = "text/plain"
	mimeTextHTML  = "text/html"
)

// Message is the normalized form of a Gmail message.
type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Date     string `json:"date,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	Body     string `json:"body"`
}

// SentMessage identifies a sent message.
type SentMessage struct {
	ID                 string   `json:"id"`
	ThreadID           string   `json:"threadId"`
	SkippedAttachments []string `json:"skippedAttachments,omitempty"`
}

func toMessage(m *gmail.Message) *Message {
	return &Message{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		Subject:  HeaderValue(m, "Subject"),
		From:     HeaderValue(m, "From"),
		Date:     HeaderValue(m, "Date"),
		Snippet:  m.Snippet,
		Body:     ExtractBody(m.Payload),
	}
}

// HeaderValue returns the first value of the named top-level header, or "".
// Header names match case-insensitively.
func HeaderValue(m *gmail.Message, name string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// ExtractBody returns the message body. The first text/plain part wins; a
// message with only text/html parts is flattened to text. Attachment parts
// are ignored.
func ExtractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	var plain, htmlBody string
	walkParts(payload, func(part *gmail.MessagePart) bool {
		if part.Filename != "" || part.Body == nil || part.Body.Data == "" {
			return true
		}
		switch part.MimeType {
		case mimeTextPlain:
			plain = part.Body.Data
			return false
		case mimeTextHTML:
			if htmlBody == "" {
				htmlBody = part.Body.Data
			}
		}
		return true
	})

	if plain != "" {
		return decodeData(plain)
	}
	if htmlBody != "" {
		return HTMLToText(decodeData(htmlBody))
	}
	// Single-part messages with an unusual content type still carry a body.
	if len(payload.Parts) == 0 && payload.Body != nil && payload.Body.Data != "" {
		return decodeData(payload.Body.Data)
	}
	return ""
}

// walkParts visits part and its descendants depth-first until fn returns false.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart) bool) bool {
	if part == nil {
		return true
	}
	if !fn(part) {
		return false
	}
	for _, sub := range part.Parts {
		if !walkParts(sub, fn) {
			return false
		}
	}
	return true
}

// decodeData decodes Gmail's base64url body data, padded or not.
func decodeData(data string) string {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	return ""
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// HTMLToText renders an HTML document as plain text. Script and style
// content is dropped and block elements start new lines.
func HTMLToText(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return src
	}

	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if words := strings.Fields(n.Data); len(words) > 0 {
				if buf.Len() > 0 && !endsWithSpace(buf.Bytes()) {
					buf.WriteByte(' ')
				}
				buf.WriteString(strings.Join(words, " "))
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head", "title":
				return
			case "br":
				buf.WriteByte('\n')
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteByte('\n')
		}
	}
	walk(doc)

	out := blankLines.ReplaceAllString(buf.String(), "\n\n")
	return strings.TrimSpace(out)
}

func endsWithSpace(b []byte) bool {
	last := b[len(b)-1]
	return last == ' ' || last == '\n'
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "tr", "table", "ul", "ol", "blockquote", "pre",
		"h1", "h2", "h3", "h4", "h5", "h6", "section", "article", "header", "footer":
		return true
	}
	return false
}
