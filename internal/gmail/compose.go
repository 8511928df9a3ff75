package gmail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// OutgoingMessage is a plain text email to send.
type OutgoingMessage struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string

	// AttachmentPaths are local files to attach. Missing files are skipped.
	AttachmentPaths []string
}

// Build renders the message in RFC 2822 format. It returns the raw message
// and the attachment paths that were skipped because they do not exist.
func (m *OutgoingMessage) Build() ([]byte, []string, error) {
	if len(m.To) == 0 {
		return nil, nil, errors.New("at least one recipient is required")
	}

	attachments, skipped, err := loadAttachments(m.AttachmentPaths)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	writeHeader(&buf, "To", strings.Join(m.To, ", "))
	if len(m.Cc) > 0 {
		writeHeader(&buf, "Cc", strings.Join(m.Cc, ", "))
	}
	if len(m.Bcc) > 0 {
		writeHeader(&buf, "Bcc", strings.Join(m.Bcc, ", "))
	}
	writeHeader(&buf, "Subject", encodeRFC2047(m.Subject))
	writeHeader(&buf, "MIME-Version", "1.0")

	if len(attachments) == 0 {
		writeHeader(&buf, "Content-Type", `text/plain; charset="UTF-8"`)
		buf.WriteString("\r\n")
		buf.WriteString(m.Body)
		return buf.Bytes(), skipped, nil
	}

	mw := multipart.NewWriter(&buf)
	writeHeader(&buf, "Content-Type", fmt.Sprintf(`multipart/mixed; boundary="%s"`, mw.Boundary()))
	buf.WriteString("\r\n")

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="UTF-8"`},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create body part: %w", err)
	}
	if _, err := textPart.Write([]byte(m.Body)); err != nil {
		return nil, nil, fmt.Errorf("failed to write body part: %w", err)
	}

	for _, a := range attachments {
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {a.ContentType},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create attachment part %s: %w", a.Filename, err)
		}
		if _, err := part.Write(wrapBase64(a.Data)); err != nil {
			return nil, nil, fmt.Errorf("failed to write attachment part %s: %w", a.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, nil, fmt.Errorf("failed to finish message: %w", err)
	}
	return buf.Bytes(), skipped, nil
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

// encodeRFC2047 encodes non-ASCII header values such as subjects with umlauts.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// wrapBase64 encodes data in base64 with 76 character lines.
func wrapBase64(data []byte) []byte {
	const lineLen = 76
	enc := base64.StdEncoding.EncodeToString(data)
	var out bytes.Buffer
	for len(enc) > lineLen {
		out.WriteString(enc[:lineLen])
		out.WriteString("\r\n")
		enc = enc[lineLen:]
	}
	out.WriteString(enc)
	return out.Bytes()
}
