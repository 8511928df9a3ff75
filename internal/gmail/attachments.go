package gmail

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// MaxAttachmentSize is the largest total attachment payload Gmail accepts.
const MaxAttachmentSize = 25 * 1024 * 1024

// ErrAttachment marks a failure to read a local attachment.
var ErrAttachment = errors.New("attachment")

type attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// loadAttachments reads the files at paths. Paths that do not exist or name a
// directory are returned as skipped.
func loadAttachments(paths []string) ([]attachment, []string, error) {
	var (
		out     []attachment
		skipped []string
		total   int64
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			skipped = append(skipped, p)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w %s: %w", ErrAttachment, p, err)
		}

		total += info.Size()
		if total > MaxAttachmentSize {
			return nil, nil, fmt.Errorf("%w %s: attachments exceed %d bytes", ErrAttachment, p, MaxAttachmentSize)
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("%w %s: %w", ErrAttachment, p, err)
		}
		out = append(out, attachment{
			Filename:    filepath.Base(p),
			ContentType: contentTypeFor(p),
			Data:        data,
		})
	}
	return out, skipped, nil
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
