package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	defaultMimeType  = "application/octet-stream"
	maxPageSize      = 1000
	downloadFileMode = 0o644
	fileFields       = "id, name, mimeType, size, modifiedTime, webViewLink, parents, owners(emailAddress)"
)

// ErrLocalFile marks failures reading or writing the local side of an
// upload or download.
var ErrLocalFile = errors.New("local file error")

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
}

// NewClient returns a Client bound to svc.
func NewClient(svc *drive.Service) *Client {
	return &Client{service: svc}
}

// ListFiles lists non-trashed files, most recently modified first.
func (c *Client) ListFiles(ctx context.Context, opts ListOptions) ([]*FileInfo, error) {
	clauses := []string{"trashed=false"}
	if opts.FolderID != "" {
		clauses = append(clauses, fmt.Sprintf("'%s' in parents", escapeQuery(opts.FolderID)))
	}
	if opts.NameContains != "" {
		clauses = append(clauses, fmt.Sprintf("name contains '%s'", escapeQuery(opts.NameContains)))
	}
	return c.list(ctx, strings.Join(clauses, " and "), opts.MaxResults)
}

// SearchFiles lists files matching a Drive query expression such as
// "name contains 'report' and mimeType='application/pdf'".
func (c *Client) SearchFiles(ctx context.Context, query string, maxResults int) ([]*FileInfo, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	return c.list(ctx, query, maxResults)
}

func (c *Client) list(ctx context.Context, q string, maxResults int) ([]*FileInfo, error) {
	call := c.service.Files.List().
		Context(ctx).
		Q(q).
		OrderBy("modifiedTime desc").
		Fields(googleapi.Field("files(" + fileFields + ")"))
	if maxResults > 0 {
		call = call.PageSize(int64(min(maxResults, maxPageSize)))
	}

	fileList, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}
	return files, nil
}

// UploadFile uploads the local file at path.
func (c *Client) UploadFile(ctx context.Context, path string, opts UploadOptions) (*FileInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocalFile, err)
	}
	defer f.Close()

	if st, err := f.Stat(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocalFile, err)
	} else if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrLocalFile, path)
	}

	file := &drive.File{Name: opts.Name, MimeType: opts.MimeType}
	if file.Name == "" {
		file.Name = filepath.Base(path)
	}
	if file.MimeType == "" {
		file.MimeType = mime.TypeByExtension(filepath.Ext(path))
	}
	if file.MimeType == "" {
		file.MimeType = defaultMimeType
	}
	if opts.FolderID != "" {
		file.Parents = []string{opts.FolderID}
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Media(f, googleapi.ContentType(file.MimeType)).
		Fields(googleapi.Field(fileFields)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return convertToFileInfo(driveFile), nil
}

// DownloadFile writes the content of a file to destPath and returns the
// number of bytes written. The content is staged next to destPath and only
// replaces it once the transfer completes, so a failed download leaves any
// existing file untouched.
func (c *Client) DownloadFile(ctx context.Context, fileID, destPath string) (int64, error) {
	if fileID == "" {
		return 0, fmt.Errorf("fileID is required")
	}
	if destPath == "" {
		return 0, fmt.Errorf("destination path is required")
	}

	resp, err := c.service.Files.Get(fileID).
		Context(ctx).
		Download()
	if err != nil {
		return 0, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(destPath), "."+filepath.Base(destPath)+"-*.part")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLocalFile, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	if err := os.Chmod(tmpName, downloadFileMode); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLocalFile, err)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLocalFile, err)
	}

	return n, nil
}

// DeleteFile permanently deletes a file from Google Drive
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}

	err := c.service.Files.Delete(fileID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}

	return nil
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
	}

	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	for _, owner := range f.Owners {
		if owner.EmailAddress != "" {
			fileInfo.Owners = append(fileInfo.Owners, owner.EmailAddress)
		}
	}

	return fileInfo
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
