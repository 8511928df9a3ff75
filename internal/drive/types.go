package drive

import "time"

// FileInfo represents metadata about a file or folder in Google Drive
type FileInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size,omitempty"` // not populated for folders and Google files
	ModifiedTime time.Time `json:"modifiedTime,omitzero"`
	WebViewLink  string    `json:"webViewLink,omitempty"`
	Parents      []string  `json:"parents,omitempty"`
	Owners       []string  `json:"owners,omitempty"`
}

// ListOptions contains options for listing files
type ListOptions struct {
	// FolderID restricts the listing to direct children of a folder.
	FolderID string

	// NameContains filters by a substring of the file name.
	NameContains string

	// MaxResults is the maximum number of files to return (max: 1000)
	MaxResults int
}

// UploadOptions contains options for uploading a local file
type UploadOptions struct {
	// Name overrides the uploaded file name. Defaults to the base name of the path.
	Name string

	// MimeType is the MIME type of the content. Defaults to a guess from the
	// file extension, then application/octet-stream.
	MimeType string

	// FolderID is the parent folder. Defaults to My Drive.
	FolderID string
}
