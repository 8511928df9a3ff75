// Package drive provides a client for Google Drive file operations.
//
// The client lists and searches files, uploads a local file, downloads a
// file's content to a local path and deletes files. It is bound to a
// *drive.Service created by the caller; authentication happens before the
// service is built.
//
// Example usage:
//
//	client := drive.NewClient(svc)
//
//	// List the files of a folder
//	files, err := client.ListFiles(ctx, drive.ListOptions{FolderID: "abc", MaxResults: 10})
//
//	// Download a file
//	n, err := client.DownloadFile(ctx, "file-id", "/tmp/report.pdf")
package drive
