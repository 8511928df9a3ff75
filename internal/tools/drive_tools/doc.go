// Package drive_tools provides the Google Drive tools list_files,
// search_files, upload_file, download_file and delete_file.
//
// Uploads and downloads read and write local paths on the host running the
// server.
package drive_tools
