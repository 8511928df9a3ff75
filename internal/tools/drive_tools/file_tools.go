package drive_tools

import (
	"context"
	"errors"

	"github.com/teemow/gworkspace-mcp/internal/drive"
	"github.com/teemow/gworkspace-mcp/internal/toolerr"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

func listFiles(ctx context.Context, args common.Args, client *drive.Client) (any, error) {
	files, err := client.ListFiles(ctx, drive.ListOptions{
		FolderID:     args.String("folder_id"),
		NameContains: args.String("query"),
		MaxResults:   args.Int("max_results"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"files": files}, nil
}

func searchFiles(ctx context.Context, args common.Args, client *drive.Client) (any, error) {
	files, err := client.SearchFiles(ctx, args.String("query"), args.Int("max_results"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"files": files}, nil
}

func uploadFile(ctx context.Context, args common.Args, client *drive.Client) (any, error) {
	file, err := client.UploadFile(ctx, args.String("file_path"), drive.UploadOptions{
		Name:     args.String("name"),
		MimeType: args.String("mime_type"),
		FolderID: args.String("folder_id"),
	})
	if errors.Is(err, drive.ErrLocalFile) {
		return nil, toolerr.InvalidArgument("file_path", "%v", err)
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": file.ID, "name": file.Name, "mimeType": file.MimeType}, nil
}

func downloadFile(ctx context.Context, args common.Args, client *drive.Client) (any, error) {
	path := args.String("destination_path")
	n, err := client.DownloadFile(ctx, args.String("file_id"), path)
	if errors.Is(err, drive.ErrLocalFile) {
		return nil, toolerr.InvalidArgument("destination_path", "%v", err)
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{"status": "downloaded", "path": path, "bytes": n}, nil
}

func deleteFile(ctx context.Context, args common.Args, client *drive.Client) (any, error) {
	id := args.String("file_id")
	if err := client.DeleteFile(ctx, id); err != nil {
		return nil, err
	}
	return map[string]any{"status": "deleted", "file_id": id}, nil
}
