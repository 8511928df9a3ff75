package drive_tools

import (
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/instrumentation"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

var fileID = common.Param{
	Name:        "file_id",
	Type:        common.ParamString,
	Required:    true,
	Description: "ID of the Drive file",
}

// Tools returns the Drive tools.
func Tools() []common.Tool {
	return []common.Tool{
		{
			Name:        "list_files",
			Description: "List Drive files, most recently modified first, optionally inside a folder or filtered by name.",
			Surface:     google.SurfaceFiles,
			Service:     instrumentation.ServiceDrive,
			Operation:   instrumentation.OperationList,
			ReadOnly:    true,
			Params: []common.Param{
				{Name: "folder_id", Type: common.ParamString, Description: "Only direct children of this folder"},
				{Name: "query", Type: common.ParamString, Description: "Text the file name must contain"},
				common.MaxResults(10),
			},
			Handler: common.Bind(listFiles),
		},
		{
			Name:        "search_files",
			Description: "Search Drive with a query expression, e.g. name contains 'report' and mimeType = 'application/pdf'.",
			Surface:     google.SurfaceFiles,
			Service:     instrumentation.ServiceDrive,
			Operation:   instrumentation.OperationSearch,
			ReadOnly:    true,
			Params: []common.Param{
				{Name: "query", Type: common.ParamString, Required: true, Description: "Drive query expression"},
				common.MaxResults(10),
			},
			Handler: common.Bind(searchFiles),
		},
		{
			Name:        "upload_file",
			Description: "Upload a local file to Drive.",
			Surface:     google.SurfaceFiles,
			Service:     instrumentation.ServiceDrive,
			Operation:   instrumentation.OperationUpload,
			Params: []common.Param{
				{Name: "file_path", Type: common.ParamString, Required: true, Description: "Local path of the file to upload"},
				{Name: "name", Type: common.ParamString, Description: "Name in Drive (default: the local file name)"},
				{Name: "mime_type", Type: common.ParamString, Description: "MIME type (default: guessed from the extension)"},
				{Name: "folder_id", Type: common.ParamString, Description: "Parent folder (default: My Drive)"},
			},
			Handler: common.Bind(uploadFile),
		},
		{
			Name:        "download_file",
			Description: "Download the content of a Drive file to a local path.",
			Surface:     google.SurfaceFiles,
			Service:     instrumentation.ServiceDrive,
			Operation:   instrumentation.OperationDownload,
			Idempotent:  true,
			Params: []common.Param{
				fileID,
				{Name: "destination_path", Type: common.ParamString, Required: true, Description: "Local path to write to"},
			},
			Handler: common.Bind(downloadFile),
		},
		{
			Name:        "delete_file",
			Description: "Permanently delete a Drive file.",
			Surface:     google.SurfaceFiles,
			Service:     instrumentation.ServiceDrive,
			Operation:   instrumentation.OperationDelete,
			Destructive: true,
			Idempotent:  true,
			Params:      []common.Param{fileID},
			Handler:     common.Bind(deleteFile),
		},
	}
}
