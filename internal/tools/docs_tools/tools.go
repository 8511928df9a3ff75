package docs_tools

import (
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/instrumentation"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

var documentID = common.Param{
	Name:        "document_id",
	Type:        common.ParamString,
	Required:    true,
	Description: "ID of the document",
}

// Tools returns the Docs tools.
func Tools() []common.Tool {
	return []common.Tool{
		{
			Name:        "list_docs",
			Description: "List Google Docs, most recently modified first, optionally filtered by name.",
			Surface:     google.SurfaceDocs,
			Scopes:      google.NewScopeSet(google.ScopeDrive),
			Service:     instrumentation.ServiceDocs,
			Operation:   instrumentation.OperationList,
			ReadOnly:    true,
			Params: []common.Param{
				{Name: "query", Type: common.ParamString, Description: "Text the document name must contain"},
				common.MaxResults(10),
			},
			Handler: common.Bind(listDocs),
		},
		{
			Name:        "create_doc",
			Description: "Create an empty Google Doc.",
			Surface:     google.SurfaceDocs,
			Scopes:      google.NewScopeSet(google.ScopeDocuments),
			Service:     instrumentation.ServiceDocs,
			Operation:   instrumentation.OperationCreate,
			Params: []common.Param{
				{Name: "title", Type: common.ParamString, Required: true, Description: "Document title"},
			},
			Handler: common.Bind(createDoc),
		},
		{
			Name:        "read_doc",
			Description: "Read the content of a Google Doc as plain text or markdown.",
			Surface:     google.SurfaceDocs,
			Scopes:      google.NewScopeSet(google.ScopeDocuments),
			Service:     instrumentation.ServiceDocs,
			Operation:   instrumentation.OperationGet,
			ReadOnly:    true,
			Params: []common.Param{
				documentID,
				{Name: "format", Type: common.ParamString, Default: "text", Description: "Output format: text or markdown (default: text)"},
			},
			Handler: common.Bind(readDoc),
		},
		{
			Name:        "update_doc",
			Description: "Insert text into a Google Doc at the start, the end or a body index.",
			Surface:     google.SurfaceDocs,
			Scopes:      google.NewScopeSet(google.ScopeDocuments),
			Service:     instrumentation.ServiceDocs,
			Operation:   instrumentation.OperationUpdate,
			Params: []common.Param{
				documentID,
				{Name: "text", Type: common.ParamString, Required: true, Description: "Text to insert"},
				{Name: "location", Type: common.ParamString, Default: "end", Description: "Where to insert: start, end or a body index (default: end)"},
			},
			Handler: common.Bind(updateDoc),
		},
		{
			Name:        "delete_doc",
			Description: "Delete a Google Doc.",
			Surface:     google.SurfaceDocs,
			Scopes:      google.NewScopeSet(google.ScopeDrive),
			Service:     instrumentation.ServiceDocs,
			Operation:   instrumentation.OperationDelete,
			Destructive: true,
			Idempotent:  true,
			Params:      []common.Param{documentID},
			Handler:     common.Bind(deleteDoc),
		},
	}
}
