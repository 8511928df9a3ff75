package docs_tools

import (
	"context"

	"github.com/teemow/gworkspace-mcp/internal/docs"
	"github.com/teemow/gworkspace-mcp/internal/toolerr"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

func listDocs(ctx context.Context, args common.Args, client *docs.Client) (any, error) {
	documents, err := client.ListDocuments(ctx, args.String("query"), args.Int("max_results"))
	if err != nil {
		return nil, err
	}
	if documents == nil {
		documents = []docs.Summary{}
	}
	return map[string]any{"documents": documents}, nil
}

func createDoc(ctx context.Context, args common.Args, client *docs.Client) (any, error) {
	doc, err := client.CreateDocument(ctx, args.String("title"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"documentId": doc.ID, "title": doc.Title}, nil
}

func readDoc(ctx context.Context, args common.Args, client *docs.Client) (any, error) {
	format, err := docs.ParseFormat(args.String("format"))
	if err != nil {
		return nil, toolerr.InvalidArgument("format", "%v", err)
	}

	doc, err := client.ReadDocument(ctx, args.String("document_id"), format)
	if err != nil {
		return nil, err
	}
	return map[string]any{"documentId": doc.ID, "title": doc.Title, "content": doc.Content}, nil
}

func updateDoc(ctx context.Context, args common.Args, client *docs.Client) (any, error) {
	loc, err := docs.ParseLocation(args.String("location"))
	if err != nil {
		return nil, toolerr.InvalidArgument("location", "%v", err)
	}

	id := args.String("document_id")
	if err := client.InsertText(ctx, id, args.String("text"), loc); err != nil {
		return nil, err
	}
	return map[string]any{"status": "updated", "documentId": id}, nil
}

func deleteDoc(ctx context.Context, args common.Args, client *docs.Client) (any, error) {
	id := args.String("document_id")
	if err := client.DeleteDocument(ctx, id); err != nil {
		return nil, err
	}
	return map[string]any{"status": "deleted", "documentId": id}, nil
}
