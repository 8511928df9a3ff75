// Package docs_tools provides the Google Docs tools list_docs, create_doc,
// read_doc, update_doc and delete_doc.
//
// Listing and deletion go through Drive since the Docs API addresses single
// documents only.
package docs_tools
