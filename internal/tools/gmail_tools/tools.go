package gmail_tools

import (
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/instrumentation"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

// Tools returns the Gmail tools.
func Tools() []common.Tool {
	return []common.Tool{
		{
			Name:        "search_emails",
			Description: "Search Gmail messages. All given filters must match. Returns subject, sender, date, snippet and plain text body of each message.",
			Surface:     google.SurfaceMail,
			Scopes:      google.NewScopeSet(google.ScopeGmailReadonly),
			Service:     instrumentation.ServiceGmail,
			Operation:   instrumentation.OperationSearch,
			ReadOnly:    true,
			Params: []common.Param{
				{Name: "keyword", Type: common.ParamString, Description: "Free text to search for"},
				{Name: "from_email", Type: common.ParamString, Description: "Sender address"},
				{Name: "subject", Type: common.ParamString, Description: "Text the subject must contain"},
				{Name: "is_unread", Type: common.ParamBool, Description: "Only unread messages"},
				{Name: "after", Type: common.ParamDate, Description: "Only messages after this date (YYYY-MM-DD or YYYY/MM/DD)"},
				{Name: "before", Type: common.ParamDate, Description: "Only messages before this date (YYYY-MM-DD or YYYY/MM/DD)"},
				common.MaxResults(10),
			},
			Handler: common.Bind(searchEmails),
		},
		{
			Name:        "list_recent_emails",
			Description: "List the most recent messages in the inbox with their plain text bodies.",
			Surface:     google.SurfaceMail,
			Scopes:      google.NewScopeSet(google.ScopeGmailReadonly),
			Service:     instrumentation.ServiceGmail,
			Operation:   instrumentation.OperationList,
			ReadOnly:    true,
			Params: []common.Param{
				{Name: "query", Type: common.ParamString, Description: "Optional Gmail search expression to narrow the inbox listing"},
				common.MaxResults(5),
			},
			Handler: common.Bind(listRecentEmails),
		},
		{
			Name:        "send_email",
			Description: "Send a plain text email. Attachment paths that do not exist are skipped and reported.",
			Surface:     google.SurfaceMail,
			Scopes:      google.NewScopeSet(google.ScopeGmailSend),
			Service:     instrumentation.ServiceGmail,
			Operation:   instrumentation.OperationSend,
			Params: []common.Param{
				{Name: "to", Type: common.ParamStringList, Required: true, Description: "Recipient addresses"},
				{Name: "subject", Type: common.ParamString, Required: true, Description: "Subject line"},
				{Name: "body", Type: common.ParamString, Required: true, Description: "Plain text body"},
				{Name: "cc", Type: common.ParamStringList, Description: "CC addresses"},
				{Name: "bcc", Type: common.ParamStringList, Description: "BCC addresses"},
				{Name: "attachment_paths", Type: common.ParamStringList, Description: "Local file paths to attach"},
			},
			Handler: common.Bind(sendEmail),
		},
	}
}
