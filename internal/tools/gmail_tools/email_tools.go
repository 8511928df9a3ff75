package gmail_tools

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"

	"github.com/teemow/gworkspace-mcp/internal/gmail"
	"github.com/teemow/gworkspace-mcp/internal/logging"
	"github.com/teemow/gworkspace-mcp/internal/toolerr"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

func searchEmails(ctx context.Context, args common.Args, client *gmail.Client) (any, error) {
	criteria := gmail.SearchCriteria{
		Keyword:  args.String("keyword"),
		From:     args.String("from_email"),
		Subject:  args.String("subject"),
		IsUnread: args.Bool("is_unread"),
		After:    args.Date("after"),
		Before:   args.Date("before"),
	}
	if !criteria.After.IsZero() && !criteria.Before.IsZero() && !criteria.Before.After(criteria.After) {
		return nil, toolerr.InvalidArgument("before", "before must be later than after")
	}

	messages, err := client.Search(ctx, criteria, args.Int("max_results"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"messages": nonNil(messages)}, nil
}

func listRecentEmails(ctx context.Context, args common.Args, client *gmail.Client) (any, error) {
	messages, err := client.ListRecent(ctx, args.String("query"), args.Int("max_results"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"messages": nonNil(messages)}, nil
}

func sendEmail(ctx context.Context, args common.Args, client *gmail.Client) (any, error) {
	msg := &gmail.OutgoingMessage{
		To:              args.StringList("to"),
		Cc:              args.StringList("cc"),
		Bcc:             args.StringList("bcc"),
		Subject:         args.String("subject"),
		Body:            args.String("body"),
		AttachmentPaths: args.StringList("attachment_paths"),
	}

	for field, addrs := range map[string][]string{"to": msg.To, "cc": msg.Cc, "bcc": msg.Bcc} {
		for _, addr := range addrs {
			if _, err := mail.ParseAddress(addr); err != nil {
				return nil, toolerr.InvalidArgument(field, "invalid address %q", addr)
			}
		}
	}
	if len(msg.To) == 0 {
		return nil, toolerr.InvalidArgument("to", "at least one recipient is required")
	}

	sent, err := client.Send(ctx, msg)
	if errors.Is(err, gmail.ErrAttachment) {
		return nil, toolerr.InvalidArgument("attachment_paths", "%v", err)
	}
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("email sent",
		logging.Recipient(msg.To[0]),
		slog.Int("recipients", len(msg.To)+len(msg.Cc)+len(msg.Bcc)))

	out := map[string]any{"id": sent.ID, "threadId": sent.ThreadID}
	if len(sent.SkippedAttachments) > 0 {
		out["skippedAttachments"] = sent.SkippedAttachments
	}
	return out, nil
}

func nonNil(messages []*gmail.Message) []*gmail.Message {
	if messages == nil {
		return []*gmail.Message{}
	}
	return messages
}
