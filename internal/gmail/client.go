package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// userID addresses the authenticated user in every Gmail call.
	userID = "me"

	// maxPageSize is the largest page the Gmail list endpoint returns.
	maxPageSize = 500

	inboxLabel = "INBOX"
)

// Client wraps the Gmail Users service.
type Client struct {
	svc *gmail.UsersService
}

// NewClient returns a Client bound to svc.
func NewClient(svc *gmail.Service) *Client {
	return &Client{svc: svc.Users}
}

// Search lists messages matching criteria and fetches each in full.
// Messages are returned in the order the listing returns them.
func (c *Client) Search(ctx context.Context, criteria SearchCriteria, maxResults int) ([]*Message, error) {
	return c.listMessages(ctx, criteria.Query(), nil, maxResults)
}

// ListRecent returns the newest inbox messages with their bodies.
func (c *Client) ListRecent(ctx context.Context, query string, maxResults int) ([]*Message, error) {
	return c.listMessages(ctx, query, []string{inboxLabel}, maxResults)
}

func (c *Client) listMessages(ctx context.Context, query string, labels []string, maxResults int) ([]*Message, error) {
	if maxResults <= 0 {
		return []*Message{}, nil
	}

	var refs []*gmail.Message
	pageToken := ""
	for len(refs) < maxResults {
		pageSize := min(maxResults-len(refs), maxPageSize)

		call := c.svc.Messages.List(userID).Context(ctx).MaxResults(int64(pageSize))
		if query != "" {
			call = call.Q(query)
		}
		if len(labels) > 0 {
			call = call.LabelIds(labels...)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		refs = append(refs, res.Messages...)

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}
	if len(refs) > maxResults {
		refs = refs[:maxResults]
	}

	messages := make([]*Message, 0, len(refs))
	for _, ref := range refs {
		full, err := c.GetMessage(ctx, ref.Id)
		if err != nil {
			return nil, err
		}
		messages = append(messages, full)
	}
	return messages, nil
}

// GetMessage retrieves a message in full format and normalizes it.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	msg, err := c.svc.Messages.Get(userID, messageID).Context(ctx).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return toMessage(msg), nil
}

// Send builds the RFC 2822 message and sends it. Attachment paths that do
// not exist are skipped and reported in the result.
func (c *Client) Send(ctx context.Context, msg *OutgoingMessage) (*SentMessage, error) {
	raw, skipped, err := msg.Build()
	if err != nil {
		return nil, err
	}

	sent, err := c.svc.Messages.Send(userID, &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return &SentMessage{
		ID:                 sent.Id,
		ThreadID:           sent.ThreadId,
		SkippedAttachments: skipped,
	}, nil
}
