// Package gmail provides a client for the Gmail API.
//
// The client covers the mail surface of the server: searching messages with
// structured filters, listing recent inbox messages with their decoded
// bodies, and sending plain text messages with optional file attachments.
//
// A Client is bound to one *gmail.Service, which in turn carries one access
// token. Building the service is the caller's job:
//
//	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
//	if err != nil {
//	    return err
//	}
//	client := gmailclient.NewClient(svc)
//
//	msgs, err := client.Search(ctx, gmailclient.SearchCriteria{
//	    From:     "alice@example.com",
//	    IsUnread: true,
//	}, 10)
package gmail
