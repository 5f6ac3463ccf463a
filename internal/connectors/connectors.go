package connectors

import "github.com/nachoviau/automatizacion-broker/internal"

// MailConnector is the provider side of policy mail intake. FetchInbox
// returns up to max unread messages under the given label with their raw
// RFC 822 bytes, so the stored .eml can be reparsed at any time.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}
