package connectors

import (
	"github.com/nachoviau/automatizacion-broker/internal/storage"
)

// FetchService pulls new policy mail from a provider and lands every
// message in the documents table, ready for the processing pipeline.
type FetchService struct {
	connector MailConnector
	store     *MailStoreService
}

// FetchResult summarizes one intake pass. Pending counts the documents
// left in "fetched" state; messages seen on an earlier pass keep their
// processed or exported status and are not counted again.
type FetchResult struct {
	Fetched int
	Stored  int
	Pending int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector) *FetchService {
	return &FetchService{
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
	}
}

func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		doc, err := s.store.Store(msg)
		if err != nil {
			return FetchResult{}, err
		}
		result.Stored++
		if doc.Status == "fetched" {
			result.Pending++
		}
	}

	return result, nil
}
