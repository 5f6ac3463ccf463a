package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/nachoviau/automatizacion-broker/internal"
	"github.com/nachoviau/automatizacion-broker/internal/storage"
)

type MailStoreService struct {
	db         *storage.DB
	rawMailDir string
}

func NewMailStoreService(db *storage.DB, rawMailDir string) *MailStoreService {
	return &MailStoreService{db: db, rawMailDir: rawMailDir}
}

// Store writes the raw message to disk under its content hash and registers
// it as a pending document. Re-fetching the same message is a no-op.
func (s *MailStoreService) Store(msg internal.FetchedMailMessage) (internal.DocumentRow, error) {
	hashBytes := sha256.Sum256(msg.Raw)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.rawMailDir, 0o755); err != nil {
		return internal.DocumentRow{}, err
	}

	rawPath := filepath.Join(s.rawMailDir, hash+".eml")
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, msg.Raw, 0o644); err != nil {
			return internal.DocumentRow{}, err
		}
	}

	return s.db.UpsertDocument(msg.Provider, msg.MessageID, msg.Subject, msg.From, msg.ReceivedAt, hash, string(internal.FormatEML), rawPath, "fetched")
}
