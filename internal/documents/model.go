package documents

import "time"

// Document lifecycle states.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Document represents an uploaded resume owned by a session.
type Document struct {
	ID          string
	SessionID   string
	FileName    string
	StorageKey  string
	MimeType    string
	SizeBytes   int64
	PageCount   int
	FileHash    string
	Status      string
	Warnings    []string
	ExpiresAt   time.Time
	DestroyedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExtractedKey is the storage key of the derived plain-text object.
func (d Document) ExtractedKey() string {
	return d.StorageKey + ".extracted.txt"
}
