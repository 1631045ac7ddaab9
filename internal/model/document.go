package model

import (
	"encoding/json"
	"time"
)

// DocxContentType is the MIME type of stored rendered books
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Document is a finished rendered artifact kept in the document store
type Document struct {
	ID           string          `json:"id"`
	Filename     string          `json:"filename"`
	Title        string          `json:"title"`
	Language     string          `json:"language"`
	Author       string          `json:"author"`
	CreatedAt    time.Time       `json:"createdAt"`
	StoriesCount int             `json:"storiesCount"`
	Metadata     json.RawMessage `json:"metadata,omitempty"` // Serialized BookMetadata as supplied by the caller
	Data         []byte          `json:"-"`                  // Never included in listings
}
