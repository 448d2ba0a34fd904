package model

import "time"

// RawMessage is a single SMS as observed by any of the ingestion sources.
// It is never persisted; only records derived from it are.
type RawMessage struct {
	ReceivedAt time.Time `json:"date"`
	Body       string    `json:"body"`
	Sender     string    `json:"address"`
}
