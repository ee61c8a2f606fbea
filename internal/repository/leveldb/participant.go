package leveldb

import "time"

var now = time.Now

// PasswordHash is tagged json:"-" on the domain type, so records use their
// own shape on disk.
type storedParticipant struct {
	ID           string    `json:"id"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
