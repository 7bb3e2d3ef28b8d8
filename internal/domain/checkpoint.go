package domain

import "time"

// Checkpoint is the root record: a named, dated list of todos with uploaded files.
// Не зависит от Gin, Postgres, Redis.
type Checkpoint struct {
	ID        string
	Name      string
	Todos     []string
	Date      time.Time
	Files     []Attachment
	CreatedAt time.Time
}

// Attachment is one uploaded file's metadata. It is embedded in exactly one
// Checkpoint and has no life of its own: removing it means deleting the blob
// and pulling this entry from the owning Checkpoint.
//
// JSON tags are the storage contract: the repository keeps the files list as
// jsonb and the cache marshals whole checkpoints.
type Attachment struct {
	StorageName  string    `json:"storageName"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	AccessPath   string    `json:"accessPath"`
	UploadDate   time.Time `json:"uploadDate"`
}
