package models

import "time"

// UploadedFile mirrors exactly one object in the object store.
type UploadedFile struct {
	ID        string    `db:"id"         json:"id"`
	URL       string    `db:"url"        json:"url"`
	FileName  string    `db:"file_name"  json:"fileName"`
	UserID    string    `db:"user_id"    json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
