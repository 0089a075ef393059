package entity

import "time"

// Document mirrors the `documents` table schema. URL is the unique key.
type Document struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
