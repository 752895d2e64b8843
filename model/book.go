// model/book.go
package model

import "time"

type Book struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	Category       string    `json:"category"`
	ISBN           *string   `json:"isbn,omitempty"`
	Publisher      *string   `json:"publisher,omitempty"`
	Description    *string   `json:"description,omitempty"`
	TotalCount     int64     `json:"total_count"`
	AvailableCount int64     `json:"available_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Availability is the counter pair clients poll before requesting a book.
type Availability struct {
	Available int64 `json:"available"`
	Total     int64 `json:"total"`
}
