package model

import "time"

// Attachment is a file (typically a photo of the job) stored alongside a booking.
type Attachment struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"-"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	URL         string    `json:"url,omitempty"`
}
