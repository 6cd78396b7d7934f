package model

import "time"

// ScanRecord is one persisted prediction event with geolocation and the
// public URL of the uploaded image. Records are append-only: created once
// when a prediction request completes, never mutated. The ID and CreatedAt
// fields are assigned by the scan store, never by the caller.
type ScanRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	ImageURL     string    `json:"image_url"`
	Prediction   string    `json:"prediction"`
	Confidence   float64   `json:"confidence"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Municipality string    `json:"municipality,omitempty"`
	Barangay     string    `json:"barangay,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
