package types

// GameRecord is one video game entry in the catalog.
// ID is zero until the store assigns it on insert and never changes afterwards.
// Year is free text; it is not validated as a number.
type GameRecord struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name" validate:"notblank"`
	Description    string  `json:"description" validate:"notblank"`
	Genre          string  `json:"genre"`
	Year           string  `json:"year"`
	Developer      string  `json:"developer"`
	ImageReference *string `json:"image_reference,omitempty" validate:"required"`
}

// RecordID returns the store-assigned identifier.
func (g GameRecord) RecordID() int64 { return g.ID }
