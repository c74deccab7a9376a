package types

// ConsoleRecord is one console entry in the catalog.
// ReleaseYear is free text, like GameRecord.Year.
type ConsoleRecord struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name" validate:"notblank"`
	Description    string  `json:"description" validate:"notblank"`
	Manufacturer   string  `json:"manufacturer"`
	ReleaseYear    string  `json:"release_year"`
	Generation     string  `json:"generation"`
	ImageReference *string `json:"image_reference,omitempty" validate:"required"`
}

// RecordID returns the store-assigned identifier.
func (c ConsoleRecord) RecordID() int64 { return c.ID }

// ImageRef returns a pointer to ref, or nil when ref is empty. Helper for
// callers that gather the image reference as a plain string.
func ImageRef(ref string) *string {
	if ref == "" {
		return nil
	}
	return &ref
}
