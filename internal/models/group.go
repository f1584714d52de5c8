package models

// Group is a container for shared expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Goa Trip", "Flatmates").
	Name string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
