package entity

// Soft-delete markers shared by every record that is deactivated instead of
// removed. The transition is one-way: an inactive row is never reactivated.
const (
	StatusInactive = 0
	StatusActive   = 1
)
