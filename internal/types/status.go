package types

// Status is the lifecycle state of a catalog resource such as a plan
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusArchived Status = "archived"
)
