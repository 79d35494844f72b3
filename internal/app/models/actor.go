package models

// ActorType identifies which kind of identity performed an action
type ActorType string

const (
	ActorAdmin   ActorType = "admin"
	ActorStudent ActorType = "student"
)

// Valid reports whether t is one of the known actor types
func (t ActorType) Valid() bool {
	return t == ActorAdmin || t == ActorStudent
}

// Actor is an authenticated identity. Admin and Student are the only implementations.
type Actor interface {
	Kind() ActorType
	ActorID() string
	DisplayName() string
}
