// Package session holds the identity of one authenticated client.
package session

import "github.com/scholaris/resultportal/internal/app/models"

// Kind reports which identity slot, if any, is occupied
type Kind string

const (
	KindNone    Kind = "none"
	KindAdmin   Kind = "admin"
	KindStudent Kind = "student"
)

// Store holds at most one of an admin or a student. Filling one slot clears the other.
// The zero value is an anonymous session.
type Store struct {
	admin   *models.Admin
	student *models.Student
}

// New returns an anonymous session
func New() *Store {
	return &Store{}
}

// Login stores the actor in its slot and clears the other one
func (s *Store) Login(actor models.Actor) {
	switch a := actor.(type) {
	case *models.Admin:
		s.SetAdmin(a)
	case *models.Student:
		s.SetStudent(a)
	default:
		s.Logout()
	}
}

// SetAdmin stores an admin identity. A nil admin only clears the admin slot.
func (s *Store) SetAdmin(admin *models.Admin) {
	if admin == nil {
		s.admin = nil
		return
	}
	s.admin = admin
	s.student = nil
}

// SetStudent stores a student identity. A nil student only clears the student slot.
func (s *Store) SetStudent(student *models.Student) {
	if student == nil {
		s.student = nil
		return
	}
	s.student = student
	s.admin = nil
}

// Logout clears both slots. Calling it on an anonymous session is a no-op.
func (s *Store) Logout() {
	s.admin = nil
	s.student = nil
}

func (s *Store) Admin() *models.Admin     { return s.admin }
func (s *Store) Student() *models.Student { return s.student }

// Actor returns the stored identity or nil for an anonymous session
func (s *Store) Actor() models.Actor {
	switch {
	case s.admin != nil:
		return s.admin
	case s.student != nil:
		return s.student
	}
	return nil
}

// Kind reports which slot is occupied
func (s *Store) Kind() Kind {
	switch {
	case s.admin != nil:
		return KindAdmin
	case s.student != nil:
		return KindStudent
	}
	return KindNone
}

// Authenticated reports whether any identity is held
func (s *Store) Authenticated() bool {
	return s.Kind() != KindNone
}
