package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholaris/resultportal/internal/app/models"
)

func TestStore_SlotsAreMutuallyExclusive(t *testing.T) {
	admin := &models.Admin{ID: "a1", FullName: "Ada Obi"}
	student := &models.Student{ID: "s1", StudentID: "S001", FullName: "Jane Doe"}

	s := New()
	assert.Equal(t, KindNone, s.Kind())
	assert.Nil(t, s.Actor())

	s.SetAdmin(admin)
	s.SetStudent(student)
	assert.Nil(t, s.Admin())
	assert.Equal(t, student, s.Student())
	assert.Equal(t, KindStudent, s.Kind())

	s.SetAdmin(admin)
	assert.Equal(t, admin, s.Admin())
	assert.Nil(t, s.Student())
	assert.Equal(t, KindAdmin, s.Kind())
}

func TestStore_Login(t *testing.T) {
	s := New()
	s.Login(&models.Student{ID: "s1"})
	assert.Equal(t, KindStudent, s.Kind())
	assert.Equal(t, models.ActorStudent, s.Actor().Kind())

	s.Login(&models.Admin{ID: "a1"})
	assert.Equal(t, KindAdmin, s.Kind())
	assert.Nil(t, s.Student())
}

func TestStore_SetNilClearsOnlyThatSlot(t *testing.T) {
	s := New()
	s.SetStudent(&models.Student{ID: "s1"})
	s.SetAdmin(nil)
	assert.Equal(t, KindStudent, s.Kind())

	s.SetStudent(nil)
	assert.False(t, s.Authenticated())
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	var s Store
	s.Logout()
	assert.Equal(t, KindNone, s.Kind())

	s.SetAdmin(&models.Admin{ID: "a1"})
	s.Logout()
	s.Logout()
	assert.Nil(t, s.Admin())
	assert.Nil(t, s.Student())
	assert.False(t, s.Authenticated())
}
