package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Term models.Term `json:"term" binding:"required,term"`
	PIN  string      `json:"pin" binding:"omitempty,pin"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	Register(v)
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidate()

	assert.NoError(t, v.Struct(form{Term: models.TermSecond, PIN: "0421"}))
	assert.NoError(t, v.Struct(form{Term: models.TermThird}))

	err := v.Struct(form{Term: "Fourth Term", PIN: "12a4"})
	require.Error(t, err)

	msgs := FieldMessages(err)
	assert.Equal(t, "term must be one of First Term, Second Term or Third Term", msgs["term"])
	assert.Equal(t, "pin must be exactly 4 digits", msgs["pin"])
}

func TestFieldMessages_DefaultTranslation(t *testing.T) {
	v := newValidate()

	msgs := FieldMessages(v.Struct(form{}))
	assert.Equal(t, "term is a required field", msgs["term"])
}

func TestFieldMessages_NotAValidationError(t *testing.T) {
	assert.Nil(t, FieldMessages(assert.AnError))
}
