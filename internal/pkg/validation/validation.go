package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/pkg/auth"
)

var (
	// Translator renders validation errors in English
	Translator ut.Translator

	once sync.Once

	// custom validation tags & texts
	termTag  = "term"
	termText = "{0} must be one of First Term, Second Term or Third Term"
	pinTag   = "pin"
	pinText  = "{0} must be exactly 4 digits"
)

// Setup registers the custom tags and English translations on gin's validator.
// It is safe to call more than once.
func Setup() {
	once.Do(func() {
		validate, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Register(validate)
	})
}

// Register installs the custom tags and translations on validate
func Register(validate *validator.Validate) {
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = validate.RegisterValidation(termTag, termValidation)
	registerCustomTranslation(validate, termTag, termText)
	_ = validate.RegisterValidation(pinTag, pinValidation)
	registerCustomTranslation(validate, pinTag, pinText)
}

func registerCustomTranslation(validate *validator.Validate, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func termValidation(fl validator.FieldLevel) bool {
	return models.Term(fl.Field().String()).Valid()
}

func pinValidation(fl validator.FieldLevel) bool {
	return auth.IsValidPIN(fl.Field().String())
}

// FieldMessages maps each invalid field to a readable message.
// It returns nil when err carries no validator errors.
func FieldMessages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg := fe.Error()
		if Translator != nil {
			msg = fe.Translate(Translator)
		}
		out[fieldPath(fe)] = msg
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace: "ResultRequest.subjects[0].score" -> "subjects[0].score"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
