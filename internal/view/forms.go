package view

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to its first validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range formFieldOrder {
		if msg, ok := fe[f]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

var formFieldOrder = []string{"title", "description", "image", "genre", "username", "email", "password"}

type BookForm struct {
	Title       string `form:"title" validate:"min=2,max=100"`
	Description string `form:"description" validate:"min=10,max=1000"`
	Image       string `form:"image" validate:"required,url"`
	Genre       string `form:"genre" validate:"min=2,max=50"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"min=6"`
}

type RegisterForm struct {
	Username string `form:"username" validate:"min=3"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=6"`
}

// messages is keyed by "field.tag".
var messages = map[string]string{
	"title.min":       "Title must be at least 2 characters",
	"title.max":       "Title must be less than 100 characters",
	"description.min": "Description must be at least 10 characters",
	"description.max": "Description must be less than 1000 characters",
	"image.required":  "Image URL is required",
	"image.url":       "Please enter a valid image URL",
	"genre.min":       "Genre must be at least 2 characters",
	"genre.max":       "Genre must be less than 50 characters",

	"username.required": "Username is required",
	"username.min":      "Username must be at least 3 characters",
	"email.required":    "Email is required",
	"email.email":       "Please enter a valid email address",
	"password.min":      "Password must be at least 6 characters",
}

var (
	formOnce     sync.Once
	formValidate *validator.Validate
)

func formValidator() *validator.Validate {
	formOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			return f.Tag.Get("form")
		})
		formValidate = v
	})
	return formValidate
}

func validateForm(form any) FieldErrors {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = field + " is invalid"
		}
		out[field] = msg
	}
	return out
}

// Validate returns nil when the form can be submitted.
func (f BookForm) Validate() FieldErrors { return validateForm(f) }

func (f LoginForm) Validate() FieldErrors { return validateForm(f) }

func (f RegisterForm) Validate() FieldErrors { return validateForm(f) }
