package domain

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages line up with request bodies.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notemail", func(fl validator.FieldLevel) bool {
		return v.Var(fl.Field().String(), "email") != nil
	})
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return IsImageURL(fl.Field().String())
	})
	return v
}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// IsImageURL reports whether raw points at a .png, .jpg or .jpeg file.
func IsImageURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	return imageExtensions[strings.ToLower(path.Ext(p))]
}

// Validate checks v against its validate tags. Messages are looked up by
// "field.tag" first and then by "field". It returns nil when v is valid.
func Validate(v any, messages map[string]string) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			out[field] = msg
		} else if msg, ok := messages[field]; ok {
			out[field] = msg
		} else {
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}

var spotMessages = map[string]string{
	"address":     "Street address is required",
	"city":        "City is required",
	"state":       "State is required",
	"country":     "Country is required",
	"lat":         "Latitude must be within -90 and 90",
	"lng":         "Longitude must be within -180 and 180",
	"name":        "Name is required",
	"name.max":    "Name must be less than 50 characters",
	"description": "Description is required",
	"price":       "Price per day must be a positive number",
}

// SpotMessages returns a copy of the spot field messages so callers can extend them.
func SpotMessages() map[string]string {
	out := make(map[string]string, len(spotMessages))
	for k, v := range spotMessages {
		out[k] = v
	}
	return out
}

func (in SpotInput) Validate() FieldErrors {
	return Validate(in, spotMessages)
}

func (in SpotImageInput) Validate() FieldErrors {
	return Validate(in, map[string]string{
		"url":          "Image URL is required",
		"url.imageurl": "Image URL must end in .png, .jpg, or .jpeg",
	})
}

func (in ReviewInput) Validate() FieldErrors {
	return Validate(in, map[string]string{
		"review": "Review text is required",
		"stars":  "Stars must be an integer from 1 to 5",
	})
}

func (in SignupInput) Validate() FieldErrors {
	return Validate(in, map[string]string{
		"email":             "Please provide a valid email.",
		"username":          "Please provide a username with at least 4 characters.",
		"username.notemail": "Username cannot be an email.",
		"firstName":         "Please provide a first name.",
		"lastName":          "Please provide a last name.",
		"password":          "Password must be 6 characters or more.",
	})
}

func (in LoginInput) Validate() FieldErrors {
	return Validate(in, map[string]string{
		"credential": "Email or username is required",
		"password":   "Password is required",
	})
}
