// Package view holds the screen models of the client. A screen triggers
// resource operations on mount or on user action and keeps its own transient
// state: loading flag, field errors, submit banner and not-found flag. Shared
// data stays in the state store.
package view

import (
	"errors"
	"net/http"

	"github.com/vbonduro/atozbnb/internal/client"
	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/resource"
	"github.com/vbonduro/atozbnb/internal/state"
)

const (
	MsgSomethingWrong = "Something went wrong. Please try again."
	MsgImagesFailed   = "The spot was saved, but some images could not be added."
)

// App bundles the resources and store that screens operate on.
type App struct {
	Store   *state.Store
	Spots   *resource.Spots
	Reviews *resource.Reviews
	Session *resource.Session
}

// Status is the transient UI state owned by one screen.
type Status struct {
	Loading  bool
	NotFound bool
	Banner   string
	Errors   domain.FieldErrors
}

func (s *Status) begin() {
	*s = Status{Loading: true}
}

func (s *Status) done() {
	s.Loading = false
}

// Record records err in the status so it can be rendered: client validation and
// API field errors go to Errors, other API errors to Banner, 404 to NotFound
// and transport failures to a generic banner.
func (s *Status) Record(err error) {
	s.Loading = false
	if err == nil {
		return
	}

	var verr *resource.ValidationError
	var attachErr *resource.ImageAttachError
	var apiErr *client.APIError
	switch {
	case errors.As(err, &verr):
		s.Errors = verr.Fields
	case errors.As(err, &attachErr):
		s.Banner = MsgImagesFailed
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Status == http.StatusNotFound:
			s.NotFound = true
		case len(apiErr.Errors) > 0:
			s.Errors = domain.FieldErrors(apiErr.Errors)
		case apiErr.Status >= http.StatusInternalServerError:
			s.Banner = MsgSomethingWrong
		default:
			s.Banner = apiErr.Message
		}
	default:
		s.Banner = MsgSomethingWrong
	}
}

// Failed reports whether the last operation left anything to show the user.
func (s *Status) Failed() bool {
	return s.NotFound || s.Banner != "" || len(s.Errors) > 0
}
