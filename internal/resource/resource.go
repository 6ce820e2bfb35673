// Package resource implements the client-side operations on spots, reviews
// and the session. Each operation talks to the API through the transport and
// dispatches the outcome into the shared state store.
package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vbonduro/atozbnb/internal/client"
	"github.com/vbonduro/atozbnb/internal/domain"
)

// fetcher is the subset of client.Client the resources use.
type fetcher interface {
	Do(ctx context.Context, method, path string, body, out any, opts ...client.Option) error
}

// ValidationError is returned when a form fails validation before any request
// is sent.
type ValidationError struct {
	Fields domain.FieldErrors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

func invalid(fields domain.FieldErrors) error {
	return &ValidationError{Fields: fields}
}

// ImageFailure records one image that could not be attached.
type ImageFailure struct {
	URL     string
	Preview bool
	Err     error
}

// ImageAttachError reports images that failed to attach to a spot that was
// created anyway.
type ImageAttachError struct {
	SpotID   int64
	Failures []ImageFailure
}

func (e *ImageAttachError) Error() string {
	urls := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		urls = append(urls, f.URL)
	}
	return fmt.Sprintf("spot %d created but %d image(s) failed to attach: %s",
		e.SpotID, len(e.Failures), strings.Join(urls, ", "))
}

func (e *ImageAttachError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// FieldErrors extracts field level messages from a client validation error
// or an API error response. It returns nil for other errors.
func FieldErrors(err error) domain.FieldErrors {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
		return domain.FieldErrors(apiErr.Errors)
	}
	return nil
}
