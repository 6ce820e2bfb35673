package view

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/atozbnb/internal/client"
	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/resource"
)

func TestStatusFail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{
			name: "nil error clears loading only",
			err:  nil,
			want: Status{},
		},
		{
			name: "client validation",
			err:  &resource.ValidationError{Fields: domain.FieldErrors{"name": "Name is required"}},
			want: Status{Errors: domain.FieldErrors{"name": "Name is required"}},
		},
		{
			name: "api field errors",
			err:  &client.APIError{Status: http.StatusBadRequest, Message: "Bad Request", Errors: map[string]string{"price": "Price per day is required"}},
			want: Status{Errors: domain.FieldErrors{"price": "Price per day is required"}},
		},
		{
			name: "not found",
			err:  &client.APIError{Status: http.StatusNotFound, Message: "Spot couldn't be found"},
			want: Status{NotFound: true},
		},
		{
			name: "api message",
			err:  &client.APIError{Status: http.StatusForbidden, Message: "Forbidden"},
			want: Status{Banner: "Forbidden"},
		},
		{
			name: "server error",
			err:  &client.APIError{Status: http.StatusInternalServerError, Message: "Internal server error"},
			want: Status{Banner: MsgSomethingWrong},
		},
		{
			name: "partial image failure",
			err: &resource.ImageAttachError{SpotID: 1, Failures: []resource.ImageFailure{
				{URL: "https://example.com/a.png", Err: &client.APIError{Status: http.StatusBadRequest, Message: "Bad Request"}},
			}},
			want: Status{Banner: MsgImagesFailed},
		},
		{
			name: "transport failure",
			err:  &client.TransportError{Method: http.MethodGet, Path: "/api/spots", Err: errors.New("connection refused")},
			want: Status{Banner: MsgSomethingWrong},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Status
			s.begin()
			s.Record(tt.err)
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.err != nil, s.Failed())
		})
	}
}

func TestStatusBeginResets(t *testing.T) {
	s := Status{NotFound: true, Banner: "old", Errors: domain.FieldErrors{"a": "b"}}
	s.begin()
	assert.Equal(t, Status{Loading: true}, s)
}

func TestConfirm(t *testing.T) {
	var c Confirm
	assert.False(t, c.Pending())
	assert.ErrorIs(t, c.Confirm(context.Background()), ErrNothingToConfirm)

	calls := 0
	c.Request("Confirm Delete", "Are you sure?", "Yes", "No", func(context.Context) error {
		calls++
		return nil
	})
	require.True(t, c.Pending())
	assert.Equal(t, "Confirm Delete", c.Title)

	require.NoError(t, c.Confirm(context.Background()))
	assert.Equal(t, 1, calls)
	assert.False(t, c.Pending())
	assert.ErrorIs(t, c.Confirm(context.Background()), ErrNothingToConfirm)
	assert.Equal(t, 1, calls)
}

func TestConfirmCancel(t *testing.T) {
	var c Confirm
	c.Request("Confirm Delete", "Are you sure?", "Yes", "No", func(context.Context) error {
		t.Fatal("cancelled action must not run")
		return nil
	})
	c.Cancel()
	assert.False(t, c.Pending())
	assert.Empty(t, c.Prompt)
}
