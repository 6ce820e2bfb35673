package view

import (
	"context"
	"errors"
)

var ErrNothingToConfirm = errors.New("no action awaiting confirmation")

// Confirm guards a destructive action behind an explicit second step.
type Confirm struct {
	Title  string
	Prompt string
	Yes    string
	No     string
	action func(context.Context) error
}

// Request arms the confirmation. Any previously armed action is replaced.
func (c *Confirm) Request(title, prompt, yes, no string, action func(context.Context) error) {
	c.Title, c.Prompt, c.Yes, c.No = title, prompt, yes, no
	c.action = action
}

func (c *Confirm) Pending() bool {
	return c.action != nil
}

// Confirm runs the armed action once and disarms it.
func (c *Confirm) Confirm(ctx context.Context) error {
	if c.action == nil {
		return ErrNothingToConfirm
	}
	action := c.action
	c.Cancel()
	return action(ctx)
}

func (c *Confirm) Cancel() {
	*c = Confirm{}
}
