package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/atozbnb/internal/client"
	"github.com/vbonduro/atozbnb/internal/resource"
	"github.com/vbonduro/atozbnb/internal/state"
	"github.com/vbonduro/atozbnb/internal/view"
)

var errCancelled = errors.New("cancelled")

// newApp wires the client side against the configured API. When credentials
// were given the session is logged in first.
func newApp(ctx context.Context, e *env, requireLogin bool) (*view.App, error) {
	c, err := client.New(e.cfg.APIURL, e.cfg.HTTPTimeout, e.logger)
	if err != nil {
		return nil, err
	}

	st := state.NewStore()
	st.Subscribe(func(a state.Action, s state.State) {
		e.logger.Debug("state changed",
			"action", a.Type(),
			"spots", len(s.Spots.All),
			"reviews", len(s.Reviews.Spot),
			"logged_in", s.Session.User != nil)
	})
	app := &view.App{
		Store:   st,
		Spots:   resource.NewSpots(c, st, e.cfg.OwnerCacheTTL, e.logger),
		Reviews: resource.NewReviews(c, st, e.logger),
		Session: resource.NewSession(c, st, e.logger),
	}

	if e.credential == "" {
		if requireLogin {
			return nil, errors.New("this command needs --credential and --password (or ATOZBNB_CREDENTIAL and ATOZBNB_PASSWORD)")
		}
		return app, nil
	}

	login := view.NewLoginForm(app)
	login.Credential, login.Password = e.credential, e.password
	if _, err := login.Submit(ctx); err != nil {
		return nil, statusError(login.Status, err)
	}
	return app, nil
}

// statusError turns a screen status into the error reported by a command.
func statusError(s view.Status, err error) error {
	switch {
	case s.NotFound:
		return errors.New("not found")
	case len(s.Errors) > 0:
		keys := make([]string, 0, len(s.Errors))
		for k := range s.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s: %s", k, s.Errors[k]))
		}
		return fmt.Errorf("invalid input:\n%s", strings.Join(lines, "\n"))
	case s.Banner != "":
		return errors.New(s.Banner)
	}
	return err
}

// confirm shows the armed prompt and reads y/yes from in unless assumeYes.
func confirm(cmd *cobra.Command, c *view.Confirm, assumeYes bool) error {
	if assumeYes {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s [y/N]: ", c.Title, c.Prompt)
	ok, err := readYes(cmd.InOrStdin())
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), c.No)
		c.Cancel()
		return errCancelled
	}
	return nil
}

func readYes(in io.Reader) (bool, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func parseIDArg(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}
