package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/resource"
	"github.com/vbonduro/atozbnb/internal/view"
)

func newSpotsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spots",
		Short: "Browse and manage spots",
	}
	cmd.AddCommand(
		newSpotsListCmd(e),
		newSpotsShowCmd(e),
		newSpotsMineCmd(e),
		newSpotsCreateCmd(e),
		newSpotsEditCmd(e),
		newSpotsDeleteCmd(e),
		newSpotsAddImageCmd(e),
		newSpotsUploadCmd(e),
	)
	return cmd
}

func newSpotsListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every spot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), e, false)
			if err != nil {
				return err
			}
			list := view.NewSpotsList(app)
			list.Mount(cmd.Context())
			if list.Status.Failed() {
				return statusError(list.Status, nil)
			}
			renderCards(cmd.OutOrStdout(), list.Cards())
			return nil
		},
	}
}

func newSpotsShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <spot-id>",
		Short: "Show a spot with its images and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "spot")
			if err != nil {
				return err
			}
			app, err := newApp(cmd.Context(), e, false)
			if err != nil {
				return err
			}
			details := view.NewSpotDetails(app, id)
			details.Mount(cmd.Context())
			if details.Status.Failed() || details.Spot() == nil {
				return statusError(details.Status, fmt.Errorf("spot %d not loaded", id))
			}
			renderDetails(cmd.OutOrStdout(), details)
			return nil
		},
	}
}

func newSpotsMineCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the spots you own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), e, true)
			if err != nil {
				return err
			}
			manage := view.NewManageSpots(app)
			manage.Mount(cmd.Context())
			if manage.Status.Failed() {
				return statusError(manage.Status, nil)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Manage Spots")
			renderCards(cmd.OutOrStdout(), manage.Cards())
			return nil
		},
	}
}

// spotFlags binds the spot fields to flags. Only flags set on the command line
// are applied to the form, so edits keep the prefilled values.
type spotFlags struct {
	in      domain.SpotInput
	preview string
	images  []string
}

func (f *spotFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.in.Address, "address", "", "street address")
	fs.StringVar(&f.in.City, "city", "", "city")
	fs.StringVar(&f.in.State, "state", "", "state")
	fs.StringVar(&f.in.Country, "country", "", "country")
	fs.Float64Var(&f.in.Lat, "lat", 0, "latitude")
	fs.Float64Var(&f.in.Lng, "lng", 0, "longitude")
	fs.StringVar(&f.in.Name, "name", "", "name of the spot")
	fs.StringVar(&f.in.Description, "description", "", "description of the spot (required)")
	fs.Float64Var(&f.in.Price, "price", 0, "price per night")
}

func (f *spotFlags) apply(fs *pflag.FlagSet, form *resource.SpotForm) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("address", func() { form.Address = f.in.Address })
	set("city", func() { form.City = f.in.City })
	set("state", func() { form.State = f.in.State })
	set("country", func() { form.Country = f.in.Country })
	set("lat", func() { form.Lat = f.in.Lat })
	set("lng", func() { form.Lng = f.in.Lng })
	set("name", func() { form.Name = f.in.Name })
	set("description", func() { form.Description = f.in.Description })
	set("price", func() { form.Price = f.in.Price })
}

func newSpotsCreateCmd(e *env) *cobra.Command {
	var flags spotFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new spot with a preview image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), e, true)
			if err != nil {
				return err
			}
			form := view.NewSpotForm(app)
			flags.apply(cmd.Flags(), &form.Form)
			form.Form.PreviewImage = flags.preview
			form.Form.ImageURLs = flags.images

			spot, err := form.Submit(cmd.Context())
			if spot != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Created spot %d: %s\n", spot.ID, spot.Name)
			}
			if err != nil {
				return statusError(form.Status, err)
			}
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&flags.preview, "preview", "", "preview image URL (.png, .jpg or .jpeg)")
	cmd.Flags().StringArrayVar(&flags.images, "image", nil, "additional image URL, repeatable")
	return cmd
}

func newSpotsEditCmd(e *env) *cobra.Command {
	var flags spotFlags
	cmd := &cobra.Command{
		Use:   "edit <spot-id>",
		Short: "Update a spot you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "spot")
			if err != nil {
				return err
			}
			app, err := newApp(cmd.Context(), e, true)
			if err != nil {
				return err
			}
			form := view.EditSpotForm(app, id)
			form.Mount(cmd.Context())
			if form.Status.Failed() {
				return statusError(form.Status, nil)
			}
			flags.apply(cmd.Flags(), &form.Form)

			spot, err := form.Submit(cmd.Context())
			if err != nil {
				return statusError(form.Status, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated spot %d: %s\n", spot.ID, spot.Name)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newSpotsDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <spot-id>",
		Short: "Delete a spot you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "spot")
			if err != nil {
				return err
			}
			app, err := newApp(cmd.Context(), e, true)
			if err != nil {
				return err
			}
			manage := view.NewManageSpots(app)
			manage.RequestDelete(id)
			if err := confirm(cmd, &manage.Confirm, e.yes); err != nil {
				return err
			}
			if err := manage.ConfirmDelete(cmd.Context()); err != nil {
				return statusError(manage.Status, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted spot %d\n", id)
			return nil
		},
	}
}

func newSpotsAddImageCmd(e *env) *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "add-image <spot-id> <url>",
		Short: "Attach an image URL to a spot you own",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "spot")
			if err != nil {
				return err
			}
			app, err := newApp(cmd.Context(), e, true)
			if err != nil {
				return err
			}
			img, err := app.Spots.AddImage(cmd.Context(), id, args[1], preview)
			if err != nil {
				return requestError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added image %d to spot %d\n", img.ID, id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "make this the preview image")
	return cmd
}

func newSpotsUploadCmd(e *env) *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "upload <spot-id> <file>",
		Short: "Upload an image file to a spot you own",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "spot")
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer func() { _ = f.Close() }()

			app, err := newApp(cmd.Context(), e, true)
			if err != nil {
				return err
			}
			img, err := app.Spots.UploadImage(cmd.Context(), id, filepath.Base(args[1]), f, preview)
			if err != nil {
				return requestError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded image %d to spot %d: %s\n", img.ID, id, img.URL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "make this the preview image")
	return cmd
}

// requestError renders a failed resource call with the same rules as screens.
func requestError(err error) error {
	var s view.Status
	s.Record(err)
	return statusError(s, err)
}
