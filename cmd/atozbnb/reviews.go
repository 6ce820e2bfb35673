package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/atozbnb/internal/view"
)

func newReviewsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write reviews",
	}
	cmd.AddCommand(
		newReviewsListCmd(e),
		newReviewsCreateCmd(e),
		newReviewsDeleteCmd(e),
	)
	return cmd
}

func mountDetails(cmd *cobra.Command, e *env, arg string, requireLogin bool) (*view.App, *view.SpotDetails, error) {
	id, err := parseIDArg(arg, "spot")
	if err != nil {
		return nil, nil, err
	}
	app, err := newApp(cmd.Context(), e, requireLogin)
	if err != nil {
		return nil, nil, err
	}
	details := view.NewSpotDetails(app, id)
	details.Mount(cmd.Context())
	if details.Status.Failed() || details.Spot() == nil {
		return nil, nil, statusError(details.Status, fmt.Errorf("spot %d not loaded", id))
	}
	return app, details, nil
}

func newReviewsListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list <spot-id>",
		Short: "List the reviews of a spot, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, details, err := mountDetails(cmd, e, args[0], false)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "★ %s · %s\n", details.RatingLabel(), details.ReviewCountLabel())
			renderReviews(cmd.OutOrStdout(), details)
			return nil
		},
	}
}

func newReviewsCreateCmd(e *env) *cobra.Command {
	var body string
	var stars int
	cmd := &cobra.Command{
		Use:   "create <spot-id>",
		Short: "Post a review for a spot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, details, err := mountDetails(cmd, e, args[0], true)
			if err != nil {
				return err
			}
			if !details.CanPostReview() {
				return fmt.Errorf("you cannot review spot %d: it is yours or you already reviewed it", details.SpotID)
			}

			form := view.NewReviewForm(app, details.SpotID)
			form.Form.Body = body
			form.Form.Stars = stars
			review, err := form.Submit(cmd.Context())
			if err != nil {
				return statusError(form.Status, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted review %d (%d★). Spot rating is now %s.\n",
				review.ID, review.Stars, details.RatingLabel())
			return nil
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "review text, at least 10 characters")
	cmd.Flags().IntVar(&stars, "stars", 0, "rating from 1 to 5")
	return cmd
}

func newReviewsDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <spot-id> <review-id>",
		Short: "Delete your review of a spot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewID, err := parseIDArg(args[1], "review")
			if err != nil {
				return err
			}
			_, details, err := mountDetails(cmd, e, args[0], true)
			if err != nil {
				return err
			}
			details.RequestDeleteReview(reviewID)
			if err := confirm(cmd, &details.Confirm, e.yes); err != nil {
				return err
			}
			if err := details.ConfirmDelete(cmd.Context()); err != nil {
				return statusError(details.Status, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted review %d\n", reviewID)
			return nil
		},
	}
}
