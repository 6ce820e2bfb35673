package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/state"
	"github.com/vbonduro/atozbnb/internal/view"
)

func renderCards(w io.Writer, cards []view.SpotCard) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No spots yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tPRICE\tRATING")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t★ %s\n", c.ID, c.Name, c.Location, c.Price, c.Rating)
	}
	_ = tw.Flush()
}

func renderDetails(w io.Writer, v *view.SpotDetails) {
	spot := v.Spot()
	fmt.Fprintf(w, "%s\n%s, %s, %s\n\n", spot.Name, spot.City, spot.State, spot.Country)

	for _, img := range spot.SpotImages {
		marker := " "
		if img.Preview {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, img.URL)
	}
	if len(spot.SpotImages) > 0 {
		fmt.Fprintln(w)
	}

	if spot.Owner != nil {
		fmt.Fprintf(w, "Hosted by %s %s\n", spot.Owner.FirstName, spot.Owner.LastName)
	}
	fmt.Fprintf(w, "%s\n\n%s  ★ %s · %s\n\n", spot.Description, state.PriceLabel(spot.Price),
		v.RatingLabel(), v.ReviewCountLabel())

	renderReviews(w, v)
}

func renderReviews(w io.Writer, v *view.SpotDetails) {
	if v.CanPostReview() {
		fmt.Fprintln(w, "How was your stay? Post your review with `atozbnb reviews create`.")
	}
	reviews := v.Reviews()
	if len(reviews) == 0 {
		if v.CanPostReview() {
			fmt.Fprintln(w, "Be the first to post a review!")
		}
		return
	}
	for _, r := range reviews {
		fmt.Fprintf(w, "#%d %s, %s (%d★)\n  %s\n", r.ID, author(r), state.ReviewDate(r.CreatedAt), r.Stars, r.Body)
		if v.CanDeleteReview(r) {
			fmt.Fprintln(w, "  (yours: delete with `atozbnb reviews delete`)")
		}
	}
}

func renderUser(w io.Writer, user *domain.User) {
	if user == nil {
		fmt.Fprintln(w, "Not logged in.")
		return
	}
	fmt.Fprintf(w, "%s (%s %s) <%s> id %d\n", user.Username, user.FirstName, user.LastName, user.Email, user.ID)
}

func author(r domain.Review) string {
	if r.User == nil {
		return fmt.Sprintf("user %d", r.UserID)
	}
	return r.User.FirstName
}
