package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vbonduro/atozbnb/internal/domain"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password"

type seedSpot struct {
	owner  int
	input  domain.SpotInput
	images []domain.SpotImageInput
}

type seedReview struct {
	author int
	spot   int
	input  domain.ReviewInput
}

var seedUsers = []domain.SignupInput{
	{Email: "demo@user.io", Username: "Demo-lition", FirstName: "Demo", LastName: "Lition"},
	{Email: "user1@user.io", Username: "FakeUser1", FirstName: "Fake", LastName: "User"},
	{Email: "user2@user.io", Username: "FakeUser2", FirstName: "Jane", LastName: "Doe"},
}

var seedSpots = []seedSpot{
	{
		owner: 0,
		input: domain.SpotInput{
			Address: "123 Disney Lane", City: "San Francisco", State: "California",
			Country: "United States of America", Lat: 37.7645358, Lng: -122.4730327,
			Name: "App Academy", Description: "Place where web developers are created",
			Price: 123,
		},
		images: []domain.SpotImageInput{
			{URL: "https://images.example.com/spots/app-academy-front.jpg", Preview: true},
			{URL: "https://images.example.com/spots/app-academy-hall.jpg"},
		},
	},
	{
		owner: 1,
		input: domain.SpotInput{
			Address: "7 Rue du Port", City: "Saint-Malo", State: "Brittany",
			Country: "France", Lat: 48.6493, Lng: -2.0257,
			Name: "Breton Stone House", Description: "Typical granite house two minutes from the ramparts",
			Price: 189.5,
		},
		images: []domain.SpotImageInput{
			{URL: "https://images.example.com/spots/breton-house.jpg", Preview: true},
			{URL: "https://images.example.com/spots/breton-kitchen.jpg"},
		},
	},
	{
		owner: 2,
		input: domain.SpotInput{
			Address: "42 Shady Lane", City: "Greensboro", State: "North Carolina",
			Country: "United States of America", Lat: 36.0726, Lng: -79.792,
			Name: "Shady Lane Cottage", Description: "Quiet cottage with a porch swing and a big garden",
			Price: 95,
		},
		images: []domain.SpotImageInput{
			{URL: "https://images.example.com/spots/shady-lane.png", Preview: true},
		},
	},
}

var seedReviews = []seedReview{
	{author: 1, spot: 0, input: domain.ReviewInput{Body: "Great spot to learn to code, very focused.", Stars: 5}},
	{author: 2, spot: 0, input: domain.ReviewInput{Body: "Busy during the day but clean and central.", Stars: 4}},
	{author: 0, spot: 1, input: domain.ReviewInput{Body: "Loved the old stones and the sea view.", Stars: 5}},
	{author: 0, spot: 2, input: domain.ReviewInput{Body: "Cozy but the wifi was a little slow.", Stars: 3}},
}

// Seed inserts demo users, spots, images and reviews. It does nothing when the
// demo user already exists.
func Seed(ctx context.Context, users *UserService, spots *SpotService, reviews *ReviewService) error {
	if _, err := users.Login(ctx, domain.LoginInput{Credential: seedUsers[0].Email, Password: DemoPassword}); err == nil {
		users.logger.Info("demo data already present")
		return nil
	} else if !errors.Is(err, domain.ErrInvalidCredentials) {
		return fmt.Errorf("failed to check demo user: %w", err)
	}

	userIDs := make([]int64, len(seedUsers))
	for i, in := range seedUsers {
		in.Password = DemoPassword
		user, err := users.Signup(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", in.Username, err)
		}
		userIDs[i] = user.ID
	}

	spotIDs := make([]int64, len(seedSpots))
	for i, s := range seedSpots {
		spot, err := spots.CreateSpot(ctx, userIDs[s.owner], s.input)
		if err != nil {
			return fmt.Errorf("failed to seed spot %s: %w", s.input.Name, err)
		}
		spotIDs[i] = spot.ID
		for _, img := range s.images {
			if _, err := spots.AddImage(ctx, userIDs[s.owner], spot.ID, img); err != nil {
				return fmt.Errorf("failed to seed image for spot %s: %w", s.input.Name, err)
			}
		}
	}

	for _, r := range seedReviews {
		if _, err := reviews.CreateReview(ctx, userIDs[r.author], spotIDs[r.spot], r.input); err != nil {
			return fmt.Errorf("failed to seed review: %w", err)
		}
	}

	users.logger.Info("demo data seeded", "users", len(seedUsers), "spots", len(seedSpots), "reviews", len(seedReviews))
	return nil
}
