package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/atozbnb/internal/db"
	"github.com/vbonduro/atozbnb/internal/domain"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func createUser(t *testing.T, users *UserStore, name string) *domain.User {
	t.Helper()
	user, err := users.Create(context.Background(), domain.SignupInput{
		Email:     name + "@user.io",
		Username:  name,
		FirstName: name,
		LastName:  "User",
	}, "hashed")
	require.NoError(t, err)
	return user
}

func spotInput(name string) domain.SpotInput {
	return domain.SpotInput{
		Address:     "123 Disney Lane",
		City:        "San Francisco",
		State:       "California",
		Country:     "United States of America",
		Lat:         37.76,
		Lng:         -122.47,
		Name:        name,
		Description: "Place where web developers are created",
		Price:       123,
	}
}

func TestUserStoreCreateAndGet(t *testing.T) {
	d := openTestDB(t)
	users := NewUserStore(d)
	ctx := context.Background()

	created := createUser(t, users, "demo")
	assert.NotZero(t, created.ID)
	assert.Equal(t, "demo@user.io", created.Email)
	assert.Equal(t, "hashed", created.HashedPassword)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := users.GetByCredential(ctx, "DEMO@user.io")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)

	byUsername, err := users.GetByCredential(ctx, "demo")
	require.NoError(t, err)
	require.NotNil(t, byUsername)
	assert.Equal(t, created.ID, byUsername.ID)

	missing, err := users.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserStoreTaken(t *testing.T) {
	d := openTestDB(t)
	users := NewUserStore(d)
	ctx := context.Background()
	createUser(t, users, "demo")

	emailTaken, usernameTaken, err := users.Taken(ctx, "demo@user.io", "someone")
	require.NoError(t, err)
	assert.True(t, emailTaken)
	assert.False(t, usernameTaken)

	emailTaken, usernameTaken, err = users.Taken(ctx, "new@user.io", "DEMO")
	require.NoError(t, err)
	assert.False(t, emailTaken)
	assert.True(t, usernameTaken)
}

func TestUserStoreDuplicateIsConflict(t *testing.T) {
	d := openTestDB(t)
	users := NewUserStore(d)
	createUser(t, users, "demo")

	_, err := users.Create(context.Background(), domain.SignupInput{
		Email:     "DEMO@user.io",
		Username:  "someone",
		FirstName: "Some",
		LastName:  "One",
	}, "hashed")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = users.Create(context.Background(), domain.SignupInput{
		Email:     "other@user.io",
		Username:  "Demo",
		FirstName: "Some",
		LastName:  "One",
	}, "hashed")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSpotStoreCreateAndGet(t *testing.T) {
	d := openTestDB(t)
	owner := createUser(t, NewUserStore(d), "owner")
	spots := NewSpotStore(d)
	ctx := context.Background()

	spot, err := spots.Create(ctx, owner.ID, spotInput("App Academy"))
	require.NoError(t, err)
	assert.NotZero(t, spot.ID)
	assert.Equal(t, owner.ID, spot.OwnerID)
	assert.Equal(t, "App Academy", spot.Name)
	assert.Nil(t, spot.AvgRating)
	assert.Zero(t, spot.NumReviews)
	assert.Empty(t, spot.PreviewImage)

	missing, err := spots.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSpotStoreAggregates(t *testing.T) {
	d := openTestDB(t)
	users := NewUserStore(d)
	owner := createUser(t, users, "owner")
	spots := NewSpotStore(d)
	images := NewSpotImageStore(d)
	reviews := NewReviewStore(d)
	ctx := context.Background()

	spot, err := spots.Create(ctx, owner.ID, spotInput("Loft"))
	require.NoError(t, err)

	_, err = images.Create(ctx, spot.ID, "https://example.com/side.png", false)
	require.NoError(t, err)
	_, err = images.Create(ctx, spot.ID, "https://example.com/front.png", true)
	require.NoError(t, err)

	for i, stars := range []int{5, 4, 3} {
		guest := createUser(t, users, fmt.Sprintf("guest%d", i))
		_, err := reviews.Create(ctx, spot.ID, guest.ID, domain.ReviewInput{Body: "A fine place to stay", Stars: stars})
		require.NoError(t, err)
	}

	got, err := spots.GetByID(ctx, spot.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AvgRating)
	assert.InDelta(t, 4.0, *got.AvgRating, 0.0001)
	assert.Equal(t, 3, got.NumReviews)
	assert.Equal(t, "https://example.com/front.png", got.PreviewImage)

	list, err := spots.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].NumReviews)
}

func TestSpotStoreUpdate(t *testing.T) {
	d := openTestDB(t)
	owner := createUser(t, NewUserStore(d), "owner")
	spots := NewSpotStore(d)
	ctx := context.Background()

	spot, err := spots.Create(ctx, owner.ID, spotInput("Loft"))
	require.NoError(t, err)

	in := spotInput("Penthouse")
	in.Price = 450
	require.NoError(t, spots.Update(ctx, spot.ID, in))

	updated, err := spots.GetByID(ctx, spot.ID)
	require.NoError(t, err)
	assert.Equal(t, "Penthouse", updated.Name)
	assert.InDelta(t, 450, updated.Price, 0.001)

	assert.ErrorIs(t, spots.Update(ctx, 9999, in), domain.ErrNotFound)
}

func TestSpotStoreDelete(t *testing.T) {
	d := openTestDB(t)
	owner := createUser(t, NewUserStore(d), "owner")
	spots := NewSpotStore(d)
	ctx := context.Background()

	spot, err := spots.Create(ctx, owner.ID, spotInput("Loft"))
	require.NoError(t, err)

	require.NoError(t, spots.Delete(ctx, spot.ID))

	gone, err := spots.GetByID(ctx, spot.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, spots.Delete(ctx, spot.ID), domain.ErrNotFound)
}

func TestSpotImageStoreSinglePreview(t *testing.T) {
	d := openTestDB(t)
	owner := createUser(t, NewUserStore(d), "owner")
	spot, err := NewSpotStore(d).Create(context.Background(), owner.ID, spotInput("Loft"))
	require.NoError(t, err)
	images := NewSpotImageStore(d)
	ctx := context.Background()

	first, err := images.Create(ctx, spot.ID, "https://example.com/1.png", true)
	require.NoError(t, err)
	assert.True(t, first.Preview)

	second, err := images.Create(ctx, spot.ID, "https://example.com/2.png", true)
	require.NoError(t, err)

	list, err := images.ListBySpotID(ctx, spot.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.True(t, list[0].Preview)
	assert.False(t, list[1].Preview)
}

func TestReviewStore(t *testing.T) {
	d := openTestDB(t)
	users := NewUserStore(d)
	owner := createUser(t, users, "owner")
	guest := createUser(t, users, "guest")
	spot, err := NewSpotStore(d).Create(context.Background(), owner.ID, spotInput("Loft"))
	require.NoError(t, err)
	reviews := NewReviewStore(d)
	ctx := context.Background()

	review, err := reviews.Create(ctx, spot.ID, guest.ID, domain.ReviewInput{Body: "Spotless and quiet", Stars: 4})
	require.NoError(t, err)
	assert.Equal(t, "Spotless and quiet", review.Body)
	require.NotNil(t, review.User)
	assert.Equal(t, "guest", review.User.FirstName)

	exists, err := reviews.ExistsForUser(ctx, spot.ID, guest.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = reviews.ExistsForUser(ctx, spot.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = reviews.Create(ctx, spot.ID, guest.ID, domain.ReviewInput{Body: "Second try", Stars: 1})
	assert.ErrorIs(t, err, domain.ErrConflict, "one review per user and spot")

	list, err := reviews.ListBySpotID(ctx, spot.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, reviews.Delete(ctx, review.ID))
	assert.ErrorIs(t, reviews.Delete(ctx, review.ID), domain.ErrNotFound)

	list, err = reviews.ListBySpotID(ctx, spot.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
