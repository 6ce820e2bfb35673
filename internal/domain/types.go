package domain

import "time"

type User struct {
	ID             int64     `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Username       string    `json:"username" db:"username"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicProfile is the subset of a user that other users may see.
type PublicProfile struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Username  string `json:"username,omitempty" db:"username"`
}

func (u *User) Profile() *PublicProfile {
	return &PublicProfile{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Username: u.Username}
}

// Spot is a rental listing. AvgRating, NumReviews and PreviewImage are derived
// from the spot's reviews and images when it is read.
type Spot struct {
	ID           int64          `json:"id" db:"id"`
	OwnerID      int64          `json:"ownerId" db:"owner_id"`
	Address      string         `json:"address" db:"address"`
	City         string         `json:"city" db:"city"`
	State        string         `json:"state" db:"state"`
	Country      string         `json:"country" db:"country"`
	Lat          float64        `json:"lat" db:"lat"`
	Lng          float64        `json:"lng" db:"lng"`
	Name         string         `json:"name" db:"name"`
	Description  string         `json:"description" db:"description"`
	Price        float64        `json:"price" db:"price"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
	AvgRating    *float64       `json:"avgRating" db:"avg_rating"`
	NumReviews   int            `json:"numReviews" db:"num_reviews"`
	PreviewImage string         `json:"previewImage" db:"preview_image"`
	Owner        *PublicProfile `json:"Owner,omitempty" db:"-"`
	SpotImages   []SpotImage    `json:"SpotImages,omitempty" db:"-"`
}

type SpotImage struct {
	ID        int64     `json:"id" db:"id"`
	SpotID    int64     `json:"spotId" db:"spot_id"`
	URL       string    `json:"url" db:"url"`
	Preview   bool      `json:"preview" db:"preview"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

type Review struct {
	ID        int64          `json:"id" db:"id"`
	SpotID    int64          `json:"spotId" db:"spot_id"`
	UserID    int64          `json:"userId" db:"user_id"`
	Body      string         `json:"review" db:"review"`
	Stars     int            `json:"stars" db:"stars"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
	User      *PublicProfile `json:"User,omitempty" db:"-"`
}

// SpotInput is the writable part of a spot, shared by create and edit.
type SpotInput struct {
	Address     string  `json:"address" validate:"required"`
	City        string  `json:"city" validate:"required"`
	State       string  `json:"state" validate:"required"`
	Country     string  `json:"country" validate:"required"`
	Lat         float64 `json:"lat" validate:"min=-90,max=90"`
	Lng         float64 `json:"lng" validate:"min=-180,max=180"`
	Name        string  `json:"name" validate:"required,max=50"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
}

type SpotImageInput struct {
	URL     string `json:"url" validate:"required,imageurl"`
	Preview bool   `json:"preview"`
}

type ReviewInput struct {
	Body  string `json:"review" validate:"required"`
	Stars int    `json:"stars" validate:"min=1,max=5"`
}

type SignupInput struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=4,notemail"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password" validate:"required"`
}
