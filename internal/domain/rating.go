package domain

import "github.com/google/uuid"

// Rating represents a single user's rating for a movie. At most one rating
// exists per (user, movie) pair.
type Rating struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	MovieID uuid.UUID
	Value   int
	Review  *string
	Audit
}

// RatingDetail enriches a rating with the display fields of its owner and
// movie for API responses.
type RatingDetail struct {
	Rating
	UserEmail string
	MovieName string
}

// RatingAggregate provides average and count for a movie's ratings.
type RatingAggregate struct {
	Average float64
	Count   int64
}
