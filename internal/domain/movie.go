package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit carries the creation/update timestamps shared by all entities.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Movie represents the canonical movie entity in the database/service.
type Movie struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Genre       string
	Director    string
	ReleaseYear int
	Audit
}

// MovieStats decorates a movie with its rating aggregate. AvgRating is 0
// when the movie has no ratings.
type MovieStats struct {
	Movie
	AvgRating   float64
	RatingCount int64
}
