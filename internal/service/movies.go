package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cinerate/cinerate/internal/apperr"
	"github.com/cinerate/cinerate/internal/domain"
	"github.com/cinerate/cinerate/internal/repository"
)

// Release-year bounds for new movies; 1888 is the year of the earliest
// surviving film.
const (
	minReleaseYear = 1888
	maxReleaseYear = 2500
)

// Pagination bounds enforced on movie listing. MaxPage keeps the computed
// SQL offset well inside int64.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = math.MaxInt32
)

// MovieService orchestrates movie listing, lookup, and creation.
type MovieService struct {
	movies  *repository.MoviesRepository
	ratings *repository.RatingsRepository
	logger  *zap.Logger
}

// NewMovieService constructs a MovieService.
func NewMovieService(movies *repository.MoviesRepository, ratings *repository.RatingsRepository, logger *zap.Logger) *MovieService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovieService{movies: movies, ratings: ratings, logger: logger}
}

// List returns one page of movies ordered by name ascending.
func (s *MovieService) List(ctx context.Context, page, size int) ([]domain.Movie, error) {
	var fields []apperr.FieldError
	if page < 0 || page > MaxPage {
		fields = append(fields, apperr.FieldError{Field: "page", Message: fmt.Sprintf("Page must be between 0 and %d", MaxPage)})
	}
	if size < 1 || size > MaxPageSize {
		fields = append(fields, apperr.FieldError{Field: "size", Message: fmt.Sprintf("Size must be between 1 and %d", MaxPageSize)})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	return s.movies.List(ctx, page, size)
}

// GetByID fetches a movie decorated with its rating aggregate.
func (s *MovieService) GetByID(ctx context.Context, movieID uuid.UUID) (domain.MovieStats, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.MovieStats{}, apperr.NotFound("Movie", "id", movieID)
		}
		return domain.MovieStats{}, err
	}

	agg, err := s.ratings.Aggregate(ctx, movieID)
	if err != nil {
		return domain.MovieStats{}, err
	}

	return domain.MovieStats{Movie: movie, AvgRating: agg.Average, RatingCount: agg.Count}, nil
}

// TopRated returns the highest-rated movie across all movies with at least
// one rating.
func (s *MovieService) TopRated(ctx context.Context) (domain.MovieStats, error) {
	stats, err := s.movies.TopRated(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.MovieStats{}, &apperr.Error{
				Kind:    apperr.KindNotFound,
				Message: "No top rated movies found, no movies have ratings yet",
			}
		}
		return domain.MovieStats{}, err
	}
	return stats, nil
}

// MovieCreateInput carries the fields accepted when creating a movie.
type MovieCreateInput struct {
	Name        string
	Description *string
	Genre       string
	Director    string
	ReleaseYear int
}

// Create validates and persists a new movie.
func (s *MovieService) Create(ctx context.Context, in MovieCreateInput) (domain.Movie, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Director = strings.TrimSpace(in.Director)

	var fields []apperr.FieldError
	if n := len(in.Name); n < 4 || n > 100 {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "Movie name must be between 4 and 100 characters"})
	}
	if n := len(in.Genre); n < 4 || n > 50 {
		fields = append(fields, apperr.FieldError{Field: "genre", Message: "Genre must be between 4 and 50 characters"})
	}
	if n := len(in.Director); n < 1 || n > 100 {
		fields = append(fields, apperr.FieldError{Field: "director", Message: "Director name must be between 1 and 100 characters"})
	}
	if in.Description != nil && len(*in.Description) > 500 {
		fields = append(fields, apperr.FieldError{Field: "description", Message: "Description cannot exceed 500 characters"})
	}
	if in.ReleaseYear < minReleaseYear || in.ReleaseYear > maxReleaseYear {
		fields = append(fields, apperr.FieldError{Field: "releaseYear", Message: fmt.Sprintf("Release year must be between %d and %d", minReleaseYear, maxReleaseYear)})
	}
	if len(fields) > 0 {
		return domain.Movie{}, apperr.Validation(fields...)
	}

	movie, err := s.movies.Create(ctx, repository.MovieCreateParams{
		Name:        in.Name,
		Description: normalizeStringPtr(in.Description),
		Genre:       in.Genre,
		Director:    in.Director,
		ReleaseYear: in.ReleaseYear,
	})
	if err != nil {
		return domain.Movie{}, err
	}

	s.logger.Info("movie created", zap.String("movie_id", movie.ID.String()), zap.String("name", movie.Name))
	return movie, nil
}

func normalizeStringPtr(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	val := strings.TrimSpace(*ptr)
	if val == "" {
		return nil
	}
	return &val
}
