package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cinerate/cinerate/internal/apperr"
	"github.com/cinerate/cinerate/internal/domain"
	"github.com/cinerate/cinerate/internal/repository"
	"github.com/cinerate/cinerate/internal/store"
)

// Rating value bounds.
const (
	MinRatingValue  = 1
	MaxRatingValue  = 10
	maxReviewLength = 2000
)

// RatingService orchestrates rating submission, deletion, and listing.
type RatingService struct {
	st      *store.Store
	users   *repository.UsersRepository
	movies  *repository.MoviesRepository
	ratings *repository.RatingsRepository
	logger  *zap.Logger
}

// NewRatingService constructs a RatingService.
func NewRatingService(st *store.Store, repo *repository.Repository, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{
		st:      st,
		users:   repo.Users,
		movies:  repo.Movies,
		ratings: repo.Ratings,
		logger:  logger,
	}
}

// RatingInput carries the fields accepted when rating a movie.
type RatingInput struct {
	MovieID uuid.UUID
	Value   int
	Review  *string
}

// CreateOrUpdate submits a user's rating for a movie, updating any existing
// rating for the same (user, movie) pair in place. The upsert is a single
// atomic statement, so concurrent submissions race safely on the unique
// constraint.
func (s *RatingService) CreateOrUpdate(ctx context.Context, userID uuid.UUID, in RatingInput) (domain.RatingDetail, bool, error) {
	var fields []apperr.FieldError
	if in.Value < MinRatingValue || in.Value > MaxRatingValue {
		fields = append(fields, apperr.FieldError{Field: "ratingValue", Message: "Rating value must be between 1 and 10"})
	}
	if in.Review != nil && len(*in.Review) > maxReviewLength {
		fields = append(fields, apperr.FieldError{Field: "review", Message: "Review cannot exceed 2000 characters"})
	}
	if len(fields) > 0 {
		return domain.RatingDetail{}, false, apperr.Validation(fields...)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RatingDetail{}, false, apperr.NotFound("User", "id", userID)
		}
		return domain.RatingDetail{}, false, err
	}

	movie, err := s.movies.GetByID(ctx, in.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RatingDetail{}, false, apperr.NotFound("Movie", "id", in.MovieID)
		}
		return domain.RatingDetail{}, false, err
	}

	rating, inserted, err := s.ratings.Upsert(ctx, repository.RatingUpsertParams{
		UserID:  userID,
		MovieID: in.MovieID,
		Value:   in.Value,
		Review:  in.Review,
	})
	if err != nil {
		return domain.RatingDetail{}, false, err
	}

	s.logger.Info("rating upserted",
		zap.String("rating_id", rating.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("movie_id", in.MovieID.String()),
		zap.Bool("inserted", inserted))

	return domain.RatingDetail{Rating: rating, UserEmail: user.Email, MovieName: movie.Name}, inserted, nil
}

// Delete removes a rating. Only the owning user may delete it; the
// read-check-delete sequence runs inside one transaction.
func (s *RatingService) Delete(ctx context.Context, ratingID, userID uuid.UUID) error {
	err := s.st.WithTx(ctx, func(tx pgx.Tx) error {
		rating, err := s.ratings.GetForUpdate(ctx, tx, ratingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("Rating", "id", ratingID)
			}
			return err
		}
		if rating.UserID != userID {
			return apperr.Forbidden("You can only delete your own ratings")
		}
		return s.ratings.DeleteTx(ctx, tx, ratingID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("rating deleted", zap.String("rating_id", ratingID.String()), zap.String("user_id", userID.String()))
	return nil
}

// ListByMovie returns all ratings for a movie, which must exist.
func (s *RatingService) ListByMovie(ctx context.Context, movieID uuid.UUID) ([]domain.RatingDetail, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Movie", "id", movieID)
		}
		return nil, err
	}
	return s.ratings.ListByMovie(ctx, movieID)
}

// ListByUser returns all ratings by a user, newest first.
func (s *RatingService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RatingDetail, error) {
	return s.ratings.ListByUser(ctx, userID)
}

// GetForUserAndMovie returns the user's rating for a movie, or false when
// no rating exists. Absence is not an error at this layer.
func (s *RatingService) GetForUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (domain.RatingDetail, bool, error) {
	detail, err := s.ratings.GetForUserAndMovie(ctx, userID, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RatingDetail{}, false, nil
		}
		return domain.RatingDetail{}, false, err
	}
	return detail, true, nil
}
