package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinerate/cinerate/internal/domain"
)

// RatingsRepository provides helpers for movie ratings.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// RatingUpsertParams captures the payload required to upsert a rating.
type RatingUpsertParams struct {
	UserID  uuid.UUID
	MovieID uuid.UUID
	Value   int
	Review  *string
}

// Upsert inserts or updates the rating for a (user, movie) pair and
// indicates whether it was newly created. Concurrent inserts for the same
// pair are resolved by the unique constraint, not application logic.
func (r *RatingsRepository) Upsert(ctx context.Context, params RatingUpsertParams) (domain.Rating, bool, error) {
	const query = `
        INSERT INTO ratings (id, user_id, movie_id, rating_value, review)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, movie_id)
        DO UPDATE SET rating_value = EXCLUDED.rating_value,
                      review = EXCLUDED.review,
                      updated_at = now()
        RETURNING id, user_id, movie_id, rating_value, review, created_at, updated_at, (xmax = 0) AS inserted
    `

	var rating domain.Rating
	var inserted bool
	err := r.pool.QueryRow(ctx, query, uuid.New(), params.UserID, params.MovieID, params.Value, params.Review).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.MovieID,
		&rating.Value,
		&rating.Review,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return domain.Rating{}, false, err
	}
	return rating, inserted, nil
}

// Aggregate returns the rating average and count for a movie. A movie with
// no ratings aggregates to (0, 0).
func (r *RatingsRepository) Aggregate(ctx context.Context, movieID uuid.UUID) (domain.RatingAggregate, error) {
	const query = `
        SELECT COALESCE(AVG(rating_value), 0)::float8 AS average,
               COUNT(*)::int8 AS count
        FROM ratings
        WHERE movie_id = $1
    `

	var agg domain.RatingAggregate
	if err := r.pool.QueryRow(ctx, query, movieID).Scan(&agg.Average, &agg.Count); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}

const ratingDetailQuery = `
    SELECT r.id, r.user_id, r.movie_id, r.rating_value, r.review, r.created_at, r.updated_at,
           u.email, m.name
    FROM ratings r
    JOIN users u ON u.id = r.user_id
    JOIN movies m ON m.id = r.movie_id
`

// GetForUserAndMovie retrieves the single rating for a (user, movie) pair.
func (r *RatingsRepository) GetForUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (domain.RatingDetail, error) {
	query := ratingDetailQuery + ` WHERE r.user_id = $1 AND r.movie_id = $2`
	detail, err := scanRatingDetail(r.pool.QueryRow(ctx, query, userID, movieID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RatingDetail{}, ErrNotFound
		}
		return domain.RatingDetail{}, err
	}
	return detail, nil
}

// ListByMovie returns all ratings for a movie, newest first.
func (r *RatingsRepository) ListByMovie(ctx context.Context, movieID uuid.UUID) ([]domain.RatingDetail, error) {
	query := ratingDetailQuery + ` WHERE r.movie_id = $1 ORDER BY r.created_at DESC, r.id DESC`
	return r.queryDetails(ctx, query, movieID)
}

// ListByUser returns all ratings by a user, newest first.
func (r *RatingsRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.RatingDetail, error) {
	query := ratingDetailQuery + ` WHERE r.user_id = $1 ORDER BY r.created_at DESC, r.id DESC`
	return r.queryDetails(ctx, query, userID)
}

// GetForUpdate fetches a rating by id inside tx, locking the row until the
// transaction completes.
func (r *RatingsRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (domain.Rating, error) {
	const query = `
        SELECT id, user_id, movie_id, rating_value, review, created_at, updated_at
        FROM ratings
        WHERE id = $1
        FOR UPDATE
    `

	var rating domain.Rating
	err := tx.QueryRow(ctx, query, id).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.MovieID,
		&rating.Value,
		&rating.Review,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Rating{}, ErrNotFound
		}
		return domain.Rating{}, err
	}
	return rating, nil
}

// DeleteTx removes a rating by id inside tx.
func (r *RatingsRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RatingsRepository) queryDetails(ctx context.Context, query string, args ...any) ([]domain.RatingDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]domain.RatingDetail, 0)
	for rows.Next() {
		detail, err := scanRatingDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

func scanRatingDetail(row pgx.Row) (domain.RatingDetail, error) {
	var detail domain.RatingDetail
	err := row.Scan(
		&detail.ID,
		&detail.UserID,
		&detail.MovieID,
		&detail.Value,
		&detail.Review,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.UserEmail,
		&detail.MovieName,
	)
	if err != nil {
		return domain.RatingDetail{}, err
	}
	return detail, nil
}
