package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinerate/cinerate/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    name,
    description,
    genre,
    director,
    release_year,
    created_at,
    updated_at
`

// MovieCreateParams bundles the fields required to create a movie.
type MovieCreateParams struct {
	Name        string
	Description *string
	Genre       string
	Director    string
	ReleaseYear int
}

// Create inserts a new movie row and returns the stored entity. Movie names
// are not unique.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	const query = `
        INSERT INTO movies (id, name, description, genre, director, release_year)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING` + movieColumns

	id := uuid.New()
	row := r.pool.QueryRow(ctx, query, id, params.Name, params.Description, params.Genre, params.Director, params.ReleaseYear)
	return scanMovie(row)
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Movie, error) {
	const query = `SELECT` + movieColumns + `FROM movies WHERE id = $1`
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// List returns one page of movies ordered by name ascending. Page is
// zero-based.
func (r *MoviesRepository) List(ctx context.Context, page, size int) ([]domain.Movie, error) {
	const query = `SELECT` + movieColumns + `FROM movies ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2`

	offset := int64(page) * int64(size)
	rows, err := r.pool.Query(ctx, query, size, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// TopRated returns the movie with the highest average rating among movies
// having at least one rating, ties broken by rating count descending.
// ErrNotFound means no movie has been rated yet.
func (r *MoviesRepository) TopRated(ctx context.Context) (domain.MovieStats, error) {
	const query = `
        SELECT m.id, m.name, m.description, m.genre, m.director, m.release_year,
               m.created_at, m.updated_at,
               AVG(r.rating_value)::float8 AS avg_rating,
               COUNT(r.id)::int8 AS rating_count
        FROM movies m
        JOIN ratings r ON r.movie_id = m.id
        GROUP BY m.id
        ORDER BY avg_rating DESC, rating_count DESC, m.id ASC
        LIMIT 1
    `

	var stats domain.MovieStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.ID,
		&stats.Name,
		&stats.Description,
		&stats.Genre,
		&stats.Director,
		&stats.ReleaseYear,
		&stats.CreatedAt,
		&stats.UpdatedAt,
		&stats.AvgRating,
		&stats.RatingCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MovieStats{}, ErrNotFound
		}
		return domain.MovieStats{}, err
	}
	return stats, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Name,
		&movie.Description,
		&movie.Genre,
		&movie.Director,
		&movie.ReleaseYear,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}
