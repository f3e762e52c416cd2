package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cinerate/cinerate/internal/domain"
	"github.com/cinerate/cinerate/internal/service"
)

type movieCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Genre       string  `json:"genre"`
	Director    string  `json:"director"`
	ReleaseYear int     `json:"releaseYear"`
}

type movieResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Genre       string    `json:"genre"`
	Director    string    `json:"director"`
	ReleaseYear int       `json:"releaseYear"`
	CreatedAt   time.Time `json:"createdAt"`
}

type movieStatsResponse struct {
	movieResponse
	AvgRating   float64 `json:"avgRating"`
	RatingCount int64   `json:"ratingCount"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	page, size, err := parsePaging(r.URL.Query())
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	movies, err := s.movies.List(r.Context(), page, size)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func parsePaging(query url.Values) (page, size int, err error) {
	page, size = 0, service.DefaultPageSize

	if val := query.Get("page"); val != "" {
		page, err = strconv.Atoi(val)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page value")
		}
	}
	if val := query.Get("size"); val != "" {
		size, err = strconv.Atoi(val)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid size value")
		}
	}
	return page, size, nil
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "movieId"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "movieId must be a valid UUID")
		return
	}

	stats, err := s.movies.GetByID(r.Context(), movieID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieStatsResponse(stats))
}

func (s *Server) handleTopRatedMovie(w http.ResponseWriter, r *http.Request) {
	stats, err := s.movies.TopRated(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieStatsResponse(stats))
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, r, err)
		return
	}

	movie, err := s.movies.Create(r.Context(), service.MovieCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Genre:       req.Genre,
		Director:    req.Director,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/movies/"+movie.ID.String())
	s.respondJSON(w, http.StatusCreated, toMovieResponse(movie))
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:          movie.ID.String(),
		Name:        movie.Name,
		Description: movie.Description,
		Genre:       movie.Genre,
		Director:    movie.Director,
		ReleaseYear: movie.ReleaseYear,
		CreatedAt:   movie.CreatedAt,
	}
}

func toMovieStatsResponse(stats domain.MovieStats) movieStatsResponse {
	return movieStatsResponse{
		movieResponse: toMovieResponse(stats.Movie),
		AvgRating:     stats.AvgRating,
		RatingCount:   stats.RatingCount,
	}
}
