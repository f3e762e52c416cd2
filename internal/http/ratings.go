package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cinerate/cinerate/internal/domain"
	"github.com/cinerate/cinerate/internal/service"
)

type ratingRequest struct {
	MovieID     uuid.UUID `json:"movieId"`
	RatingValue int       `json:"ratingValue"`
	Review      *string   `json:"review"`
}

type ratingResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserEmail   string    `json:"userEmail"`
	MovieID     string    `json:"movieId"`
	MovieName   string    `json:"movieName"`
	RatingValue int       `json:"ratingValue"`
	Review      *string   `json:"review,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, r, err)
		return
	}
	if req.MovieID == uuid.Nil {
		s.respondError(w, r, http.StatusBadRequest, "movieId is required")
		return
	}

	detail, _, err := s.ratings.CreateOrUpdate(r.Context(), id.UserID, service.RatingInput{
		MovieID: req.MovieID,
		Value:   req.RatingValue,
		Review:  req.Review,
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toRatingResponse(detail))
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	ratingID, err := uuid.Parse(chi.URLParam(r, "ratingId"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "ratingId must be a valid UUID")
		return
	}

	if err := s.ratings.Delete(r.Context(), ratingID, id.UserID); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMyRatings(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	details, err := s.ratings.ListByUser(r.Context(), id.UserID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponses(details))
}

func (s *Server) handleMyRatingForMovie(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	movieID, err := uuid.Parse(chi.URLParam(r, "movieId"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "movieId must be a valid UUID")
		return
	}

	detail, found, err := s.ratings.GetForUserAndMovie(r.Context(), id.UserID, movieID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if !found {
		s.respondError(w, r, http.StatusNotFound, "Rating not found for this movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponse(detail))
}

func (s *Server) handleMovieRatings(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "movieId"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "movieId must be a valid UUID")
		return
	}

	details, err := s.ratings.ListByMovie(r.Context(), movieID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponses(details))
}

func toRatingResponse(detail domain.RatingDetail) ratingResponse {
	return ratingResponse{
		ID:          detail.ID.String(),
		UserID:      detail.UserID.String(),
		UserEmail:   detail.UserEmail,
		MovieID:     detail.MovieID.String(),
		MovieName:   detail.MovieName,
		RatingValue: detail.Value,
		Review:      detail.Review,
		CreatedAt:   detail.CreatedAt,
		UpdatedAt:   detail.UpdatedAt,
	}
}

func toRatingResponses(details []domain.RatingDetail) []ratingResponse {
	items := make([]ratingResponse, 0, len(details))
	for _, detail := range details {
		items = append(items, toRatingResponse(detail))
	}
	return items
}
