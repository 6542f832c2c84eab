package inbound

import (
	"time"

	"github.com/antonvb/authgate/internal/arcade/usecase"
	"github.com/antonvb/authgate/internal/pkg/router"
)

type HTTPHandler struct {
	uc uc
}

// ScoreSubmit godoc
//
//	@Summary		Submit a score
//	@Description	Records a game score for the authenticated player.
//	@Tags			Arcade
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ScoreSubmitRequest	true	"Score payload"
//	@Success		200		{object}	router.SuccessResponse
//	@Failure		400		{object}	router.ErrorResponse
//	@Failure		401		{object}	router.ErrorResponse
//	@Failure		500		{object}	router.ErrorResponse
//	@Router			/api/v1/arcade/scores [post]
func (h *HTTPHandler) ScoreSubmit(r *router.Request) (any, error) {
	var req ScoreSubmitRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	err := h.uc.ScoreSubmit(r.Context(), usecase.ScoreSubmitInput{
		Game:   req.Game,
		Points: req.Points,
	})
	if err != nil {
		return nil, err
	}

	return ScoreSubmitResponse{}, nil
}

// ScoreList godoc
//
//	@Summary		List top scores
//	@Description	Returns the leaderboard for a game, best scores first.
//	@Tags			Arcade
//	@Produce		json
//	@Security		BearerAuth
//	@Param			game	query		string	true	"Game identifier"
//	@Param			size	query		int		false	"Number of entries"
//	@Success		200		{object}	router.SuccessResponse{data=ScoresResponse}
//	@Failure		400		{object}	router.ErrorResponse
//	@Failure		401		{object}	router.ErrorResponse
//	@Failure		500		{object}	router.ErrorResponse
//	@Router			/api/v1/arcade/scores [get]
func (h *HTTPHandler) ScoreList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ScoreList(r.Context(), usecase.ScoreListInput{
		Game: r.GetQuery("game"),
		Size: size,
	})
	if err != nil {
		return nil, err
	}

	scores := make([]ScoreResponse, 0, len(out.Scores))
	for i, sc := range out.Scores {
		scores = append(scores, ScoreResponse{
			Rank:      i + 1,
			UserEmail: sc.UserEmail,
			Game:      sc.Game,
			Points:    sc.Points,
			CreatedAt: sc.CreatedAt.Format(time.RFC3339),
		})
	}

	return ScoresResponse{Scores: scores}, nil
}
