package inbound

import (
	"context"

	"github.com/antonvb/authgate/internal/arcade/usecase"
	"github.com/antonvb/authgate/internal/pkg/router"
)

type uc interface {
	ScoreSubmit(ctx context.Context, in usecase.ScoreSubmitInput) error
	ScoreList(ctx context.Context, in usecase.ScoreListInput) (*usecase.ScoreListOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, u uc) {
	h := &HTTPHandler{uc: u}

	r.POST("/api/v1/arcade/scores", h.ScoreSubmit)
	r.GET("/api/v1/arcade/scores", h.ScoreList)
}
