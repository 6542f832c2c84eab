package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/antonvb/authgate/internal/arcade/entity"
	"github.com/antonvb/authgate/internal/pkg/goerror"
)

type ScoreListInput struct {
	Game string `validate:"required,min=2,max=50"`
	Size int32
}

type ScoreListOutput struct {
	Scores []entity.Score
}

func (s *Usecase) ScoreList(ctx context.Context, in ScoreListInput) (*ScoreListOutput, error) {
	ctx, span := s.startSpan(ctx, "ScoreList")
	defer span.End()

	in.Game = strings.TrimSpace(strings.ToLower(in.Game))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 10 // default limit
	}

	scores, err := s.repoDB.ListTopScores(ctx, in.Game, in.Size)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list top scores", "game", in.Game, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ScoreListOutput{Scores: scores}, nil
}
