package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/antonvb/authgate/internal/arcade/entity"
	"github.com/antonvb/authgate/internal/pkg/goerror"
)

type ScoreSubmitInput struct {
	Game   string `validate:"required,min=2,max=50"`
	Points int64  `validate:"required,gt=0"`
}

func (s *Usecase) ScoreSubmit(ctx context.Context, in ScoreSubmitInput) error {
	ctx, span := s.startSpan(ctx, "ScoreSubmit")
	defer span.End()

	in.Game = strings.TrimSpace(strings.ToLower(in.Game))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	score := entity.Score{
		ID:        s.uid.Generate(),
		UserID:    clm.UserID,
		UserEmail: clm.UserEmail,
		Game:      in.Game,
		Points:    in.Points,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repoDB.CreateScore(ctx, score); err != nil {
		slog.ErrorContext(ctx, "failed to repo create score", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
