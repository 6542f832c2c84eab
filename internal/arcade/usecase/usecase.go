package usecase

import (
	"context"

	"github.com/antonvb/authgate/internal/arcade/entity"
	"github.com/antonvb/authgate/internal/pkg/clock"
	"github.com/antonvb/authgate/internal/pkg/config"
	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/antonvb/authgate/internal/pkg/jwt"
	"github.com/antonvb/authgate/internal/pkg/uid"
	"github.com/antonvb/authgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateScore(ctx context.Context, in entity.Score) error
	ListTopScores(ctx context.Context, game string, limit int32) ([]entity.Score, error)
}

type Usecase struct {
	repoDB    repoDB
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("arcade.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}
