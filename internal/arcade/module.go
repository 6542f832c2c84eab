package arcade

import (
	"github.com/antonvb/authgate/internal/arcade/inbound"
	"github.com/antonvb/authgate/internal/arcade/outbound/db"
	"github.com/antonvb/authgate/internal/arcade/usecase"
	"github.com/antonvb/authgate/internal/pkg/clock"
	"github.com/antonvb/authgate/internal/pkg/config"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/antonvb/authgate/internal/pkg/jwt"
	"github.com/antonvb/authgate/internal/pkg/router"
	"github.com/antonvb/authgate/internal/pkg/uid"
	"github.com/antonvb/authgate/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	DBConn     *pgxpool.Pool
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Router     *router.Router
	JWT        jwt.JWT
}

func New(dep Dependency) error {
	dbArcade := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbArcade,
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
