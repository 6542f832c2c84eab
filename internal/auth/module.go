package auth

import (
	"github.com/antonvb/authgate/internal/auth/inbound"
	"github.com/antonvb/authgate/internal/auth/outbound/cache"
	"github.com/antonvb/authgate/internal/auth/outbound/db"
	"github.com/antonvb/authgate/internal/auth/outbound/mq"
	"github.com/antonvb/authgate/internal/auth/usecase"
	"github.com/antonvb/authgate/internal/pkg/clock"
	"github.com/antonvb/authgate/internal/pkg/config"
	"github.com/antonvb/authgate/internal/pkg/goroutine"
	"github.com/antonvb/authgate/internal/pkg/hash"
	"github.com/antonvb/authgate/internal/pkg/idempotency"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/antonvb/authgate/internal/pkg/jwt"
	"github.com/antonvb/authgate/internal/pkg/messaging"
	"github.com/antonvb/authgate/internal/pkg/otp"
	"github.com/antonvb/authgate/internal/pkg/router"
	"github.com/antonvb/authgate/internal/pkg/storage"
	"github.com/antonvb/authgate/internal/pkg/uid"
	"github.com/antonvb/authgate/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Dependency struct {
	DBConn        *pgxpool.Pool              `validate:"required"`
	CacheConn     *redis.Client              `validate:"required"`
	Goroutine     *goroutine.Manager         `validate:"required"`
	Enforcer      *casbin.Enforcer           `validate:"required"`
	Router        *router.Router             `validate:"required"`
	Idempotency   idempotency.Idempotency    `validate:"required"`
	Messaging     messaging.Messaging        `validate:"required"`
	Storage       storage.Storage            `validate:"required"`
	Config        config.Config              `validate:"required"`
	Instrument    instrument.Instrumentation `validate:"required"`
	UID           uid.NumberID               `validate:"required"`
	UUID          uid.StringID               `validate:"required"`
	OID           uid.StringID               `validate:"required"`
	HMAC          hash.Hash                  `validate:"required"`
	Bcrypt        hash.Hash                  `validate:"required"`
	Argon2ID      hash.Hash                  `validate:"required"`
	Clock         clock.Clocker              `validate:"required"`
	CodeGenerator otp.Generator              `validate:"required"`
	Validator     validator.Validator        `validate:"required"`
	JWT           jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	cacheAuth := cache.NewCache(dep.CacheConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoChallenge: cacheAuth,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Storage:       dep.Storage,
		HMAC:          dep.HMAC,
		Bcrypt:        dep.Bcrypt,
		Argon2ID:      dep.Argon2ID,
		UID:           dep.UID,
		UUID:          dep.UUID,
		OID:           dep.OID,
		CodeGenerator: dep.CodeGenerator,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
