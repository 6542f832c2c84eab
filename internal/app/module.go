package app

import (
	"log/slog"
	"os"

	"github.com/antonvb/authgate/internal/arcade"
	"github.com/antonvb/authgate/internal/auth"
	"github.com/antonvb/authgate/internal/delivery"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.auth.enabled") {
		if err := auth.New(auth.Dependency{
			Config:        a.config,
			Instrument:    a.ins,
			UID:           a.uid,
			UUID:          a.uuid,
			OID:           a.oid,
			Bcrypt:        a.bcrypt,
			HMAC:          a.hmac,
			Argon2ID:      a.argon2id,
			Clock:         a.clock,
			CodeGenerator: a.codegen,
			Validator:     a.validator,
			Router:        a.router,
			DBConn:        a.dbConn,
			CacheConn:     a.cacheConn,
			Idempotency:   a.idemp,
			Messaging:     a.messaging,
			Storage:       a.storage,
			Goroutine:     a.goroutine,
			JWT:           a.jwt,
			Enforcer:      a.casbin,
		}); err != nil {
			slog.Error("failed to init module auth", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.delivery.enabled") {
		if err := delivery.New(delivery.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
			Mail:       a.mail,
			JWT:        a.jwt,
			Enforcer:   a.casbin,
		}); err != nil {
			slog.Error("failed to init module delivery", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.arcade.enabled") {
		if err := arcade.New(arcade.Dependency{
			DBConn:     a.dbConn,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Validator:  a.validator,
			Router:     a.router,
			JWT:        a.jwt,
		}); err != nil {
			slog.Error("failed to init module arcade", "error", err)
			os.Exit(1)
		}
	}
}
