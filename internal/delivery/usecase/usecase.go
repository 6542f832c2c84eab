package usecase

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"sync"

	"github.com/antonvb/authgate/internal/delivery/entity"
	"github.com/antonvb/authgate/internal/pkg/clock"
	"github.com/antonvb/authgate/internal/pkg/config"
	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/antonvb/authgate/internal/pkg/jwt"
	"github.com/antonvb/authgate/internal/pkg/mail"
	"github.com/antonvb/authgate/internal/pkg/uid"
	"github.com/antonvb/authgate/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateDeliveryRecord(ctx context.Context, in entity.DeliveryRecord) error
	UpdateDeliveryRecordStatus(ctx context.Context, in entity.UpdateDeliveryRecord) error
	ListDeliveryRecords(ctx context.Context, filter entity.DeliveryListFilter) ([]entity.DeliveryRecord, int64, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoDB    repoDB
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	jwt       jwt.JWT
	repoMail  repoMail
	ins       instrument.Instrumentation
	enforcer  *casbin.Enforcer
	streamMu  sync.RWMutex
	streams   map[string]map[*subscriber]struct{}
}

type Dependency struct {
	RepoDB     repoDB
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	JWT        jwt.JWT
	RepoMail   repoMail
	Instrument instrument.Instrumentation
	Enforcer   *casbin.Enforcer
}

func NewDelivery(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		jwt:       dep.JWT,
		repoMail:  dep.RepoMail,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
		streams:   make(map[string]map[*subscriber]struct{}),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("delivery.usecase").Start(ctx, name)
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce(clm.Subject, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.Subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Usecase) baseEmailTemplateData() map[string]any {
	return map[string]any{
		"support_email": s.cfg.GetString("modules.delivery.support_email"),
		"company_name":  s.cfg.GetString("modules.delivery.company_name"),
		"year":          s.clock.Now().Format("2006"),
	}
}
