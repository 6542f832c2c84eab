package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/pkg/config"
	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/antonvb/authgate/internal/pkg/hash"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/antonvb/authgate/internal/pkg/jwt"
	"github.com/antonvb/authgate/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  auth:
    otp_code_length: 6
    otp_ttl_seconds: 120
    otp_max_attempts: 3
    login_challenge_ttl_minutes: 10
    refresh_token_ttl_days: 30
    post_verify_target: /dashboard
`

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeJWT struct{}

func (fakeJWT) Generate(uid int64, email, role string) (string, error) {
	return fmt.Sprintf("jwt.%d.%s", uid, role), nil
}

func (fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, nil }

type seqNumberID struct {
	n int64
}

func (s *seqNumberID) Generate() int64 {
	s.n++
	return s.n
}

type seqStringID struct {
	prefix string
	n      int
}

func (s *seqStringID) Generate() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// fixedCode lets tests know the issued one-time code without peeking at
// internals.
type fixedCode struct {
	code string
}

func (f *fixedCode) Code(int) (string, error) { return f.code, nil }

type fakePublisher struct {
	otpIssued   []OtpIssuedEvent
	userCreated []UserCreatedEvent
}

func (p *fakePublisher) PublishOtpIssued(_ context.Context, msg OtpIssuedEvent) error {
	p.otpIssued = append(p.otpIssued, msg)
	return nil
}

func (p *fakePublisher) PublishUserCreated(_ context.Context, msg UserCreatedEvent) error {
	p.userCreated = append(p.userCreated, msg)
	return nil
}

// fakeSlotStore mimics the cache semantics: one slot per user, Put overwrites,
// Take removes, Restore only fills an empty slot.
type fakeSlotStore struct {
	slots map[int64]entity.OtpChallenge
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: map[int64]entity.OtpChallenge{}}
}

func (s *fakeSlotStore) Put(_ context.Context, userID int64, ch entity.OtpChallenge, _ time.Duration) error {
	s.slots[userID] = ch
	return nil
}

func (s *fakeSlotStore) Take(_ context.Context, userID int64) (*entity.OtpChallenge, error) {
	ch, ok := s.slots[userID]
	if !ok {
		return nil, nil
	}
	delete(s.slots, userID)
	return &ch, nil
}

func (s *fakeSlotStore) Restore(_ context.Context, userID int64, ch entity.OtpChallenge, _ time.Duration) error {
	if _, ok := s.slots[userID]; ok {
		return nil
	}
	s.slots[userID] = ch
	return nil
}

type fakeDB struct {
	usersByEmail map[string]entity.UserLoginInfo
	challenges   map[string]entity.ChallengeUser

	createdChallenges  []entity.Challenge
	refreshRows        []entity.RefreshToken
	retiredChallenges  []int64
	revokedAllForUsers []int64
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		usersByEmail: map[string]entity.UserLoginInfo{},
		challenges:   map[string]entity.ChallengeUser{},
	}
}

func (d *fakeDB) GetUserLoginInfo(_ context.Context, email string) (*entity.UserLoginInfo, error) {
	u, ok := d.usersByEmail[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &u, nil
}

func (d *fakeDB) GetChallengeUserByToken(_ context.Context, token string, _ entity.ChallengePurpose) (*entity.ChallengeUser, error) {
	cu, ok := d.challenges[token]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &cu, nil
}

func (d *fakeDB) CreateChallenge(_ context.Context, in entity.Challenge) error {
	for _, u := range d.usersByEmail {
		if u.ID == in.UserID {
			d.challenges[in.Token] = entity.ChallengeUser{
				ChallengeID:        in.ID,
				ChallengePurpose:   in.Purpose,
				ChallengeExpiresAt: in.ExpiresAt,
				UserID:             u.ID,
				UserEmail:          u.Email,
				UserRole:           u.Role,
				UserStatus:         u.Status,
			}
			d.createdChallenges = append(d.createdChallenges, in)
			return nil
		}
	}
	return fmt.Errorf("no user with id %d", in.UserID)
}

func (d *fakeDB) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	d.refreshRows = append(d.refreshRows, in)
	return nil
}

func (d *fakeDB) NewRefreshToken(_ context.Context, ref entity.RefreshToken, challengeID int64) error {
	d.refreshRows = append(d.refreshRows, ref)
	d.retiredChallenges = append(d.retiredChallenges, challengeID)
	return nil
}

func (d *fakeDB) RevokeAllRefreshToken(_ context.Context, userID int64) error {
	d.revokedAllForUsers = append(d.revokedAllForUsers, userID)
	return nil
}

func (d *fakeDB) GetUserRefreshToken(context.Context, string) (*entity.UserRefreshToken, error) {
	panic("unexpected call GetUserRefreshToken")
}

func (d *fakeDB) GetUserByEmail(context.Context, string, bool) (*entity.User, error) {
	panic("unexpected call GetUserByEmail")
}

func (d *fakeDB) GetUserByID(context.Context, int64, bool) (*entity.User, error) {
	panic("unexpected call GetUserByID")
}

func (d *fakeDB) GetUserList(context.Context, entity.UserListFilterData) ([]entity.User, int64, error) {
	panic("unexpected call GetUserList")
}

func (d *fakeDB) NewUser(context.Context, entity.NewUser, string) error {
	panic("unexpected call NewUser")
}

func (d *fakeDB) RevokeRefreshToken(context.Context, string) error {
	panic("unexpected call RevokeRefreshToken")
}

func (d *fakeDB) RotateRefreshToken(context.Context, entity.RotateRefreshToken) error {
	panic("unexpected call RotateRefreshToken")
}

func (d *fakeDB) PatchUser(context.Context, entity.PatchUser, string) error {
	panic("unexpected call PatchUser")
}

func (d *fakeDB) MarkUserDeleted(context.Context, int64, int64) error {
	panic("unexpected call MarkUserDeleted")
}

func (d *fakeDB) DeleteChallenge(context.Context, int64) error {
	panic("unexpected call DeleteChallenge")
}

type testEnv struct {
	uc     *Usecase
	db     *fakeDB
	slots  *fakeSlotStore
	clock  *fakeClock
	pub    *fakePublisher
	code   *fixedCode
	bcrypt hash.Hash
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	env := &testEnv{
		db:     newFakeDB(),
		slots:  newFakeSlotStore(),
		clock:  &fakeClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)},
		pub:    &fakePublisher{},
		code:   &fixedCode{code: "428517"},
		bcrypt: hash.NewBcrypt(4, "test-pepper"),
	}

	env.uc = New(Dependency{
		RepoDB:        env.db,
		RepoChallenge: env.slots,
		RepoMessaging: env.pub,
		Validator:     v10,
		Config:        cfg,
		HMAC:          hash.NewHMACSHA256("test-hmac-secret"),
		Bcrypt:        env.bcrypt,
		Argon2ID:      hash.NewArgon2id("test-argon-pepper"),
		UID:           &seqNumberID{},
		UUID:          &seqStringID{prefix: "uuid"},
		OID:           &seqStringID{prefix: "oid"},
		CodeGenerator: env.code,
		Clock:         env.clock,
		JWT:           fakeJWT{},
		Instrument:    instrument.NewNoop(),
	})

	return env
}

func (e *testEnv) seedUser(t *testing.T, id int64, email, password string, role entity.UserRole, status entity.UserStatus) {
	t.Helper()

	hashed, err := e.bcrypt.Hash(password)
	if err != nil {
		t.Fatalf("failed to hash seed password: %v", err)
	}

	e.db.usersByEmail[email] = entity.UserLoginInfo{
		ID:       id,
		Email:    email,
		Role:     role,
		Status:   status,
		Password: string(hashed),
	}
}

// loginStandard walks a standard user through the password stage and returns
// the challenge token.
func (e *testEnv) loginStandard(t *testing.T, email, password string) string {
	t.Helper()

	out, err := e.uc.Login(context.Background(), LoginInput{Email: email, Password: password})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !out.OtpRequired || out.ChallengeToken == "" {
		t.Fatalf("expected a code challenge, got %+v", out)
	}

	return out.ChallengeToken
}

func bizMessage(t *testing.T, err error) string {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a business error, got %v", err)
	}

	return gerr.Msg()
}
