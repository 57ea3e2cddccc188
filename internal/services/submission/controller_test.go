package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/flagvault/flagvault/internal/dependencies/mocks"
	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/services/audit"
	"github.com/flagvault/flagvault/internal/services/identity"
	"github.com/flagvault/flagvault/internal/services/progress"
	"github.com/flagvault/flagvault/internal/services/registry"
	"github.com/flagvault/flagvault/internal/services/verify"
	"github.com/flagvault/flagvault/internal/storage/memory"
	"github.com/flagvault/flagvault/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	audit      *audit.Service
	identity   *identity.Service
	progress   *progress.Service
	verify     *verify.Service
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC))

	s.verify = verify.New(registry.Default())
	s.audit = audit.New(s.storage, s.clock)
	s.identity = identity.New(s.storage, s.clock)
	s.progress = progress.New(s.storage, s.clock)

	s.controller = s.newController(s.audit, s.identity, s.progress)
	s.ctx = context.Background()
}

func (s *ControllerSuite) newController(a audit.ServiceInterface, i identity.ServiceInterface, p progress.ServiceInterface) *Controller {
	return NewController(s.verify, a, i, p, testutil.NopLogger())
}

func (s *ControllerSuite) submit(req Request) *Response {
	resp, err := s.controller.Submit(s.ctx, req)
	s.Require().NoError(err)
	return resp
}

// Happy path tests

func (s *ControllerSuite) TestCorrectFlagAnonymous() {
	resp := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{typ3_c03rc10n_m4gic}",
		PlayerName:  "anonymous",
	})

	s.True(resp.Success)
	s.Equal(100, resp.Points)
	s.Equal(MsgCorrect, resp.Message)
	s.Require().NotNil(resp.User)
	s.Equal("anonymous", resp.User.Username)
	s.Equal(100, resp.User.TotalPoints())
}

func (s *ControllerSuite) TestCorrectFlagWithWhitespace() {
	resp := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "  flag{typ3_c03rc10n_m4gic}  ",
		PlayerName:  "alice",
	})

	s.True(resp.Success)
	s.Equal(100, resp.Points)
}

func (s *ControllerSuite) TestIncorrectFlag() {
	resp := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{wrong}",
		PlayerName:  "alice",
	})

	s.False(resp.Success)
	s.Equal(0, resp.Points)
	s.Equal(MsgIncorrect, resp.Message)
	s.Nil(resp.User)
}

func (s *ControllerSuite) TestIncorrectFlagCreatesNoUser() {
	s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{wrong}",
		PlayerName:  "alice",
	})

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *ControllerSuite) TestHintDeductionsReducePoints() {
	resp := s.submit(Request{
		ChallengeID:    "easy-1",
		Flag:           "flag{typ3_c03rc10n_m4gic}",
		PlayerName:     "alice",
		HintDeductions: 30,
	})

	s.True(resp.Success)
	s.Equal(70, resp.Points)
}

func (s *ControllerSuite) TestAlreadySolved() {
	first := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{typ3_c03rc10n_m4gic}",
		PlayerName:  "alice",
	})
	s.Equal(100, first.Points)

	second := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{typ3_c03rc10n_m4gic}",
		PlayerName:  "alice",
	})

	s.True(second.Success)
	s.Equal(0, second.Points)
	s.Equal(MsgAlreadySolved, second.Message)
	s.Equal(100, second.User.TotalPoints())
}

func (s *ControllerSuite) TestEmailMatchCreditsExistingAccount() {
	existing := &model.User{ID: "user-1", Username: "bobby", Email: "bob@example.com", JoinDate: s.clock.Now()}
	s.Require().NoError(s.storage.SaveUser(s.ctx, existing))

	resp := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{typ3_c03rc10n_m4gic}",
		PlayerName:  "bob",
		Email:       "bob@example.com",
	})

	s.True(resp.Success)
	s.Equal(model.UserID("user-1"), resp.User.ID)

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *ControllerSuite) TestSessionUserCredited() {
	existing := &model.User{ID: "user-1", Username: "alice", JoinDate: s.clock.Now()}
	s.Require().NoError(s.storage.SaveUser(s.ctx, existing))

	resp := s.submit(Request{
		ChallengeID:   "medium-1",
		Flag:          "flag{h1dd3n_js_fl4g}",
		PlayerName:    "someone-else",
		SessionUserID: "user-1",
	})

	s.True(resp.Success)
	s.Equal(model.UserID("user-1"), resp.User.ID)
	s.Equal(200, resp.User.TotalPoints())
}

// Validation tests

func (s *ControllerSuite) TestMissingChallengeID() {
	_, err := s.controller.Submit(s.ctx, Request{Flag: "flag{x}", PlayerName: "alice"})
	s.ErrorIs(err, ErrMissingFields)
}

func (s *ControllerSuite) TestMissingFlag() {
	_, err := s.controller.Submit(s.ctx, Request{ChallengeID: "easy-1", PlayerName: "alice"})
	s.ErrorIs(err, ErrMissingFields)
}

func (s *ControllerSuite) TestWhitespaceOnlyFlagRejectedWithoutLogging() {
	_, err := s.controller.Submit(s.ctx, Request{
		ChallengeID: "easy-1",
		Flag:        "   ",
		PlayerName:  "alice",
	})
	s.ErrorIs(err, ErrMissingFields)

	attempts, err := s.audit.Recent(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(attempts)
}

func (s *ControllerSuite) TestInvisibleOnlyFlagRejectedWithoutLogging() {
	_, err := s.controller.Submit(s.ctx, Request{
		ChallengeID: "easy-1",
		Flag:        "\u200b\ufeff",
		PlayerName:  "alice",
	})
	s.ErrorIs(err, ErrMissingFields)

	attempts, err := s.audit.Recent(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(attempts)
}

func (s *ControllerSuite) TestUnknownChallenge() {
	_, err := s.controller.Submit(s.ctx, Request{
		ChallengeID: "nonexistent",
		Flag:        "flag{x}",
		PlayerName:  "alice",
	})
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

// Audit logging tests

func (s *ControllerSuite) TestEveryAttemptIsLogged() {
	s.submit(Request{ChallengeID: "easy-1", Flag: "flag{typ3_c03rc10n_m4gic}", PlayerName: "alice"})
	s.submit(Request{ChallengeID: "easy-1", Flag: "flag{wrong}", PlayerName: "bob"})
	s.submit(Request{ChallengeID: "easy-1", Flag: "flag{typ3_c03rc10n_m4gic}", PlayerName: "alice"})

	attempts, err := s.audit.Recent(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(attempts, 3)

	// Newest first; the duplicate solve is logged too
	s.Equal("alice", attempts[0].PlayerName)
	s.True(attempts[0].IsCorrect)
	s.Equal("bob", attempts[1].PlayerName)
	s.False(attempts[1].IsCorrect)
}

func (s *ControllerSuite) TestAuditFailureDoesNotBlockVerdict() {
	s.controller = s.newController(failingAudit{}, s.identity, s.progress)

	resp := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{typ3_c03rc10n_m4gic}",
		PlayerName:  "alice",
	})

	s.True(resp.Success)
	s.Equal(100, resp.Points)
	s.Equal(MsgCorrect, resp.Message)
}

// Persistence failure tests

func (s *ControllerSuite) TestIdentityFailureStillReportsSuccess() {
	s.controller = s.newController(s.audit, failingIdentity{}, s.progress)

	resp := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{typ3_c03rc10n_m4gic}",
		PlayerName:  "alice",
	})

	s.True(resp.Success)
	s.Equal(100, resp.Points)
	s.Equal(MsgProfileFailed, resp.Message)
	s.Nil(resp.User)
}

func (s *ControllerSuite) TestCreditFailureStillReportsSuccess() {
	s.controller = s.newController(s.audit, s.identity, failingProgress{})

	resp := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{typ3_c03rc10n_m4gic}",
		PlayerName:  "alice",
	})

	s.True(resp.Success)
	s.Equal(100, resp.Points)
	s.Equal(MsgProfileFailed, resp.Message)
}

func (s *ControllerSuite) TestIdentityFailureIncorrectFlagUnaffected() {
	s.controller = s.newController(s.audit, failingIdentity{}, s.progress)

	resp := s.submit(Request{
		ChallengeID: "easy-1",
		Flag:        "flag{wrong}",
		PlayerName:  "alice",
	})

	s.False(resp.Success)
	s.Equal(MsgIncorrect, resp.Message)
}

// Failure-injecting stubs

var errStorageDown = errors.New("storage down")

type failingAudit struct{}

func (failingAudit) Record(context.Context, string, model.ChallengeID, string, bool) error {
	return errStorageDown
}

func (failingAudit) Recent(context.Context, int) ([]*model.Attempt, error) {
	return nil, errStorageDown
}

type failingIdentity struct{}

func (failingIdentity) Resolve(context.Context, identity.Query) (*identity.Resolution, error) {
	return nil, errStorageDown
}

type failingProgress struct{}

func (failingProgress) Credit(context.Context, model.UserID, model.ChallengeID, string, int) (*progress.CreditResult, error) {
	return nil, errStorageDown
}
