package submission

import (
	"context"
	"errors"
	"log/slog"

	"github.com/flagvault/flagvault/internal/flagnorm"
	"github.com/flagvault/flagvault/internal/model"
	"github.com/flagvault/flagvault/internal/services/audit"
	"github.com/flagvault/flagvault/internal/services/identity"
	"github.com/flagvault/flagvault/internal/services/progress"
	"github.com/flagvault/flagvault/internal/services/verify"
)

// ErrMissingFields is returned when a submission lacks a challenge id or flag
var ErrMissingFields = errors.New("missing required fields")

// Outcome messages reported to the submitter
const (
	MsgCorrect       = "Correct flag!"
	MsgIncorrect     = "Incorrect flag."
	MsgAlreadySolved = "Challenge already solved!"
	MsgProfileFailed = "Flag correct but profile update failed"
)

// Request is one flag submission after request-level decoding
type Request struct {
	ChallengeID    model.ChallengeID
	Flag           string
	PlayerName     string
	Email          string
	HintDeductions int
	SessionUserID  model.UserID
}

// Response is the outcome reported to the submitter. User carries the
// post-credit record when one was resolved, for session refresh.
type Response struct {
	Success bool
	Points  int
	Message string
	User    *model.User
}

// Controller runs a submission through verification, audit logging and
// progress crediting
type Controller struct {
	verify   verify.ServiceInterface
	audit    audit.ServiceInterface
	identity identity.ServiceInterface
	progress progress.ServiceInterface
	logger   *slog.Logger
}

// NewController creates a new submission controller
func NewController(
	verify verify.ServiceInterface,
	audit audit.ServiceInterface,
	identity identity.ServiceInterface,
	progress progress.ServiceInterface,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		verify:   verify,
		audit:    audit,
		identity: identity,
		progress: progress,
		logger:   logger,
	}
}

// Submit checks a flag and, when correct, credits the solve to the
// resolved user. The attempt is logged whether or not the flag is
// correct, and a logging failure never blocks the verdict. Once the flag
// has been verified correct, a failure to resolve or credit the user
// does not retract the verdict: the submitter still gets success with
// points, with a message noting the profile was not updated.
//
// The missing-fields check runs on the normalized flag: a flag that is
// all whitespace or invisible characters is rejected up front, before
// anything is logged.
func (c *Controller) Submit(ctx context.Context, req Request) (*Response, error) {
	flag := flagnorm.Normalize(req.Flag)
	if req.ChallengeID == "" || flag == "" {
		return nil, ErrMissingFields
	}

	result, err := c.verify.Verify(req.ChallengeID, flag, req.HintDeductions)
	if err != nil {
		return nil, err
	}

	if auditErr := c.audit.Record(ctx, req.PlayerName, req.ChallengeID, result.SubmittedFlag, result.IsCorrect); auditErr != nil {
		c.logger.Warn("failed to record attempt",
			slog.String("challenge_id", string(req.ChallengeID)),
			slog.String("player", req.PlayerName),
			slog.String("error", auditErr.Error()),
		)
	}

	if !result.IsCorrect {
		return &Response{
			Success: false,
			Points:  0,
			Message: MsgIncorrect,
		}, nil
	}

	resolution, err := c.identity.Resolve(ctx, identity.Query{
		SessionUserID: req.SessionUserID,
		Email:         req.Email,
		DisplayName:   req.PlayerName,
	})
	if err != nil {
		c.logger.Error("failed to resolve user for correct submission",
			slog.String("challenge_id", string(req.ChallengeID)),
			slog.String("player", req.PlayerName),
			slog.String("error", err.Error()),
		)
		return &Response{
			Success: true,
			Points:  result.Points,
			Message: MsgProfileFailed,
		}, nil
	}

	credit, err := c.progress.Credit(ctx, resolution.User.ID, req.ChallengeID, result.SubmittedFlag, result.Points)
	if err != nil {
		c.logger.Error("failed to credit solve",
			slog.String("challenge_id", string(req.ChallengeID)),
			slog.String("user_id", string(resolution.User.ID)),
			slog.String("error", err.Error()),
		)
		return &Response{
			Success: true,
			Points:  result.Points,
			Message: MsgProfileFailed,
		}, nil
	}

	if !credit.Applied {
		return &Response{
			Success: true,
			Points:  0,
			Message: MsgAlreadySolved,
			User:    credit.User,
		}, nil
	}

	c.logger.Info("challenge solved",
		slog.String("challenge_id", string(req.ChallengeID)),
		slog.String("user_id", string(credit.User.ID)),
		slog.String("username", credit.User.Username),
		slog.Int("points", credit.PointsAwarded),
	)

	return &Response{
		Success: true,
		Points:  credit.PointsAwarded,
		Message: MsgCorrect,
		User:    credit.User,
	}, nil
}
