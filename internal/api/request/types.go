package request

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/flagvault/flagvault/internal/flagnorm"
)

// FlexInt decodes a JSON value that should be an integer but may arrive
// as a float, a numeric string, or something unusable. Unusable values
// decode to zero rather than failing the whole request.
type FlexInt int

// UnmarshalJSON implements lenient integer decoding
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(int(n))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexInt(int(parsed))
			return nil
		}
	}

	*f = 0
	return nil
}

// Int returns the decoded value
func (f FlexInt) Int() int {
	return int(f)
}

// SubmitFlagRequest is the request body for submitting a flag. Clients
// built against older versions of the API send "challenge", "flag" and
// "name"; both spellings of each field are accepted.
type SubmitFlagRequest struct {
	ChallengeID    string  `json:"challengeId"`
	Challenge      string  `json:"challenge"`
	SubmittedFlag  string  `json:"submittedFlag"`
	Flag           string  `json:"flag"`
	Username       string  `json:"username"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	HintDeductions FlexInt `json:"hintDeductions"`
}

// ResolvedChallengeID returns the challenge id, whichever field it came
// in, with stray whitespace and invisible characters removed
func (r *SubmitFlagRequest) ResolvedChallengeID() string {
	id := r.ChallengeID
	if id == "" {
		id = r.Challenge
	}
	return flagnorm.Normalize(id)
}

// ResolvedFlag returns the submitted flag, whichever field it came in
func (r *SubmitFlagRequest) ResolvedFlag() string {
	if r.SubmittedFlag != "" {
		return r.SubmittedFlag
	}
	return r.Flag
}

// ResolvedPlayerName returns the cleaned player name, defaulting to
// "anonymous" when neither field carries a usable one
func (r *SubmitFlagRequest) ResolvedPlayerName() string {
	name := r.Username
	if name == "" {
		name = r.Name
	}
	if name = flagnorm.Normalize(name); name != "" {
		return name
	}
	return "anonymous"
}

// ResolvedEmail returns the cleaned email. A padded email has to match
// the account it was meant for, not create a second one.
func (r *SubmitFlagRequest) ResolvedEmail() string {
	return flagnorm.Normalize(r.Email)
}

// SignupRequest is the request body for creating an account
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the request body for updating the session
// user's profile. Empty fields are left unchanged.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}
