package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flagvault/flagvault/internal/model"
)

// Service holds the static table of challenges and their correct flags.
// The table is fixed at construction time; submissions never mutate it.
type Service struct {
	challenges map[model.ChallengeID]*model.Challenge
	order      []model.ChallengeID
}

// New creates a registry from an explicit challenge list
func New(challenges []*model.Challenge) *Service {
	s := &Service{
		challenges: make(map[model.ChallengeID]*model.Challenge, len(challenges)),
		order:      make([]model.ChallengeID, 0, len(challenges)),
	}
	for _, c := range challenges {
		if _, exists := s.challenges[c.ID]; exists {
			continue
		}
		s.challenges[c.ID] = c
		s.order = append(s.order, c.ID)
	}
	return s
}

// Default returns a registry loaded with the builtin challenge set
func Default() *Service {
	return New([]*model.Challenge{
		{ID: "easy-1", CorrectFlag: "flag{typ3_c03rc10n_m4gic}", BasePoints: 100},
		{ID: "easy-2", CorrectFlag: "flag{b4se64_d3c0d3d_m3}", BasePoints: 150},
		{ID: "medium-1", CorrectFlag: "flag{h1dd3n_js_fl4g}", BasePoints: 200},
		{ID: "medium-2", CorrectFlag: "flag{sql_1nj3ct10n_succ3ss}", BasePoints: 250},
		{ID: "medium-3", CorrectFlag: "flag{c00k13_m0nst3r_4dm1n}", BasePoints: 300},
		{ID: "hard-1", CorrectFlag: "flag{xss_vu1n3r4b1l1ty_f0und}", BasePoints: 400},
		{ID: "hard-2", CorrectFlag: "flag{Adv4nc3d_byp4ss_m4st3r}", BasePoints: 500},
	})
}

// challengeFile is the on-disk JSON shape for NewFromFile
type challengeFile struct {
	Challenges []struct {
		ID         string `json:"id"`
		Flag       string `json:"flag"`
		BasePoints int    `json:"basePoints"`
	} `json:"challenges"`
}

// NewFromFile loads a challenge set from a JSON file
func NewFromFile(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading challenge file: %w", err)
	}

	var file challengeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing challenge file: %w", err)
	}

	challenges := make([]*model.Challenge, 0, len(file.Challenges))
	for _, c := range file.Challenges {
		if c.ID == "" || c.Flag == "" {
			return nil, fmt.Errorf("challenge entry missing id or flag")
		}
		if c.BasePoints < 0 {
			return nil, fmt.Errorf("challenge %q has negative base points", c.ID)
		}
		challenges = append(challenges, &model.Challenge{
			ID:          model.ChallengeID(c.ID),
			CorrectFlag: c.Flag,
			BasePoints:  c.BasePoints,
		})
	}

	return New(challenges), nil
}

// Get returns the challenge for the given id
func (s *Service) Get(id model.ChallengeID) (*model.Challenge, error) {
	c, ok := s.challenges[id]
	if !ok {
		return nil, model.ErrChallengeNotFound
	}
	return c, nil
}

// List returns all challenges in their registration order
func (s *Service) List() []*model.Challenge {
	out := make([]*model.Challenge, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.challenges[id])
	}
	return out
}

// Count returns the number of registered challenges
func (s *Service) Count() int {
	return len(s.challenges)
}

// Interface for dependency injection
type ServiceInterface interface {
	Get(id model.ChallengeID) (*model.Challenge, error)
	List() []*model.Challenge
	Count() int
}

var _ ServiceInterface = (*Service)(nil)
