package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SubmitResult:
		o.printSubmitResult(v)
	case AuthResult:
		o.printAuthResult(v)
	case User:
		o.printUser(v)
	case AuthStatusResult:
		o.printAuthStatus(v)
	case ChallengeList:
		o.printChallengeList(v)
	case AttemptList:
		o.printAttemptList(v)
	case LeaderboardResult:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SubmitResult is the flat submission response
type SubmitResult struct {
	Success bool   `json:"success"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

// SolvedEntry response type
type SolvedEntry struct {
	ChallengeID string    `json:"challengeId"`
	Points      int       `json:"points"`
	Timestamp   time.Time `json:"timestamp"`
}

// User response type (matches API)
type User struct {
	ID               string        `json:"id"`
	Username         string        `json:"username"`
	Email            string        `json:"email"`
	Bio              string        `json:"bio"`
	JoinDate         time.Time     `json:"joinDate"`
	SolvedChallenges []SolvedEntry `json:"solvedChallenges"`
	TotalPoints      int           `json:"totalPoints"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"sessionToken"`
}

// AuthStatusResult is the session status response
type AuthStatusResult struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user"`
}

// Challenge response type
type Challenge struct {
	ID         string `json:"id"`
	BasePoints int    `json:"basePoints"`
}

// ChallengeList response type
type ChallengeList struct {
	Challenges []Challenge `json:"challenges"`
}

// Attempt response type
type Attempt struct {
	PlayerName    string    `json:"playerName"`
	ChallengeID   string    `json:"challengeId"`
	SubmittedFlag string    `json:"submittedFlag"`
	IsCorrect     bool      `json:"isCorrect"`
	Timestamp     time.Time `json:"timestamp"`
}

// AttemptList response type
type AttemptList struct {
	Attempts []Attempt `json:"attempts"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	TotalPoints int    `json:"totalPoints"`
	SolveCount  int    `json:"solveCount"`
}

// LeaderboardResult response type
type LeaderboardResult struct {
	Standings []LeaderboardEntry `json:"standings"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSubmitResult(r SubmitResult) {
	if r.Success {
		fmt.Printf("%s (+%d points)\n", r.Message, r.Points)
	} else {
		fmt.Println(r.Message)
	}
}

func (o *Output) printAuthResult(r AuthResult) {
	fmt.Printf("Logged in as %s", r.User.Username)
	if r.User.Email != "" {
		fmt.Printf(" <%s>", r.User.Email)
	}
	fmt.Printf("\nTotal points: %d\n", r.User.TotalPoints)
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s\n", u.Username)
	if u.Email != "" {
		fmt.Printf("Email: %s\n", u.Email)
	}
	if u.Bio != "" {
		fmt.Printf("Bio: %s\n", u.Bio)
	}
	fmt.Printf("Joined: %s\n", u.JoinDate.Format(time.RFC3339))
	fmt.Printf("Total points: %d\n", u.TotalPoints)
	if len(u.SolvedChallenges) > 0 {
		fmt.Println("Solved:")
		for _, entry := range u.SolvedChallenges {
			fmt.Printf("  %-12s %4d pts  %s\n", entry.ChallengeID, entry.Points, entry.Timestamp.Format(time.RFC3339))
		}
	}
}

func (o *Output) printAuthStatus(r AuthStatusResult) {
	if !r.Authenticated {
		fmt.Println("Not logged in")
		return
	}
	o.printUser(*r.User)
}

func (o *Output) printChallengeList(r ChallengeList) {
	fmt.Printf("%-12s %s\n", "CHALLENGE", "POINTS")
	for _, c := range r.Challenges {
		fmt.Printf("%-12s %d\n", c.ID, c.BasePoints)
	}
}

func (o *Output) printAttemptList(r AttemptList) {
	fmt.Printf("%-20s %-12s %-8s %s\n", "PLAYER", "CHALLENGE", "CORRECT", "TIME")
	for _, a := range r.Attempts {
		fmt.Printf("%-20s %-12s %-8t %s\n", a.PlayerName, a.ChallengeID, a.IsCorrect, a.Timestamp.Format(time.RFC3339))
	}
}

func (o *Output) printLeaderboard(r LeaderboardResult) {
	fmt.Printf("%-6s %-20s %-8s %s\n", "RANK", "PLAYER", "POINTS", "SOLVES")
	for _, e := range r.Standings {
		fmt.Printf("%-6d %-20s %-8d %d\n", e.Rank, e.Username, e.TotalPoints, e.SolveCount)
	}
}

func (o *Output) printHealthResult(r HealthResult) {
	fmt.Printf("Server status: %s\n", r.Status)
}
