package loadcheck

import (
	"time"

	"github.com/okian/jobaccept/internal/domain/candidate"
	"github.com/okian/jobaccept/internal/domain/types"
)

// Config holds configuration for the load check
type Config struct {
	BaseURL       string        // Base URL of the service
	NumCandidates int           // Number of candidates to generate
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for candidates
	LogFile       string        // Log file for check output
	Verbose       bool          // Enable verbose logging
}

// Candidate is one generated form submission.
type Candidate struct {
	ID     string           `json:"id"`
	Record candidate.Record `json:"record"`
}

// Outcome is the result of submitting one candidate.
type Outcome struct {
	CandidateID string           `json:"candidate_id"`
	Status      int              `json:"status"`
	Prediction  types.Prediction `json:"prediction"`
	Err         string           `json:"error,omitempty"`
}

// Stats holds check statistics
type Stats struct {
	CandidatesGenerated int
	Submitted           int
	Successful          int
	Failed              int
	Resubmitted         int
	Labels              map[string]int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
