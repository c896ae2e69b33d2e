package recaptcha

import (
	"encoding/json"
	"time"
)

// Result is the decoded siteverify response.
type Result struct {
	Success     bool      `json:"success"`
	Score       float64   `json:"score"`
	Action      string    `json:"action"`
	ChallengeTS time.Time `json:"challenge_ts"`
	Hostname    string    `json:"hostname"`
	ErrorCodes  []string  `json:"error-codes"`
}

// UnmarshalJSON accepts both "error-codes" (what Google sends) and "error_codes".
// Field names match case-insensitively, as with encoding/json defaults.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Success     bool            `json:"success"`
		Score       float64         `json:"score"`
		Action      string          `json:"action"`
		ChallengeTS json.RawMessage `json:"challenge_ts"`
		Hostname    string          `json:"hostname"`
		Dashed      []string        `json:"error-codes"`
		Underscored []string        `json:"error_codes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Result{
		Success:    raw.Success,
		Score:      raw.Score,
		Action:     raw.Action,
		Hostname:   raw.Hostname,
		ErrorCodes: raw.Dashed,
	}
	if len(r.ErrorCodes) == 0 {
		r.ErrorCodes = raw.Underscored
	}
	// A malformed timestamp does not invalidate the verdict.
	if len(raw.ChallengeTS) > 0 {
		var ts time.Time
		if err := json.Unmarshal(raw.ChallengeTS, &ts); err == nil {
			r.ChallengeTS = ts
		}
	}
	return nil
}

// Passed reports whether the result clears minScore.
func (r Result) Passed(minScore float64) bool {
	return r.Success && r.Score >= minScore
}
