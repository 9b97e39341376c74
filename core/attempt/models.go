package attempt

import (
	"time"

	"github.com/oscardef/tutorassist/core"
	"github.com/oscardef/tutorassist/core/answer"
)

// Attempt is one graded submission. The client may assert its own verdict
// (some exercise widgets pre-grade locally) but that claim is recorded for
// audit only; IsCorrect always comes from server-side grading.
type Attempt struct {
	ID               string `json:"id"`
	QuestionID       string `json:"question_id"`
	StudentID        string `json:"student_id"`
	Answer           string `json:"answer"`
	NormalizedAnswer string `json:"normalized_answer"`
	ClientClaim      *bool  `json:"client_claim,omitempty"`

	// server verdict
	IsCorrect  bool              `json:"is_correct"`
	MatchType  answer.MatchType  `json:"match_type"`
	Confidence answer.Confidence `json:"confidence"`

	Disputed  bool      `json:"disputed"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewAttempt contains information needed to submit an Attempt.
type NewAttempt struct {
	QuestionID  string `json:"question_id" validate:"required"`
	Answer      string `json:"answer" validate:"required"`
	ClientClaim *bool  `json:"client_claim"`
}

func (na *NewAttempt) Validate() error {
	na.QuestionID = core.CleanString(na.QuestionID)
	na.Answer = answer.SanitizeInput(na.Answer)
	return core.Validate.Struct(na)
}

// NewDispute contains information needed to dispute an Attempt's verdict.
type NewDispute struct {
	Reason string `json:"reason" validate:"required"`
}

func (nd *NewDispute) Validate() error {
	nd.Reason = core.CleanString(nd.Reason)
	return core.Validate.Struct(nd)
}

type QueryFilter struct {
	QuestionID  string    `query:"question_id"`
	StudentID   string    `query:"student_id"`
	Disputed    *bool     `query:"disputed"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.QuestionID == "" && qf.StudentID == "" && qf.Disputed == nil &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}
