package question

import (
	"encoding/json"
	"time"

	"github.com/oscardef/tutorassist/core"
	"github.com/oscardef/tutorassist/core/answer"
)

// Question is a bank entry: a prompt plus the machine-gradable description of
// its correct answer.
type Question struct {
	ID            string      `json:"id"`
	Prompt        string      `json:"prompt"`
	AnswerType    answer.Type `json:"answer_type"`
	CorrectAnswer string      `json:"correct_answer"`
	Spec          answer.Spec `json:"-"`
	Alternates    []string    `json:"alternates,omitempty"`
	Unit          string      `json:"unit,omitempty"`
	Tolerance     *float64    `json:"tolerance,omitempty"`
	CreatedBy     string      `json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"` // UTC
	UpdatedAt     time.Time   `json:"updated_at"` // UTC
}

// MarshalJSON routes the Spec interface through the stored envelope so the
// wire shape matches what clients submit.
func (q Question) MarshalJSON() ([]byte, error) {
	type alias Question
	data, err := EncodeSpec(q.Spec)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		alias
		Spec json.RawMessage `json:"spec,omitempty"`
	}{alias: alias(q), Spec: data})
}

func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	aux := struct {
		*alias
		Spec json.RawMessage `json:"spec,omitempty"`
	}{alias: (*alias)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	spec, err := DecodeSpec(q.AnswerType, aux.Spec)
	if err != nil {
		return err
	}
	q.Spec = spec
	return nil
}

// Flag is an open review item raised against a question, usually by a student
// disputing a verdict.
type Flag struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	AttemptID  string    `json:"attempt_id,omitempty"`
	RaisedBy   string    `json:"raised_by"`
	Reason     string    `json:"reason"`
	Resolved   bool      `json:"resolved"`
	ResolvedBy string    `json:"resolved_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	ResolvedAt time.Time `json:"resolved_at"`
}

// NewQuestion contains information needed to create a new Question.
type NewQuestion struct {
	Prompt        string      `json:"prompt" validate:"required"`
	AnswerType    answer.Type `json:"answer_type" validate:"required,answertype"`
	CorrectAnswer string      `json:"correct_answer"`
	Spec          answer.Spec `json:"-"`
	Alternates    []string    `json:"alternates"`
	Unit          string      `json:"unit"`
	Tolerance     *float64    `json:"tolerance" validate:"omitempty,gte=0"`
}

func (nq *NewQuestion) Validate() error {
	nq.Prompt = core.CleanString(nq.Prompt)
	nq.CorrectAnswer = core.CleanString(nq.CorrectAnswer)
	nq.Unit = core.CleanString(nq.Unit, true /* lower */)

	if err := core.Validate.Struct(nq); err != nil {
		return err
	}
	return validateSpecShape(nq.AnswerType, nq.CorrectAnswer, nq.Spec)
}

// UpdateQuestion defines what information may be provided to modify an
// existing Question.
type UpdateQuestion struct {
	Prompt        string      `json:"prompt"`
	CorrectAnswer string      `json:"correct_answer"`
	Spec          answer.Spec `json:"-"`
	Alternates    []string    `json:"alternates"`
	Unit          string      `json:"unit"`
	Tolerance     *float64    `json:"tolerance" validate:"omitempty,gte=0"`
}

func (uq *UpdateQuestion) Validate(orig Question) error {
	if prompt := core.CleanString(uq.Prompt); prompt != "" {
		uq.Prompt = prompt
	} else {
		uq.Prompt = orig.Prompt
	}
	if ca := core.CleanString(uq.CorrectAnswer); ca != "" {
		uq.CorrectAnswer = ca
	} else {
		uq.CorrectAnswer = orig.CorrectAnswer
	}
	if uq.Spec == nil {
		uq.Spec = orig.Spec
	}
	if uq.Alternates == nil {
		uq.Alternates = orig.Alternates
	}

	if err := core.Validate.Struct(uq); err != nil {
		return err
	}
	return validateSpecShape(orig.AnswerType, uq.CorrectAnswer, uq.Spec)
}

type QueryFilter struct {
	Search      string      `query:"search"`
	AnswerType  answer.Type `query:"answer_type"`
	CreatedBy   string      `query:"created_by"`
	CreatedFrom time.Time   `query:"created_from"`
	CreatedTo   time.Time   `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.AnswerType == "" && qf.CreatedBy == "" &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
