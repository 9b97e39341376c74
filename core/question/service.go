package question

import (
	"errors"
	"time"

	"github.com/oscardef/tutorassist/core"
	"github.com/oscardef/tutorassist/core/answer"
)

var (
	// errors
	ErrNotFound     = errors.New("question not found")
	ErrFlagNotFound = errors.New("flag not found")
)

type (
	Repository interface {
		CreateQuestion(q Question) (Question, error)
		QueryAllQuestions() ([]Question, error)
		GetQuestionByID(id string) (Question, error)
		// FilterQuestions applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Question.Prompt.
		FilterQuestions(filter QueryFilter) ([]Question, error)
		UpdateQuestion(q Question) (Question, error)
		DeleteQuestionsByID(ids ...string) error

		CreateFlag(f Flag) (Flag, error)
		GetFlagByID(id string) (Flag, error)
		QueryOpenFlags() ([]Flag, error)
		UpdateFlag(f Flag) (Flag, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nq NewQuestion, createdBy string) (Question, error) {
	now := time.Now().UTC()
	q := Question{
		Prompt:        nq.Prompt,
		AnswerType:    nq.AnswerType,
		CorrectAnswer: nq.CorrectAnswer,
		Spec:          nq.Spec,
		Alternates:    nq.Alternates,
		Unit:          nq.Unit,
		Tolerance:     nq.Tolerance,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateQuestion(q)
}

func (svc *Service) QueryAll() ([]Question, error) {
	return svc.repo.QueryAllQuestions()
}

func (svc *Service) GetByID(id string) (Question, error) {
	return svc.repo.GetQuestionByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Question, error) {
	return svc.repo.FilterQuestions(filter)
}

func (svc *Service) Update(id string, uq UpdateQuestion) (Question, error) {
	orig, err := svc.repo.GetQuestionByID(id)
	if err != nil {
		return Question{}, err
	}
	orig.Prompt = uq.Prompt
	orig.CorrectAnswer = uq.CorrectAnswer
	orig.Spec = uq.Spec
	orig.Alternates = uq.Alternates
	orig.Unit = uq.Unit
	if uq.Tolerance != nil {
		orig.Tolerance = uq.Tolerance
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateQuestion(orig)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteQuestionsByID(ids...)
}

// AddAlternate records an additional accepted answer form, typically after a
// tutor upholds a student dispute. Duplicates are detected on the normalized
// form so "1/2" and "\frac{1}{2}" count as one alternate.
func (svc *Service) AddAlternate(id, alternate string) (Question, error) {
	alternate = core.CleanString(alternate)
	if alternate == "" {
		return Question{}, core.NewValidationError(
			errors.New("empty alternate"),
			core.FieldError{Field: "alternate", Error: "alternate is required"},
		)
	}

	q, err := svc.repo.GetQuestionByID(id)
	if err != nil {
		return Question{}, err
	}

	norm := answer.Normalize(alternate)
	if norm == answer.Normalize(q.CorrectAnswer) {
		return q, nil // already the canonical answer
	}
	for _, alt := range q.Alternates {
		if answer.Normalize(alt) == norm {
			return q, nil
		}
	}

	q.Alternates = append(q.Alternates, alternate)
	q.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateQuestion(q)
}

// Flag opens a review item against a question.
func (svc *Service) Flag(questionID, attemptID, raisedBy, reason string) (Flag, error) {
	if _, err := svc.repo.GetQuestionByID(questionID); err != nil {
		return Flag{}, err
	}
	f := Flag{
		QuestionID: questionID,
		AttemptID:  attemptID,
		RaisedBy:   raisedBy,
		Reason:     core.CleanString(reason),
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateFlag(f)
}

func (svc *Service) OpenFlags() ([]Flag, error) {
	return svc.repo.QueryOpenFlags()
}

// ResolveFlag closes a review item. When acceptAlternate is non-empty the
// disputed answer is added to the question's alternates so future submissions
// of that form grade as correct.
func (svc *Service) ResolveFlag(flagID, resolvedBy, acceptAlternate string) (Flag, error) {
	f, err := svc.repo.GetFlagByID(flagID)
	if err != nil {
		return Flag{}, err
	}
	if f.Resolved {
		return f, nil
	}

	if acceptAlternate != "" {
		if _, err := svc.AddAlternate(f.QuestionID, acceptAlternate); err != nil {
			return Flag{}, err
		}
	}

	f.Resolved = true
	f.ResolvedBy = resolvedBy
	f.ResolvedAt = time.Now().UTC()
	return svc.repo.UpdateFlag(f)
}

// validateSpecShape checks that the correct-answer data is coherent for the
// answer type, so grading never meets a question it cannot interpret.
func validateSpecShape(t answer.Type, correctAnswer string, spec answer.Spec) error {
	fieldErr := func(field, msg string) error {
		return core.NewValidationError(errors.New(msg), core.FieldError{Field: field, Error: msg})
	}

	switch t {
	case answer.TypeLongAnswer:
		return nil

	case answer.TypeMultipleChoice:
		mc, ok := spec.(answer.MultipleChoiceSpec)
		if !ok {
			return fieldErr("spec", "multiple choice questions require a choices spec")
		}
		if len(mc.Choices) < 2 {
			return fieldErr("spec", "multiple choice questions require at least 2 choices")
		}
		if mc.CorrectIndex < 0 || mc.CorrectIndex >= len(mc.Choices) {
			return fieldErr("spec", "correct_index is out of range")
		}
		return nil

	case answer.TypeTrueFalse:
		if _, ok := spec.(answer.TrueFalseSpec); !ok {
			if correctAnswer != "true" && correctAnswer != "false" {
				return fieldErr("correct_answer", `true/false questions require "true" or "false"`)
			}
		}
		return nil

	case answer.TypeFillBlank:
		fb, ok := spec.(answer.FillBlankSpec)
		if !ok || len(fb.Blanks) == 0 {
			return fieldErr("spec", "fill-blank questions require at least 1 blank")
		}
		for _, b := range fb.Blanks {
			if b.Value == "" {
				return fieldErr("spec", "fill-blank values cannot be empty")
			}
		}
		return nil

	case answer.TypeMatching:
		m, ok := spec.(answer.MatchingSpec)
		if !ok || len(m.Pairs) == 0 {
			return fieldErr("spec", "matching questions require pairs")
		}
		if len(m.CorrectMatches) != len(m.Pairs) {
			return fieldErr("spec", "correct_matches must cover every pair")
		}
		for _, idx := range m.CorrectMatches {
			if idx < 0 || idx >= len(m.Pairs) {
				return fieldErr("spec", "correct_matches index is out of range")
			}
		}
		return nil

	default:
		// free-typed answers need a reference value
		if correctAnswer == "" {
			return fieldErr("correct_answer", "correct_answer is required")
		}
		return nil
	}
}
