package attempt

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oscardef/tutorassist/core"
	"github.com/oscardef/tutorassist/core/answer"
	"github.com/oscardef/tutorassist/core/question"
	"github.com/oscardef/tutorassist/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("attempt not found")
	ErrAlreadyDisputed = errors.New("attempt is already disputed")
	ErrNotAttemptOwner = errors.New("attempt belongs to another student")
)

const disputeMailTemplate = "attempt-disputed"

type (
	Repository interface {
		CreateAttempt(att Attempt) (Attempt, error)
		GetAttemptByID(id string) (Attempt, error)
		// FilterAttempts applies AND operation on available QueryFilter fields.
		FilterAttempts(filter QueryFilter) ([]Attempt, error)
		UpdateAttempt(att Attempt) (Attempt, error)
	}

	Service struct {
		repo      Repository
		questions *question.Service
		users     *user.Service
		checker   *answer.Checker
		mailSvc   core.EmailService
		log       core.Logger
	}
)

func NewService(
	repo Repository,
	questions *question.Service,
	users *user.Service,
	checker *answer.Checker,
	mailSvc core.EmailService,
	log core.Logger,
) *Service {
	return &Service{
		repo:      repo,
		questions: questions,
		users:     users,
		checker:   checker,
		mailSvc:   mailSvc,
		log:       log,
	}
}

// Submit grades a student answer and records the attempt. The verdict is
// always recomputed here; a client-asserted claim is stored untouched so
// review tooling can spot widgets that grade differently than the server.
func (svc *Service) Submit(studentID string, na NewAttempt) (Attempt, error) {
	q, err := svc.questions.GetByID(na.QuestionID)
	if err != nil {
		return Attempt{}, err
	}

	res := svc.checker.Validate(na.Answer, q.CorrectAnswer, q.AnswerType, gradingSpec(q))

	if na.ClientClaim != nil && *na.ClientClaim != res.IsCorrect {
		svc.log.Warn(
			fmt.Sprintf("attempt: client claim disagrees with verdict (question %s)", q.ID),
			"claim", *na.ClientClaim, "verdict", res.IsCorrect,
		)
	}

	att := Attempt{
		QuestionID:       q.ID,
		StudentID:        studentID,
		Answer:           na.Answer,
		NormalizedAnswer: answer.Normalize(na.Answer),
		ClientClaim:      na.ClientClaim,
		IsCorrect:        res.IsCorrect,
		MatchType:        res.MatchType,
		Confidence:       res.Confidence,
		CreatedAt:        time.Now().UTC(),
	}
	return svc.repo.CreateAttempt(att)
}

func (svc *Service) GetByID(id string) (Attempt, error) {
	return svc.repo.GetAttemptByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Attempt, error) {
	return svc.repo.FilterAttempts(filter)
}

// Dispute flags an attempt's verdict for manual review. It opens a question
// flag and notifies the question's author; a failed notification never fails
// the dispute itself.
func (svc *Service) Dispute(attemptID, studentID string, nd NewDispute) (Attempt, error) {
	att, err := svc.repo.GetAttemptByID(attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if att.StudentID != studentID {
		return Attempt{}, ErrNotAttemptOwner
	}
	if att.Disputed {
		return Attempt{}, ErrAlreadyDisputed
	}

	q, err := svc.questions.GetByID(att.QuestionID)
	if err != nil {
		return Attempt{}, err
	}
	if _, err = svc.questions.Flag(q.ID, att.ID, studentID, nd.Reason); err != nil {
		return Attempt{}, err
	}

	att.Disputed = true
	att, err = svc.repo.UpdateAttempt(att)
	if err != nil {
		return Attempt{}, err
	}

	svc.sendDisputeMail(att, q, nd.Reason)
	return att, nil
}

func (svc *Service) sendDisputeMail(att Attempt, q question.Question, reason string) {
	tutor, err := svc.users.GetByID(q.CreatedBy)
	if err != nil || tutor.Email == "" {
		svc.log.Warn("attempt: dispute notification skipped, no reachable author",
			"question", q.ID, "err", err)
		return
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: tutor.Name, Address: tutor.Email}},
		Subject:      "An answer verdict was disputed",
		TemplateName: disputeMailTemplate,
		TemplateData: disputeMailData{
			QuestionPrompt: q.Prompt,
			CorrectAnswer:  q.CorrectAnswer,
			StudentAnswer:  att.Answer,
			Similarity:     fmt.Sprintf("%.0f%%", SimilarityRatio(att.Answer, q.CorrectAnswer)*100),
			Reason:         reason,
		},
	})
}

type disputeMailData struct {
	QuestionPrompt string
	CorrectAnswer  string
	StudentAnswer  string
	Similarity     string
	Reason         string
}

// SimilarityRatio scores how close two answers are on their normalized forms,
// a near-miss hint for reviewers triaging disputes.
func SimilarityRatio(a, b string) float64 {
	na, nb := answer.Normalize(a), answer.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(na, ""), strings.Split(nb, "")).Ratio()
}

// gradingSpec merges the question's stored spec with its column-level
// alternates and tolerance so grading sees one coherent spec.
func gradingSpec(q question.Question) answer.Spec {
	switch sp := q.Spec.(type) {
	case answer.ExactSpec:
		sp.Alternates = mergeAlternates(sp.Alternates, q.Alternates)
		return sp
	case answer.ShortAnswerSpec:
		sp.Alternates = mergeAlternates(sp.Alternates, q.Alternates)
		return sp
	case answer.ExpressionSpec:
		sp.Alternates = mergeAlternates(sp.Alternates, q.Alternates)
		return sp
	case answer.NumericSpec:
		if sp.Tolerance == nil {
			sp.Tolerance = q.Tolerance
		}
		if sp.Unit == "" {
			sp.Unit = q.Unit
		}
		return sp
	case nil:
		// no stored spec: build one from the question columns
		switch q.AnswerType {
		case answer.TypeNumeric:
			return answer.NumericSpec{Tolerance: q.Tolerance, Unit: q.Unit}
		case answer.TypeExact:
			return answer.ExactSpec{Alternates: q.Alternates}
		case answer.TypeExpression:
			return answer.ExpressionSpec{Alternates: q.Alternates}
		case answer.TypeShortAnswer:
			return answer.ShortAnswerSpec{Alternates: q.Alternates}
		case answer.TypeLongAnswer:
			return answer.LongAnswerSpec{}
		}
		return nil
	default:
		return sp
	}
}

// mergeAlternates always copies: appending in place could write through to
// the stored spec's backing array.
func mergeAlternates(specAlts, colAlts []string) []string {
	if len(specAlts) == 0 && len(colAlts) == 0 {
		return nil
	}
	merged := make([]string, 0, len(specAlts)+len(colAlts))
	merged = append(merged, specAlts...)
	merged = append(merged, colAlts...)
	return merged
}
