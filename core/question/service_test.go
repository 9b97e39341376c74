package question_test

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscardef/tutorassist/core"
	"github.com/oscardef/tutorassist/core/answer"
	"github.com/oscardef/tutorassist/core/question"
	dummydb "github.com/oscardef/tutorassist/storage/database/dummy"
)

func newService(t *testing.T) *question.Service {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	return question.NewService(dummydb.NewQuestionRepository(db))
}

func TestNewQuestionValidate(t *testing.T) {
	tol := 0.01
	negTol := -0.5

	tests := []struct {
		name    string
		nq      question.NewQuestion
		wantErr bool
	}{
		{
			name:    "prompt required",
			nq:      question.NewQuestion{AnswerType: answer.TypeNumeric, CorrectAnswer: "4"},
			wantErr: true,
		},
		{
			name:    "answer type required",
			nq:      question.NewQuestion{Prompt: "What is 2+2?", CorrectAnswer: "4"},
			wantErr: true,
		},
		{
			name:    "unknown answer type",
			nq:      question.NewQuestion{Prompt: "What is 2+2?", AnswerType: "riddle", CorrectAnswer: "4"},
			wantErr: true,
		},
		{
			name:    "negative tolerance",
			nq:      question.NewQuestion{Prompt: "What is 2+2?", AnswerType: answer.TypeNumeric, CorrectAnswer: "4", Tolerance: &negTol},
			wantErr: true,
		},
		{
			name: "numeric ok",
			nq:   question.NewQuestion{Prompt: "What is 2+2?", AnswerType: answer.TypeNumeric, CorrectAnswer: "4", Tolerance: &tol},
		},
		{
			name:    "numeric needs a correct answer",
			nq:      question.NewQuestion{Prompt: "What is 2+2?", AnswerType: answer.TypeNumeric},
			wantErr: true,
		},
		{
			name: "multiple choice needs 2 choices",
			nq: question.NewQuestion{
				Prompt: "Pick one", AnswerType: answer.TypeMultipleChoice,
				Spec: answer.MultipleChoiceSpec{Choices: []string{"only"}, CorrectIndex: 0},
			},
			wantErr: true,
		},
		{
			name: "multiple choice index out of range",
			nq: question.NewQuestion{
				Prompt: "Pick one", AnswerType: answer.TypeMultipleChoice,
				Spec: answer.MultipleChoiceSpec{Choices: []string{"a", "b"}, CorrectIndex: 2},
			},
			wantErr: true,
		},
		{
			name: "multiple choice ok",
			nq: question.NewQuestion{
				Prompt: "Pick one", AnswerType: answer.TypeMultipleChoice,
				Spec: answer.MultipleChoiceSpec{Choices: []string{"a", "b"}, CorrectIndex: 1},
			},
		},
		{
			name:    "true/false needs true or false",
			nq:      question.NewQuestion{Prompt: "The sky is blue.", AnswerType: answer.TypeTrueFalse, CorrectAnswer: "yes"},
			wantErr: true,
		},
		{
			name: "true/false with spec",
			nq: question.NewQuestion{
				Prompt: "The sky is blue.", AnswerType: answer.TypeTrueFalse,
				Spec: answer.TrueFalseSpec{Value: true},
			},
		},
		{
			name: "fill-blank needs blanks",
			nq: question.NewQuestion{
				Prompt: "___ and ___", AnswerType: answer.TypeFillBlank,
				Spec: answer.FillBlankSpec{},
			},
			wantErr: true,
		},
		{
			name: "fill-blank empty value",
			nq: question.NewQuestion{
				Prompt: "___ and ___", AnswerType: answer.TypeFillBlank,
				Spec: answer.FillBlankSpec{Blanks: []answer.Blank{{Value: "salt"}, {Value: ""}}},
			},
			wantErr: true,
		},
		{
			name: "matching matches must cover pairs",
			nq: question.NewQuestion{
				Prompt: "Match them", AnswerType: answer.TypeMatching,
				Spec: answer.MatchingSpec{
					Pairs:          []answer.MatchPair{{Left: "a", Right: "1"}, {Left: "b", Right: "2"}},
					CorrectMatches: []int{0},
				},
			},
			wantErr: true,
		},
		{
			name: "matching ok",
			nq: question.NewQuestion{
				Prompt: "Match them", AnswerType: answer.TypeMatching,
				Spec: answer.MatchingSpec{
					Pairs:          []answer.MatchPair{{Left: "a", Right: "1"}, {Left: "b", Right: "2"}},
					CorrectMatches: []int{1, 0},
				},
			},
		},
		{
			name: "long answer needs nothing",
			nq:   question.NewQuestion{Prompt: "Explain photosynthesis.", AnswerType: answer.TypeLongAnswer},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nq.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuestionService_Update(t *testing.T) {
	svc := newService(t)

	tol := 0.01
	q, err := svc.Create(question.NewQuestion{
		Prompt: "What is 1/3 as a decimal?", AnswerType: answer.TypeNumeric, CorrectAnswer: "0.333", Tolerance: &tol,
	}, "tutor-1")
	require.NoError(t, err)

	// empty fields fall back to the stored values
	uq := question.UpdateQuestion{Prompt: "What is one third as a decimal?"}
	require.NoError(t, uq.Validate(q))
	updated, err := svc.Update(q.ID, uq)
	require.NoError(t, err)

	assert.Equal(t, "What is one third as a decimal?", updated.Prompt)
	assert.Equal(t, "0.333", updated.CorrectAnswer)
	require.NotNil(t, updated.Tolerance)
	assert.Equal(t, tol, *updated.Tolerance)
	assert.True(t, updated.UpdatedAt.After(q.UpdatedAt) || updated.UpdatedAt.Equal(q.UpdatedAt))

	_, err = svc.Update("lol", uq)
	assert.Equal(t, question.ErrNotFound, errors.Cause(err))
}

func TestQuestionService_AddAlternate(t *testing.T) {
	svc := newService(t)

	q, err := svc.Create(question.NewQuestion{
		Prompt: "What is 1/2 as a decimal?", AnswerType: answer.TypeShortAnswer, CorrectAnswer: "0.5",
	}, "tutor-1")
	require.NoError(t, err)

	q, err = svc.AddAlternate(q.ID, "1/2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1/2"}, q.Alternates)

	// same normalized form is not recorded twice
	q, err = svc.AddAlternate(q.ID, "1 / 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1/2"}, q.Alternates)

	// the canonical answer is not an alternate
	q, err = svc.AddAlternate(q.ID, "0.5")
	require.NoError(t, err)
	assert.Equal(t, []string{"1/2"}, q.Alternates)

	q, err = svc.AddAlternate(q.ID, "2/4")
	require.NoError(t, err)
	assert.Equal(t, []string{"1/2", "2/4"}, q.Alternates)

	_, err = svc.AddAlternate(q.ID, "")
	assert.Error(t, err)

	_, err = svc.AddAlternate("lol", "1/2")
	assert.Equal(t, question.ErrNotFound, errors.Cause(err))
}

func TestQuestionService_Flags(t *testing.T) {
	svc := newService(t)

	q, err := svc.Create(question.NewQuestion{
		Prompt: "What is 1/2 as a decimal?", AnswerType: answer.TypeShortAnswer, CorrectAnswer: "0.5",
	}, "tutor-1")
	require.NoError(t, err)

	_, err = svc.Flag("lol", "", "student-1", "broken")
	assert.Equal(t, question.ErrNotFound, errors.Cause(err))

	f, err := svc.Flag(q.ID, "attempt-1", "student-1", "my answer 2/4 should count")
	require.NoError(t, err)
	assert.False(t, f.Resolved)

	open, err := svc.OpenFlags()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, f.ID, open[0].ID)

	resolved, err := svc.ResolveFlag(f.ID, "tutor-1", "2/4")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	assert.Equal(t, "tutor-1", resolved.ResolvedBy)
	assert.False(t, resolved.ResolvedAt.IsZero())

	// accepted answer became an alternate
	q, err = svc.GetByID(q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2/4"}, q.Alternates)

	open, err = svc.OpenFlags()
	require.NoError(t, err)
	assert.Empty(t, open)

	// resolving again is a no-op
	again, err := svc.ResolveFlag(f.ID, "tutor-2", "")
	require.NoError(t, err)
	assert.Equal(t, "tutor-1", again.ResolvedBy)

	_, err = svc.ResolveFlag("lol", "tutor-1", "")
	assert.Equal(t, question.ErrFlagNotFound, errors.Cause(err))
}

func TestAddAlternateValidation(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddAlternate("whatever", "   ")
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "expected a validation error, got %v", err)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "alternate", vErr.Fields[0].Field)
}

func TestQuestionJSONRoundTrip(t *testing.T) {
	q := question.Question{
		ID:            "q-1",
		Prompt:        "Capital of France?",
		AnswerType:    answer.TypeMultipleChoice,
		CorrectAnswer: "0",
		Spec:          answer.MultipleChoiceSpec{Choices: []string{"Paris", "London"}, CorrectIndex: 0},
	}

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"choices":["Paris","London"]`)

	var got question.Question
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, q.Spec, got.Spec)
	assert.Equal(t, q.Prompt, got.Prompt)
}
