package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/oscardef/tutorassist/core/answer"
	"github.com/oscardef/tutorassist/core/attempt"
	"github.com/oscardef/tutorassist/core/question"
	"github.com/oscardef/tutorassist/core/user"
)

func Test_attemptApi_submit(t *testing.T) {
	db.Reset()

	student := createUser(t, "Hero", "hero01", "hero@test.cd", nil, true)
	teacher := createUser(t, "Teacher", "teach01", "teacher@test.cd", []string{user.RoleTeacher}, true)
	studentToken := getToken(t, student)

	q := createQuestion(t, teacher.ID, question.NewQuestion{
		Prompt: "What is 1/2 as a decimal?", AnswerType: answer.TypeNumeric, CorrectAnswer: "0.5",
	})

	bPtr := func(b bool) *bool { return &b }
	type verdict struct {
		isCorrect bool
		matchType answer.MatchType
	}
	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "question required", token: studentToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, attempt.NewAttempt{Answer: "0.5"}),
			wantData: marchallObj(t, map[string]string{"question_id": "this field is required"}),
		},
		{
			name: "unknown question", token: studentToken, wantCode: http.StatusNotFound,
			body:     marchallObj(t, attempt.NewAttempt{QuestionID: "lol", Answer: "0.5"}),
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "exact match", token: studentToken, wantCode: http.StatusCreated,
			body:  marchallObj(t, attempt.NewAttempt{QuestionID: q.ID, Answer: "0.5"}),
			extra: verdict{isCorrect: true, matchType: answer.MatchExact},
		},
		{
			name: "fraction form accepted", token: studentToken, wantCode: http.StatusCreated,
			body:  marchallObj(t, attempt.NewAttempt{QuestionID: q.ID, Answer: "1/2"}),
			extra: verdict{isCorrect: true, matchType: answer.MatchFraction},
		},
		{
			name: "wrong answer", token: studentToken, wantCode: http.StatusCreated,
			body:  marchallObj(t, attempt.NewAttempt{QuestionID: q.ID, Answer: "0.7"}),
			extra: verdict{isCorrect: false, matchType: answer.MatchNone},
		},
		{
			name: "client claim never trusted", token: studentToken, wantCode: http.StatusCreated,
			body:  marchallObj(t, attempt.NewAttempt{QuestionID: q.ID, Answer: "0.7", ClientClaim: bPtr(true)}),
			extra: verdict{isCorrect: false, matchType: answer.MatchNone},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/attempts"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				var att attempt.Attempt
				if err := json.Unmarshal(rec.Body.Bytes(), &att); err != nil {
					t.Fatalf("json.Unmarshal(): %v", err)
				}
				want := tt.extra.(verdict)
				if att.IsCorrect != want.isCorrect || att.MatchType != want.matchType {
					t.Errorf("failed! verdict = (%v, %v); want (%v, %v)", att.IsCorrect, att.MatchType, want.isCorrect, want.matchType)
				}
				if att.StudentID != student.ID {
					t.Errorf("failed! student_id = %q; want %q", att.StudentID, student.ID)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attemptApi_queryAndRetrieve(t *testing.T) {
	db.Reset()

	student := createUser(t, "Hero", "hero01", "hero@test.cd", nil, true)
	other := createUser(t, "Other", "other01", "other@test.cd", nil, true)
	teacher := createUser(t, "Teacher", "teach01", "teacher@test.cd", []string{user.RoleTeacher}, true)

	q := createQuestion(t, teacher.ID, question.NewQuestion{
		Prompt: "What is 2+2?", AnswerType: answer.TypeNumeric, CorrectAnswer: "4",
	})
	att1, err := attSvc.Submit(student.ID, attempt.NewAttempt{QuestionID: q.ID, Answer: "4"})
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	att2, err := attSvc.Submit(other.ID, attempt.NewAttempt{QuestionID: q.ID, Answer: "5"})
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	tests := []httpTest{
		{
			name: "students see only their own", method: http.MethodGet, path: "/v1/attempts", token: getToken(t, student),
			wantCode: http.StatusOK, wantData: marchallList(t, att1),
		},
		{
			name: "teachers see all", method: http.MethodGet, path: "/v1/attempts", token: getToken(t, teacher),
			wantCode: http.StatusOK, wantData: marchallList(t, att1, att2),
		},
		{
			name: "retrieve own", method: http.MethodGet, path: "/v1/attempts/" + att1.ID, token: getToken(t, student),
			wantCode: http.StatusOK, wantData: marchallObj(t, att1),
		},
		{
			name: "other's attempt hidden", method: http.MethodGet, path: "/v1/attempts/" + att2.ID, token: getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "teacher can retrieve any", method: http.MethodGet, path: "/v1/attempts/" + att2.ID, token: getToken(t, teacher),
			wantCode: http.StatusOK, wantData: marchallObj(t, att2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attemptApi_dispute(t *testing.T) {
	db.Reset()

	student := createUser(t, "Hero", "hero01", "hero@test.cd", nil, true)
	other := createUser(t, "Other", "other01", "other@test.cd", nil, true)
	teacher := createUser(t, "Teacher", "teach01", "teacher@test.cd", []string{user.RoleTeacher}, true)

	q := createQuestion(t, teacher.ID, question.NewQuestion{
		Prompt: "What is 1/2 as a decimal?", AnswerType: answer.TypeShortAnswer, CorrectAnswer: "0.5",
	})
	att, err := attSvc.Submit(student.ID, attempt.NewAttempt{QuestionID: q.ID, Answer: "0.50000001"})
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	body := marchallObj(t, attempt.NewDispute{Reason: "rounding should count"})

	t.Run("only the owner can dispute", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attempts/"+att.ID+"/dispute", getToken(t, other), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("reason required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attempts/"+att.ID+"/dispute", getToken(t, student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("dispute opens a flag", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attempts/"+att.ID+"/dispute", getToken(t, student), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var disputed attempt.Attempt
		if err := json.Unmarshal(rec.Body.Bytes(), &disputed); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if !disputed.Disputed {
			t.Error("failed! attempt not marked disputed")
		}

		flags, err := qstSvc.OpenFlags()
		if err != nil {
			t.Fatalf("OpenFlags(): %v", err)
		}
		if len(flags) != 1 || flags[0].AttemptID != att.ID {
			t.Errorf("failed! flags = %+v; want one for attempt %v", flags, att.ID)
		}
	})

	t.Run("cannot dispute twice", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attempts/"+att.ID+"/dispute", getToken(t, student), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Errorf("failed! code = %v; want %v", rec.Code, http.StatusConflict)
		}
	})
}
