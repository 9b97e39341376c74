package sqlxrepos

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/oscardef/tutorassist/core/answer"
	"github.com/oscardef/tutorassist/core/question"
)

type questionRow struct {
	ID            string         `db:"id"`
	Prompt        string         `db:"prompt"`
	AnswerType    string         `db:"answer_type"`
	CorrectAnswer null.String    `db:"correct_answer"`
	Spec          null.JSON      `db:"spec"`
	Alternates    pq.StringArray `db:"alternates"`
	Unit          null.String    `db:"unit"`
	Tolerance     null.Float64   `db:"tolerance"`
	CreatedBy     null.String    `db:"created_by"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func packQuestion(q question.Question) (questionRow, error) {
	specData, err := question.EncodeSpec(q.Spec)
	if err != nil {
		return questionRow{}, err
	}
	return questionRow{
		ID:            q.ID,
		Prompt:        q.Prompt,
		AnswerType:    string(q.AnswerType),
		CorrectAnswer: null.NewString(q.CorrectAnswer, q.CorrectAnswer != ""),
		Spec:          null.NewJSON(specData, specData != nil),
		Alternates:    q.Alternates,
		Unit:          null.NewString(q.Unit, q.Unit != ""),
		Tolerance:     null.Float64FromPtr(q.Tolerance),
		CreatedBy:     null.NewString(q.CreatedBy, q.CreatedBy != ""),
		CreatedAt:     q.CreatedAt.UTC(),
		UpdatedAt:     q.UpdatedAt.UTC(),
	}, nil
}

func (r questionRow) unpack() (question.Question, error) {
	t := answer.Type(r.AnswerType)
	spec, err := question.DecodeSpec(t, r.Spec.JSON)
	if err != nil {
		return question.Question{}, err
	}
	return question.Question{
		ID:            r.ID,
		Prompt:        r.Prompt,
		AnswerType:    t,
		CorrectAnswer: r.CorrectAnswer.String,
		Spec:          spec,
		Alternates:    r.Alternates,
		Unit:          r.Unit.String,
		Tolerance:     r.Tolerance.Ptr(),
		CreatedBy:     r.CreatedBy.String,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

type flagRow struct {
	ID         string      `db:"id"`
	QuestionID string      `db:"question_id"`
	AttemptID  null.String `db:"attempt_id"`
	RaisedBy   null.String `db:"raised_by"`
	Reason     string      `db:"reason"`
	Resolved   bool        `db:"resolved"`
	ResolvedBy null.String `db:"resolved_by"`
	CreatedAt  time.Time   `db:"created_at"`
	ResolvedAt null.Time   `db:"resolved_at"`
}

func packFlag(f question.Flag) flagRow {
	return flagRow{
		ID:         f.ID,
		QuestionID: f.QuestionID,
		AttemptID:  null.NewString(f.AttemptID, f.AttemptID != ""),
		RaisedBy:   null.NewString(f.RaisedBy, f.RaisedBy != ""),
		Reason:     f.Reason,
		Resolved:   f.Resolved,
		ResolvedBy: null.NewString(f.ResolvedBy, f.ResolvedBy != ""),
		CreatedAt:  f.CreatedAt.UTC(),
		ResolvedAt: null.NewTime(f.ResolvedAt.UTC(), !f.ResolvedAt.IsZero()),
	}
}

func (r flagRow) unpack() question.Flag {
	return question.Flag{
		ID:         r.ID,
		QuestionID: r.QuestionID,
		AttemptID:  r.AttemptID.String,
		RaisedBy:   r.RaisedBy.String,
		Reason:     r.Reason,
		Resolved:   r.Resolved,
		ResolvedBy: r.ResolvedBy.String,
		CreatedAt:  r.CreatedAt,
		ResolvedAt: r.ResolvedAt.Time,
	}
}

type questionRepository struct {
	db *sqlx.DB
}

var _ question.Repository = (*questionRepository)(nil) // interface compliance check

func NewQuestionRepository(db *sqlx.DB) *questionRepository {
	return &questionRepository{db: db}
}

func (repo questionRepository) trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo questionRepository) CreateQuestion(q question.Question) (question.Question, error) {
	q.ID = uuid.New().String()
	row, err := packQuestion(q)
	if err != nil {
		return question.Question{}, err
	}
	_, err = repo.db.NamedExec(`
		INSERT INTO question (id, prompt, answer_type, correct_answer, spec, alternates, unit, tolerance, created_by, created_at, updated_at)
		VALUES (:id, :prompt, :answer_type, :correct_answer, :spec, :alternates, :unit, :tolerance, :created_by, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return question.Question{}, errors.Wrap(err, "inserting question")
	}
	return q, nil
}

func (repo questionRepository) QueryAllQuestions() ([]question.Question, error) {
	var rows []questionRow
	if err := repo.db.Select(&rows, `SELECT * FROM question ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}
	return unpackQuestions(rows)
}

func (repo questionRepository) GetQuestionByID(id string) (question.Question, error) {
	var row questionRow
	if err := repo.db.Get(&row, `SELECT * FROM question WHERE id = $1`, id); err != nil {
		return question.Question{}, repo.trapNoRowsErr(err, question.ErrNotFound, "getting question by id")
	}
	return row.unpack()
}

func (repo questionRepository) FilterQuestions(filter question.QueryFilter) ([]question.Question, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.Search != "" {
		conds = append(conds, `LOWER(prompt) LIKE `+arg("%"+strings.ToLower(filter.Search)+"%"))
	}
	if filter.AnswerType != "" {
		conds = append(conds, `answer_type = `+arg(string(filter.AnswerType)))
	}
	if filter.CreatedBy != "" {
		conds = append(conds, `created_by = `+arg(filter.CreatedBy))
	}
	if !filter.CreatedFrom.IsZero() {
		conds = append(conds, `created_at >= `+arg(filter.CreatedFrom.UTC()))
	}
	if !filter.CreatedTo.IsZero() {
		conds = append(conds, `created_at <= `+arg(filter.CreatedTo.UTC()))
	}

	query := `SELECT * FROM question`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at`

	var rows []questionRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering questions")
	}
	return unpackQuestions(rows)
}

func (repo questionRepository) UpdateQuestion(q question.Question) (question.Question, error) {
	row, err := packQuestion(q)
	if err != nil {
		return question.Question{}, err
	}
	res, err := repo.db.NamedExec(`
		UPDATE question
		SET prompt = :prompt, correct_answer = :correct_answer, spec = :spec, alternates = :alternates,
		    unit = :unit, tolerance = :tolerance, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return question.Question{}, errors.Wrap(err, "updating question")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return question.Question{}, question.ErrNotFound
	}
	return q, nil
}

func (repo questionRepository) DeleteQuestionsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.Exec(`DELETE FROM question WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting questions")
}

func (repo questionRepository) CreateFlag(f question.Flag) (question.Flag, error) {
	f.ID = uuid.New().String()
	_, err := repo.db.NamedExec(`
		INSERT INTO question_flag (id, question_id, attempt_id, raised_by, reason, resolved, resolved_by, created_at, resolved_at)
		VALUES (:id, :question_id, :attempt_id, :raised_by, :reason, :resolved, :resolved_by, :created_at, :resolved_at)`,
		packFlag(f),
	)
	if err != nil {
		return question.Flag{}, errors.Wrap(err, "inserting flag")
	}
	return f, nil
}

func (repo questionRepository) GetFlagByID(id string) (question.Flag, error) {
	var row flagRow
	if err := repo.db.Get(&row, `SELECT * FROM question_flag WHERE id = $1`, id); err != nil {
		return question.Flag{}, repo.trapNoRowsErr(err, question.ErrFlagNotFound, "getting flag by id")
	}
	return row.unpack(), nil
}

func (repo questionRepository) QueryOpenFlags() ([]question.Flag, error) {
	var rows []flagRow
	err := repo.db.Select(&rows, `SELECT * FROM question_flag WHERE NOT resolved ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "querying open flags")
	}
	flags := make([]question.Flag, 0, len(rows))
	for _, r := range rows {
		flags = append(flags, r.unpack())
	}
	return flags, nil
}

func (repo questionRepository) UpdateFlag(f question.Flag) (question.Flag, error) {
	res, err := repo.db.NamedExec(`
		UPDATE question_flag
		SET resolved = :resolved, resolved_by = :resolved_by, resolved_at = :resolved_at
		WHERE id = :id`,
		packFlag(f),
	)
	if err != nil {
		return question.Flag{}, errors.Wrap(err, "updating flag")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return question.Flag{}, question.ErrFlagNotFound
	}
	return f, nil
}

func unpackQuestions(rows []questionRow) ([]question.Question, error) {
	qs := make([]question.Question, 0, len(rows))
	for _, r := range rows {
		q, err := r.unpack()
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, nil
}
