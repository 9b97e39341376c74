package sqlxrepos

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/oscardef/tutorassist/core/answer"
	"github.com/oscardef/tutorassist/core/attempt"
)

type attemptRow struct {
	ID               string    `db:"id"`
	QuestionID       string    `db:"question_id"`
	StudentID        string    `db:"student_id"`
	Answer           string    `db:"answer"`
	NormalizedAnswer string    `db:"normalized_answer"`
	ClientClaim      null.Bool `db:"client_claim"`
	IsCorrect        bool      `db:"is_correct"`
	MatchType        string    `db:"match_type"`
	Confidence       string    `db:"confidence"`
	Disputed         bool      `db:"disputed"`
	CreatedAt        time.Time `db:"created_at"`
}

func packAttempt(att attempt.Attempt) attemptRow {
	return attemptRow{
		ID:               att.ID,
		QuestionID:       att.QuestionID,
		StudentID:        att.StudentID,
		Answer:           att.Answer,
		NormalizedAnswer: att.NormalizedAnswer,
		ClientClaim:      null.BoolFromPtr(att.ClientClaim),
		IsCorrect:        att.IsCorrect,
		MatchType:        string(att.MatchType),
		Confidence:       string(att.Confidence),
		Disputed:         att.Disputed,
		CreatedAt:        att.CreatedAt.UTC(),
	}
}

func (r attemptRow) unpack() attempt.Attempt {
	return attempt.Attempt{
		ID:               r.ID,
		QuestionID:       r.QuestionID,
		StudentID:        r.StudentID,
		Answer:           r.Answer,
		NormalizedAnswer: r.NormalizedAnswer,
		ClientClaim:      r.ClientClaim.Ptr(),
		IsCorrect:        r.IsCorrect,
		MatchType:        answer.MatchType(r.MatchType),
		Confidence:       answer.Confidence(r.Confidence),
		Disputed:         r.Disputed,
		CreatedAt:        r.CreatedAt,
	}
}

type attemptRepository struct {
	db *sqlx.DB
}

var _ attempt.Repository = (*attemptRepository)(nil) // interface compliance check

func NewAttemptRepository(db *sqlx.DB) *attemptRepository {
	return &attemptRepository{db: db}
}

func (repo attemptRepository) CreateAttempt(att attempt.Attempt) (attempt.Attempt, error) {
	att.ID = uuid.New().String()
	_, err := repo.db.NamedExec(`
		INSERT INTO attempt (id, question_id, student_id, answer, normalized_answer, client_claim, is_correct, match_type, confidence, disputed, created_at)
		VALUES (:id, :question_id, :student_id, :answer, :normalized_answer, :client_claim, :is_correct, :match_type, :confidence, :disputed, :created_at)`,
		packAttempt(att),
	)
	if err != nil {
		return attempt.Attempt{}, errors.Wrap(err, "inserting attempt")
	}
	return att, nil
}

func (repo attemptRepository) GetAttemptByID(id string) (attempt.Attempt, error) {
	var row attemptRow
	if err := repo.db.Get(&row, `SELECT * FROM attempt WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return attempt.Attempt{}, attempt.ErrNotFound
		}
		return attempt.Attempt{}, errors.Wrap(err, "getting attempt by id")
	}
	return row.unpack(), nil
}

func (repo attemptRepository) FilterAttempts(filter attempt.QueryFilter) ([]attempt.Attempt, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.QuestionID != "" {
		conds = append(conds, `question_id = `+arg(filter.QuestionID))
	}
	if filter.StudentID != "" {
		conds = append(conds, `student_id = `+arg(filter.StudentID))
	}
	if filter.Disputed != nil {
		conds = append(conds, `disputed = `+arg(*filter.Disputed))
	}
	if !filter.CreatedFrom.IsZero() {
		conds = append(conds, `created_at >= `+arg(filter.CreatedFrom.UTC()))
	}
	if !filter.CreatedTo.IsZero() {
		conds = append(conds, `created_at <= `+arg(filter.CreatedTo.UTC()))
	}

	query := `SELECT * FROM attempt`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at`

	var rows []attemptRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering attempts")
	}
	atts := make([]attempt.Attempt, 0, len(rows))
	for _, r := range rows {
		atts = append(atts, r.unpack())
	}
	return atts, nil
}

func (repo attemptRepository) UpdateAttempt(att attempt.Attempt) (attempt.Attempt, error) {
	res, err := repo.db.NamedExec(`UPDATE attempt SET disputed = :disputed WHERE id = :id`, packAttempt(att))
	if err != nil {
		return attempt.Attempt{}, errors.Wrap(err, "updating attempt")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attempt.Attempt{}, attempt.ErrNotFound
	}
	return att, nil
}
