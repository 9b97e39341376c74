package dummydb

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oscardef/tutorassist/core/question"
)

type questionRepository struct {
	db *questionTable
}

var _ question.Repository = (*questionRepository)(nil) // interface compliance check

func NewQuestionRepository(db *DB) *questionRepository {
	return &questionRepository{db: db.question}
}

func (repo *questionRepository) query() []question.Question {
	qs := make([]question.Question, 0, len(repo.db.table))
	for _, q := range repo.db.table {
		qs = append(qs, *q)
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].CreatedAt.Before(qs[j].CreatedAt) })
	return qs
}

func (repo *questionRepository) CreateQuestion(q question.Question) (question.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	q.ID = uuid.New().String()
	repo.db.table[q.ID] = &q
	return q, nil
}

func (repo *questionRepository) QueryAllQuestions() ([]question.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *questionRepository) GetQuestionByID(id string) (question.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.table[id]; ok {
		return *q, nil
	}
	return question.Question{}, question.ErrNotFound
}

func (repo *questionRepository) FilterQuestions(filter question.QueryFilter) ([]question.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	qs := repo.query()

	if filter.Search != "" {
		var filtered []question.Question
		search := strings.ToLower(filter.Search)
		for _, q := range qs {
			if strings.Contains(strings.ToLower(q.Prompt), search) {
				filtered = append(filtered, q)
			}
		}
		qs = filtered
	}
	if qs != nil && filter.AnswerType != "" {
		var filtered []question.Question
		for _, q := range qs {
			if q.AnswerType == filter.AnswerType {
				filtered = append(filtered, q)
			}
		}
		qs = filtered
	}
	if qs != nil && filter.CreatedBy != "" {
		var filtered []question.Question
		for _, q := range qs {
			if q.CreatedBy == filter.CreatedBy {
				filtered = append(filtered, q)
			}
		}
		qs = filtered
	}
	if qs != nil && !filter.CreatedFrom.IsZero() {
		var filtered []question.Question
		timeUTC := filter.CreatedFrom.UTC()
		for _, q := range qs {
			if q.CreatedAt.Equal(timeUTC) || q.CreatedAt.After(timeUTC) {
				filtered = append(filtered, q)
			}
		}
		qs = filtered
	}
	if qs != nil && !filter.CreatedTo.IsZero() {
		var filtered []question.Question
		timeUTC := filter.CreatedTo.UTC()
		for _, q := range qs {
			if q.CreatedAt.Before(timeUTC) || q.CreatedAt.Equal(timeUTC) {
				filtered = append(filtered, q)
			}
		}
		qs = filtered
	}

	return qs, nil
}

func (repo *questionRepository) UpdateQuestion(q question.Question) (question.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[q.ID]; !ok {
		return question.Question{}, question.ErrNotFound
	}
	repo.db.table[q.ID] = &q
	return q, nil
}

func (repo *questionRepository) DeleteQuestionsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *questionRepository) CreateFlag(f question.Flag) (question.Flag, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	f.ID = uuid.New().String()
	repo.db.flags[f.ID] = &f
	return f, nil
}

func (repo *questionRepository) GetFlagByID(id string) (question.Flag, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f, ok := repo.db.flags[id]; ok {
		return *f, nil
	}
	return question.Flag{}, question.ErrFlagNotFound
}

func (repo *questionRepository) QueryOpenFlags() ([]question.Flag, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	flags := make([]question.Flag, 0, len(repo.db.flags))
	for _, f := range repo.db.flags {
		if !f.Resolved {
			flags = append(flags, *f)
		}
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].CreatedAt.Before(flags[j].CreatedAt) })
	return flags, nil
}

func (repo *questionRepository) UpdateFlag(f question.Flag) (question.Flag, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.flags[f.ID]; !ok {
		return question.Flag{}, question.ErrFlagNotFound
	}
	repo.db.flags[f.ID] = &f
	return f, nil
}
