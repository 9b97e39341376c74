package dummydb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/oscardef/tutorassist/core/attempt"
)

type attemptRepository struct {
	db *attemptTable
}

var _ attempt.Repository = (*attemptRepository)(nil) // interface compliance check

func NewAttemptRepository(db *DB) *attemptRepository {
	return &attemptRepository{db: db.attempt}
}

func (repo *attemptRepository) query() []attempt.Attempt {
	atts := make([]attempt.Attempt, 0, len(repo.db.table))
	for _, att := range repo.db.table {
		atts = append(atts, *att)
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].CreatedAt.Before(atts[j].CreatedAt) })
	return atts
}

func (repo *attemptRepository) CreateAttempt(att attempt.Attempt) (attempt.Attempt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	att.ID = uuid.New().String()
	repo.db.table[att.ID] = &att
	return att, nil
}

func (repo *attemptRepository) GetAttemptByID(id string) (attempt.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if att, ok := repo.db.table[id]; ok {
		return *att, nil
	}
	return attempt.Attempt{}, attempt.ErrNotFound
}

func (repo *attemptRepository) FilterAttempts(filter attempt.QueryFilter) ([]attempt.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []attempt.Attempt
	for _, att := range repo.query() {
		if filter.QuestionID != "" && att.QuestionID != filter.QuestionID {
			continue
		}
		if filter.StudentID != "" && att.StudentID != filter.StudentID {
			continue
		}
		if filter.Disputed != nil && att.Disputed != *filter.Disputed {
			continue
		}
		if !filter.CreatedFrom.IsZero() && att.CreatedAt.Before(filter.CreatedFrom.UTC()) {
			continue
		}
		if !filter.CreatedTo.IsZero() && att.CreatedAt.After(filter.CreatedTo.UTC()) {
			continue
		}
		filtered = append(filtered, att)
	}
	return filtered, nil
}

func (repo *attemptRepository) UpdateAttempt(att attempt.Attempt) (attempt.Attempt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[att.ID]; !ok {
		return attempt.Attempt{}, attempt.ErrNotFound
	}
	repo.db.table[att.ID] = &att
	return att, nil
}
