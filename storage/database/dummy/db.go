// Package dummydb is an in-memory database used as a test double and for
// local hacking without PostgreSQL.
package dummydb

import (
	"sync"

	"github.com/oscardef/tutorassist/core/attempt"
	"github.com/oscardef/tutorassist/core/question"
	"github.com/oscardef/tutorassist/core/user"
)

type (
	DB struct {
		user     *userTable
		question *questionTable
		attempt  *attemptTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	questionTable struct {
		sync.RWMutex
		table map[string]*question.Question
		flags map[string]*question.Flag
	}

	attemptTable struct {
		sync.RWMutex
		table map[string]*attempt.Attempt
	}
)

// Reset drops all rows. Tests call it between cases.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.question.Lock()
	db.question.table = make(map[string]*question.Question)
	db.question.flags = make(map[string]*question.Flag)
	db.question.Unlock()

	db.attempt.Lock()
	db.attempt.table = make(map[string]*attempt.Attempt)
	db.attempt.Unlock()
}

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		question: &questionTable{
			table: make(map[string]*question.Question),
			flags: make(map[string]*question.Flag),
		},
		attempt: &attemptTable{table: make(map[string]*attempt.Attempt)},
	}
	return db, nil
}
