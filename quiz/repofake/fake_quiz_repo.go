package quizfakerepo

import (
	"errors"
	"sort"
	"sync"

	"github.com/jrsteele09/go-study-client/quiz"
)

var _ quiz.Repo = (*FakeQuizRepo)(nil)

type FakeQuizRepo struct {
	records map[string][]quiz.QuizRecord // user id to records in insertion order
	lock    sync.RWMutex
}

func NewFakeQuizRepo() quiz.Repo {
	return &FakeQuizRepo{
		records: make(map[string][]quiz.QuizRecord),
	}
}

func (qr *FakeQuizRepo) Add(record *quiz.QuizRecord) error {
	if record.UserID == "" {
		return errors.New("user id is required")
	}
	qr.lock.Lock()
	defer qr.lock.Unlock()

	qr.records[record.UserID] = append(qr.records[record.UserID], *record)
	return nil
}

func (qr *FakeQuizRepo) ListByUser(userID string, limit int) ([]quiz.QuizRecord, error) {
	qr.lock.RLock()
	defer qr.lock.RUnlock()

	stored := qr.records[userID]
	records := make([]quiz.QuizRecord, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		records = append(records, stored[i])
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt.Time)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
