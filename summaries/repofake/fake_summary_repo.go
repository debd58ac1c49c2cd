package summaryfakerepo

import (
	"errors"
	"sort"
	"sync"

	"github.com/jrsteele09/go-study-client/summaries"
)

var _ summaries.Repo = (*FakeSummaryRepo)(nil)

type FakeSummaryRepo struct {
	records map[string][]summaries.SummaryRecord // user id to records in insertion order
	lock    sync.RWMutex
}

func NewFakeSummaryRepo() summaries.Repo {
	return &FakeSummaryRepo{
		records: make(map[string][]summaries.SummaryRecord),
	}
}

func (sr *FakeSummaryRepo) Add(record *summaries.SummaryRecord) error {
	if record.UserID == "" {
		return errors.New("user id is required")
	}
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.records[record.UserID] = append(sr.records[record.UserID], *record)
	return nil
}

func (sr *FakeSummaryRepo) ListByUser(userID string, limit int) ([]summaries.SummaryRecord, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	stored := sr.records[userID]
	records := make([]summaries.SummaryRecord, 0, len(stored))
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
