package summaries

// HistoryLimit caps how many records a history listing returns
const HistoryLimit = 50

// Repo stores the summaries produced for each user, used by the mock backend
type Repo interface {
	Add(record *SummaryRecord) error
	// ListByUser returns a user's records newest first, at most limit of them
	ListByUser(userID string, limit int) ([]SummaryRecord, error)
}
