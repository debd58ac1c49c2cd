package quiz

// HistoryLimit caps how many records a history listing returns
const HistoryLimit = 50

// Repo stores the quizzes generated for each user, used by the mock backend
type Repo interface {
	Add(record *QuizRecord) error
	// ListByUser returns a user's quizzes newest first, at most limit of them
	ListByUser(userID string, limit int) ([]QuizRecord, error)
}
