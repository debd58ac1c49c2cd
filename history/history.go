// Package history keeps a local SQLite record of the summaries and quizzes
// obtained through this client, so they can be listed offline.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jrsteele09/go-study-client/quiz"
	"github.com/jrsteele09/go-study-client/summaries"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Manager struct {
	db *gorm.DB
}

type SummaryEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	UserEmail string `gorm:"index"`
	Kind      string
	Source    string // URL, file name or the start of the text
	Summary   string
}

type QuizEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	UserEmail  string          `gorm:"index"`
	SourceText string
	Questions  []quiz.Question `gorm:"serializer:json"`
	Correct    sql.NullInt32   // set once the quiz has been taken
}

// NewManager opens (creating if needed) the database at dbFilePath
func NewManager(dbFilePath string) (*Manager, error) {
	if dbFilePath == "" {
		return nil, errors.New("[history.NewManager] database path is required")
	}
	if dbFilePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbFilePath), 0700); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if err := db.AutoMigrate(&SummaryEntry{}, &QuizEntry{}); err != nil {
		return nil, fmt.Errorf("migrating history db: %w", err)
	}
	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordSummary stores a summary. Text sources are truncated to summaries.StoredTextLimit.
func (m *Manager) RecordSummary(userEmail string, kind summaries.Kind, source, summary string) (*SummaryEntry, error) {
	if kind == summaries.KindText {
		source = summaries.Truncate(source, summaries.StoredTextLimit)
	}
	entry := SummaryEntry{
		UserEmail: strings.ToLower(userEmail),
		Kind:      string(kind),
		Source:    source,
		Summary:   summary,
	}
	if result := m.db.Create(&entry); result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

func (m *Manager) RecordQuiz(userEmail, sourceText string, questions []quiz.Question) (*QuizEntry, error) {
	entry := QuizEntry{
		UserEmail:  strings.ToLower(userEmail),
		SourceText: summaries.Truncate(sourceText, summaries.StoredTextLimit),
		Questions:  questions,
	}
	if result := m.db.Create(&entry); result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

// RecordScore saves the number of correct answers for a taken quiz
func (m *Manager) RecordScore(entry *QuizEntry, correct int) error {
	entry.Correct = sql.NullInt32{Int32: int32(correct), Valid: true}
	return m.db.Save(entry).Error
}

// RecentSummaries returns up to limit summaries for userEmail, newest first.
// An empty userEmail lists every user's entries.
func (m *Manager) RecentSummaries(userEmail string, limit int) ([]SummaryEntry, error) {
	var entries []SummaryEntry
	result := m.forUser(userEmail).Order("created_at desc, id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func (m *Manager) RecentQuizzes(userEmail string, limit int) ([]QuizEntry, error) {
	var entries []QuizEntry
	result := m.forUser(userEmail).Order("created_at desc, id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// LatestSummary returns the most recent summary, or nil when there is none
func (m *Manager) LatestSummary(userEmail string) (*SummaryEntry, error) {
	entries, err := m.RecentSummaries(userEmail, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// Reset deletes every entry
func (m *Manager) Reset() error {
	if err := m.db.Exec("DELETE FROM summary_entries").Error; err != nil {
		return err
	}
	return m.db.Exec("DELETE FROM quiz_entries").Error
}

func (m *Manager) forUser(userEmail string) *gorm.DB {
	if userEmail == "" {
		return m.db
	}
	return m.db.Where("user_email = ?", strings.ToLower(userEmail))
}

// SummaryRecords converts entries to the record shape the backend's history endpoint uses
func SummaryRecords(entries []SummaryEntry) []summaries.SummaryRecord {
	return lo.Map(entries, func(e SummaryEntry, _ int) summaries.SummaryRecord {
		return e.Record()
	})
}

func (e SummaryEntry) Record() summaries.SummaryRecord {
	record := summaries.SummaryRecord{
		Type:    summaries.Kind(e.Kind),
		Summary: e.Summary,
	}
	record.CreatedAt.Time = e.CreatedAt
	switch record.Type {
	case summaries.KindYouTube:
		record.Source = e.Source
		record.VideoID, _ = summaries.ExtractVideoID(e.Source)
	case summaries.KindPDF:
		record.Filename = e.Source
	default:
		record.OriginalText = e.Source
	}
	return record
}

func QuizRecords(entries []QuizEntry) []quiz.QuizRecord {
	return lo.Map(entries, func(e QuizEntry, _ int) quiz.QuizRecord {
		record := quiz.QuizRecord{SourceText: e.SourceText, Questions: e.Questions}
		record.CreatedAt.Time = e.CreatedAt
		return record
	})
}
