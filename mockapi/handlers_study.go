package mockapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jrsteele09/go-study-client/internal/utils"
	"github.com/jrsteele09/go-study-client/quiz"
	"github.com/jrsteele09/go-study-client/summaries"
)

type summarizeRequest struct {
	Text       string `json:"text"`
	YouTubeURL string `json:"youtube_url"`
}

type quizRequest struct {
	Text string `json:"text"`
}

func (s *Server) SummarizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req summarizeRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		record := summaries.SummaryRecord{
			UserID:    userIDFromContext(r.Context()),
			CreatedAt: utils.NewTimestamp(s.now()),
		}
		switch {
		case req.YouTubeURL != "":
			videoID, ok := summaries.ExtractVideoID(req.YouTubeURL)
			if !ok {
				writeJSONError(w, http.StatusBadRequest, "Invalid YouTube URL format")
				return
			}
			record.Type = summaries.KindYouTube
			record.Source = req.YouTubeURL
			record.VideoID = videoID
			record.Summary = summariseVideo(videoID)
		case strings.TrimSpace(req.Text) != "":
			record.Type = summaries.KindText
			record.OriginalText = summaries.Truncate(req.Text, summaries.StoredTextLimit)
			record.Summary = summariseText(req.Text)
		default:
			writeJSONError(w, http.StatusBadRequest, "No text or YouTube URL provided")
			return
		}

		if err := s.repos.Summaries.Add(&record); err != nil {
			s.logger.Err(err).Msg("failed to store summary")
			writeJSONError(w, http.StatusInternalServerError, "Failed to store summary")
			return
		}
		writeJSON(w, http.StatusOK, summaries.Summary{Summary: record.Summary})
	}
}

func (s *Server) SummarizePDFHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "file is required")
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Failed to read upload")
			return
		}
		text, err := extractPDFText(content)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "PDF processing failed: "+err.Error())
			return
		}

		record := summaries.SummaryRecord{
			UserID:    userIDFromContext(r.Context()),
			Type:      summaries.KindPDF,
			Filename:  filepath.Base(header.Filename),
			Summary:   summariseText(text),
			CreatedAt: utils.NewTimestamp(s.now()),
		}
		if err := s.repos.Summaries.Add(&record); err != nil {
			s.logger.Err(err).Msg("failed to store summary")
			writeJSONError(w, http.StatusInternalServerError, "Failed to store summary")
			return
		}
		writeJSON(w, http.StatusOK, summaries.Summary{Summary: record.Summary})
	}
}

func (s *Server) QuizHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quizRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		questions, err := generateQuestions(req.Text)
		if errors.Is(err, errTooFewQuestions) {
			writeJSONError(w, http.StatusInternalServerError, "Only a few valid questions were generated. Try with a more detailed summary.")
			return
		}
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "Quiz generation failed. Please try again.")
			return
		}

		record := quiz.QuizRecord{
			UserID:     userIDFromContext(r.Context()),
			SourceText: summaries.Truncate(req.Text, summaries.StoredTextLimit),
			Questions:  questions,
			CreatedAt:  utils.NewTimestamp(s.now()),
		}
		if err := s.repos.Quizzes.Add(&record); err != nil {
			s.logger.Err(err).Msg("failed to store quiz")
			writeJSONError(w, http.StatusInternalServerError, "Failed to store quiz")
			return
		}
		writeJSON(w, http.StatusOK, quiz.Questions{Questions: questions})
	}
}

// DownloadQuizHandler renders the quiz as a PDF. It needs no authentication.
func (s *Server) DownloadQuizHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quiz.DownloadRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		doc, err := renderQuizPDF(req.Title, req.QuizData)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("PDF generation failed: %v", err))
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", req.Title))
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, bytes.NewReader(doc))
	}
}

func (s *Server) SummariesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.repos.Summaries.ListByUser(userIDFromContext(r.Context()), summaries.HistoryLimit)
		if err != nil {
			s.logger.Err(err).Msg("failed to list summaries")
			writeJSONError(w, http.StatusInternalServerError, "Failed to load summaries")
			return
		}
		if records == nil {
			records = []summaries.SummaryRecord{}
		}
		writeJSON(w, http.StatusOK, summaries.List{Summaries: records})
	}
}

func (s *Server) QuizzesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.repos.Quizzes.ListByUser(userIDFromContext(r.Context()), quiz.HistoryLimit)
		if err != nil {
			s.logger.Err(err).Msg("failed to list quizzes")
			writeJSONError(w, http.StatusInternalServerError, "Failed to load quizzes")
			return
		}
		if records == nil {
			records = []quiz.QuizRecord{}
		}
		writeJSON(w, http.StatusOK, quiz.List{Quizzes: records})
	}
}
