package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrsteele09/go-study-client/internal/config"
	"github.com/jrsteele09/go-study-client/mockapi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testEmail = "ada@example.com"
	studyText = "Photosynthesis converts light energy into chemical energy. " +
		"Chlorophyll absorbs mostly blue and red wavelengths. " +
		"The Calvin cycle fixes carbon dioxide into sugars. " +
		"Oxygen is released as a byproduct of splitting water."
)

type testFixture struct {
	api     *mockapi.Server
	cfg     config.Config
	dataDir string
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	dataDir := t.TempDir()
	t.Setenv("STUDY_ENV", "TEST")
	t.Setenv("STUDY_LOG_LEVEL", "disabled")
	t.Setenv("STUDY_DATA_DIR", dataDir)
	t.Setenv("STUDY_CREDENTIALS_KEY", "correct horse battery staple")
	t.Setenv("STUDY_MOCK_JWT_SECRET", "cli-test-secret")

	cfg := config.NewWithFile(filepath.Join(dataDir, "missing.env"))
	api, err := mockapi.New(cfg, mockapi.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	t.Setenv("STUDY_API_BASE_URL", server.URL)
	return &testFixture{api: api, cfg: cfg, dataDir: dataDir}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (f *testFixture) run(t *testing.T, stdin io.Reader, args ...string) result {
	t.Helper()
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), f.cfg, args, stdin, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// otpReader supplies the code the mock most recently issued, read at prompt time
type otpReader struct {
	api   *mockapi.Server
	email string
	buf   *strings.Reader
}

func (r *otpReader) Read(p []byte) (int, error) {
	if r.buf == nil {
		code, _ := r.api.LastOTP(r.email)
		r.buf = strings.NewReader(code + "\n")
	}
	return r.buf.Read(p)
}

func (f *testFixture) login(t *testing.T) {
	t.Helper()
	res := f.run(t, nil, "register", "-email", testEmail, "-name", "Ada Lovelace")
	require.Equal(t, exitOK, res.code, res.stderr)

	res = f.run(t, &otpReader{api: f.api, email: testEmail}, "login", "-email", testEmail)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "signed in as Ada Lovelace")
}

func TestUsage(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, exitUsage},
		{"unknown command", []string{"frobnicate"}, exitUsage},
		{"unknown flag", []string{"status", "-nope"}, exitUsage},
		{"missing email", []string{"login"}, exitUsage},
		{"two sources", []string{"summarize", "-text", "a", "-youtube", "b"}, exitUsage},
		{"quiz without source", []string{"quiz"}, exitUsage},
		{"stray argument", []string{"logout", "now"}, exitUsage},
		{"help", []string{"help"}, exitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.run(t, nil, tt.args...)
			require.Equal(t, tt.code, res.code, res.stderr)
		})
	}
}

func TestVersion(t *testing.T) {
	f := setupTestFixture(t)
	res := f.run(t, nil, "version")
	require.Equal(t, exitOK, res.code)
	require.Equal(t, BUILD_VERSION+"\n", res.stdout)
}

func TestSignedOut(t *testing.T) {
	f := setupTestFixture(t)

	res := f.run(t, nil, "status")
	require.Equal(t, exitOK, res.code)
	require.Contains(t, res.stdout, "signed out")

	res = f.run(t, nil, "profile")
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "not signed in")
}

func TestStudyFlow(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	// the credential file is sealed
	data, err := os.ReadFile(filepath.Join(f.dataDir, "credentials.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "ciphertext")
	require.NotContains(t, string(data), "access_token")

	res := f.run(t, nil, "status")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, testEmail)
	require.Contains(t, res.stdout, "expires")

	res = f.run(t, nil, "profile")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "Ada Lovelace")

	res = f.run(t, nil, "summarize", "-text", studyText)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "## Summary")

	notes := filepath.Join(f.dataDir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte(studyText), 0600))
	res = f.run(t, nil, "summarize", "-file", notes)
	require.Equal(t, exitOK, res.code, res.stderr)

	// an expired access token is refreshed without the user noticing
	f.api.ExpireAccessTokens()
	res = f.run(t, nil, "history")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, 2, strings.Count(res.stdout, "text"))
	require.EqualValues(t, 1, f.api.RefreshCalls())

	res = f.run(t, nil, "history", "-local")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "Photosynthesis converts")

	pdfPath := filepath.Join(f.dataDir, "quiz.pdf")
	res = f.run(t, strings.NewReader("A\nB\nC\nD\nA\n"), "quiz", "-last", "-take", "-pdf", pdfPath, "-title", "Biology")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "Score: ")
	require.Contains(t, res.stdout, "suggested name Biology.pdf")
	doc, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))

	res = f.run(t, nil, "history", "-quizzes")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "questions")

	res = f.run(t, nil, "history", "-local", "-quizzes")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "questions")

	res = f.run(t, nil, "logout")
	require.Equal(t, exitOK, res.code, res.stderr)
	_, err = os.Stat(filepath.Join(f.dataDir, "credentials.yaml"))
	require.True(t, os.IsNotExist(err))
}

func TestSessionExpired(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	f.api.ExpireAccessTokens()
	f.api.FailRefresh(true)

	res := f.run(t, nil, "profile")
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "session expired, run `studyctl login`")

	res = f.run(t, nil, "status")
	require.Contains(t, res.stdout, "signed out")
}

func TestLoginWithCode(t *testing.T) {
	f := setupTestFixture(t)
	res := f.run(t, nil, "register", "-email", testEmail, "-name", "Ada")
	require.Equal(t, exitOK, res.code, res.stderr)

	// an empty prompt aborts without signing in
	res = f.run(t, nil, "login", "-email", testEmail)
	require.Equal(t, exitUsage, res.code)

	code, ok := f.api.LastOTP(testEmail)
	require.True(t, ok)
	res = f.run(t, nil, "login", "-email", testEmail, "-code", code)
	require.Equal(t, exitOK, res.code, res.stderr)

	res = f.run(t, nil, "login", "-email", testEmail, "-code", "12")
	require.Equal(t, exitError, res.code)
}

func TestHelp(t *testing.T) {
	f := setupTestFixture(t)
	res := f.run(t, nil, "help")
	require.Equal(t, exitOK, res.code)
	require.True(t, strings.HasPrefix(res.stdout, banner()))
	require.Contains(t, res.stdout, "USAGE:")
}

func TestUserAgent(t *testing.T) {
	require.Equal(t, "studyctl/"+BUILD_VERSION, userAgent(""))
	require.Equal(t, "custom/1.0", userAgent("custom/1.0"))
}

func TestUnreadableCredentialFile(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"sealed under another key", "version: 1\nnonce: AAAAAAAAAAAAAAAA\nciphertext: AAAA\n"},
		{"truncated yaml", "version: 1\naccess_token: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			credFile := filepath.Join(f.dataDir, "credentials.yaml")

			t.Run("status treats the session as signed out", func(t *testing.T) {
				require.NoError(t, os.WriteFile(credFile, []byte(tt.data), 0600))
				res := f.run(t, nil, "status")
				require.Equal(t, exitOK, res.code, res.stderr)
				require.Contains(t, res.stdout, "signed out")
			})

			t.Run("logout removes the file", func(t *testing.T) {
				require.NoError(t, os.WriteFile(credFile, []byte(tt.data), 0600))
				res := f.run(t, nil, "logout")
				require.Equal(t, exitOK, res.code, res.stderr)
				_, err := os.Stat(credFile)
				require.True(t, os.IsNotExist(err))
			})

			t.Run("login overwrites the file", func(t *testing.T) {
				require.NoError(t, os.WriteFile(credFile, []byte(tt.data), 0600))
				f.login(t)
				res := f.run(t, nil, "profile")
				require.Equal(t, exitOK, res.code, res.stderr)
				require.Contains(t, res.stdout, "Ada Lovelace")
			})
		})
	}
}

func TestQuizWithoutHistory(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	// a regular file where the history directory should be
	blocker := filepath.Join(f.dataDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	t.Setenv("STUDY_HISTORY_DB", filepath.Join(blocker, "history.db"))

	res := f.run(t, nil, "quiz", "-text", studyText)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "Q1. ")
	require.Contains(t, res.stdout, "answer: ")

	res = f.run(t, strings.NewReader("A\nA\nA\nA\nA\n"), "quiz", "-text", studyText, "-take")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "Score: ")

	res = f.run(t, nil, "quiz", "-last")
	require.Equal(t, exitError, res.code)
}
