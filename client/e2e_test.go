package client_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-study-client/client"
	"github.com/jrsteele09/go-study-client/credentials"
	"github.com/jrsteele09/go-study-client/mockapi"
	"github.com/jrsteele09/go-study-client/summaries"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	e2eEmail = "grace@example.com"
	e2eText  = "Binary search halves the search interval on every comparison. " +
		"Sorted input is required before searching begins. " +
		"The algorithm terminates when the interval becomes empty. " +
		"Logarithmic complexity makes lookups extremely fast."
)

type mockConfig struct{}

func (mockConfig) GetAppName() string                    { return "Study Assistant" }
func (mockConfig) GetEnv() string                        { return "TEST" }
func (mockConfig) GetLogLevel() string                   { return "disabled" }
func (mockConfig) GetMockAddr() string                   { return ":0" }
func (mockConfig) GetMockJWTSecret() string              { return "e2e-secret" }
func (mockConfig) GetMockAccessTokenTTL() time.Duration  { return 30 * time.Minute }
func (mockConfig) GetMockRefreshTokenTTL() time.Duration { return 7 * 24 * time.Hour }

func setupMockFixture(t *testing.T, opts ...client.Option) (*testFixture, *mockapi.Server) {
	t.Helper()
	api, err := mockapi.New(mockConfig{}, mockapi.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return setupTestFixture(t, api, credentials.Credential{}, opts...), api
}

func signInAgainstMock(t *testing.T, f *testFixture, api *mockapi.Server) {
	t.Helper()
	ctx := context.Background()

	_, err := f.client.Register(ctx, e2eEmail, "Grace Hopper", "")
	require.NoError(t, err)
	_, err = f.client.RequestCode(ctx, e2eEmail)
	require.NoError(t, err)

	code, ok := api.LastOTP(e2eEmail)
	require.True(t, ok)
	_, err = f.client.VerifyCode(ctx, e2eEmail, code)
	require.NoError(t, err)
	require.True(t, f.client.Session().SignedIn())
}

func TestEndToEnd_SessionLifecycle(t *testing.T) {
	f, api := setupMockFixture(t)
	ctx := context.Background()
	signInAgainstMock(t, f, api)

	profile, err := f.client.GetProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, e2eEmail, profile.Email)
	require.True(t, profile.Verified)

	claims, err := f.client.Session().Credential().Claims()
	require.NoError(t, err)
	require.Equal(t, profile.ID, claims.UserID)
	require.Equal(t, "access", claims.Type)

	// an expired access token is refreshed transparently
	before := f.client.Session().AccessToken()
	api.ExpireAccessTokens()

	summary, err := f.client.SummarizeText(ctx, e2eText)
	require.NoError(t, err)
	require.Contains(t, summary.Summary, "Binary search")
	require.EqualValues(t, 1, api.RefreshCalls())
	require.NotEqual(t, before, f.client.Session().AccessToken())
	require.NotEmpty(t, f.client.Session().Credential().RefreshToken)

	questions, err := f.client.GenerateQuiz(ctx, e2eText)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(questions), 3)

	var pdf bytes.Buffer
	export, err := f.client.DownloadQuizPDF(ctx, "Algorithms", questions, &pdf)
	require.NoError(t, err)
	require.Equal(t, "Algorithms.pdf", export.Filename)
	require.EqualValues(t, pdf.Len(), export.Bytes)

	list, err := f.client.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, summaries.KindText, list[0].Type)

	quizzes, err := f.client.ListQuizzes(ctx)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)

	// a rejected refresh signs the user out
	api.ExpireAccessTokens()
	api.FailRefresh(true)
	_, err = f.client.ListQuizzes(ctx)
	require.ErrorIs(t, err, client.ErrSessionExpired)
	require.False(t, f.client.Session().SignedIn())
	require.Equal(t, 1, f.repo.Clears())

	_, err = f.client.GetProfile(ctx)
	require.Error(t, err)
	require.Equal(t, 403, client.StatusCode(err))
}

func TestEndToEnd_ConcurrentExpiryRefreshesOnce(t *testing.T) {
	f, api := setupMockFixture(t)
	ctx := context.Background()
	signInAgainstMock(t, f, api)
	api.ExpireAccessTokens()

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.client.GetProfile(ctx)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	// late callers may have sent the new token already and never seen a 401
	require.EqualValues(t, 1, api.RefreshCalls())
	require.True(t, f.client.Session().SignedIn())
}

func TestEndToEnd_Logout(t *testing.T) {
	f, api := setupMockFixture(t)
	signInAgainstMock(t, f, api)

	f.client.Logout(context.Background())
	require.False(t, f.client.Session().SignedIn())

	_, err := f.client.GetProfile(context.Background())
	require.Error(t, err)
	require.Zero(t, api.RefreshCalls())
}

func TestEndToEnd_RotatedRefreshToken(t *testing.T) {
	api, err := mockapi.New(mockConfig{}, mockapi.WithLogger(zerolog.Nop()), mockapi.WithRefreshRotation())
	require.NoError(t, err)
	f := setupTestFixture(t, api, credentials.Credential{})
	ctx := context.Background()
	signInAgainstMock(t, f, api)

	first := f.client.Session().Credential()
	for range 2 {
		api.ExpireAccessTokens()
		_, err := f.client.GetProfile(ctx)
		require.NoError(t, err)
	}

	current := f.client.Session().Credential()
	require.NotEqual(t, first.RefreshToken, current.RefreshToken)
	require.EqualValues(t, 2, api.RefreshCalls())

	// both tokens of each pair were persisted together
	writes := f.repo.Writes()
	require.Equal(t, current, writes[len(writes)-1])
}
