package mockapi

// Route path constants
const (
	// Auth Routes
	RouteRegister  = "/api/auth/register"
	RouteSendOTP   = "/api/auth/send-otp"
	RouteVerifyOTP = "/api/auth/verify-otp"
	RouteRefresh   = "/api/auth/refresh"

	// User Routes
	RouteProfile   = "/api/user/profile"
	RouteSummaries = "/api/user/summaries"
	RouteQuizzes   = "/api/user/quizzes"

	// Study Routes
	RouteSummarize    = "/api/summarize"
	RouteSummarizePDF = "/api/summarize-pdf"
	RouteQuiz         = "/api/quiz"
	RouteDownloadQuiz = "/api/download-quiz"

	RouteHealth = "/health"
)
