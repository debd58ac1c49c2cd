package mockapi

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// Auth
	s.RegisterRouteFunc("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteSendOTP, ChainMiddleware(s.SendOTPHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteVerifyOTP, ChainMiddleware(s.VerifyOTPHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))

	// Protected
	s.RegisterRouteFunc("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("POST "+RouteSummarize, ChainMiddleware(s.SummarizeHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("POST "+RouteSummarizePDF, ChainMiddleware(s.SummarizePDFHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("POST "+RouteQuiz, ChainMiddleware(s.QuizHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteSummaries, ChainMiddleware(s.SummariesHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteQuizzes, ChainMiddleware(s.QuizzesHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Public export
	s.RegisterRouteFunc("POST "+RouteDownloadQuiz, ChainMiddleware(s.DownloadQuizHandler(), s.APIMiddleware()...))

	s.router.NotFoundHandler = ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not Found")
	}, s.APIMiddleware()...)
	s.router.MethodNotAllowedHandler = ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}, s.APIMiddleware()...)
}
