package router

import (
	"go-crop-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-crop-api/docs" // generated swagger docs
)

func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, cropHandler *handler.CropHandler, caseHandler *handler.CaseHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Public auth endpoints
	mux.Handle("POST /auth/signup", handler.ErrorHandlingMiddleware(authHandler.Signup))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /auth/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))

	// Authenticated endpoints
	mux.Handle("POST /auth/logout-all", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(authHandler.LogoutAll)))
	mux.Handle("GET /users/me", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.GetProfile)))
	mux.Handle("PUT /users/me", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateProfile)))
	mux.Handle("GET /crops", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(cropHandler.ListCrops)))
	mux.Handle("POST /cases", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(caseHandler.CreateCase)))
	mux.Handle("GET /cases", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(caseHandler.ListCases)))
	mux.Handle("PUT /cases/{caseId}", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(caseHandler.UpdateCase)))
	mux.Handle("DELETE /cases/{caseId}", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(caseHandler.DeleteCase)))

	// Admin-only endpoints
	mux.Handle("GET /users", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.ListUsers))))
	mux.Handle("PUT /users/role", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole))))
	mux.Handle("POST /crops", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(cropHandler.CreateCrop))))

	return handler.RequestIDMiddleware(mux)
}
