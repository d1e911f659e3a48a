package handler

import (
	"encoding/json"
	"errors"
	"go-crop-api/common"
	"go-crop-api/logger"
	"go-crop-api/model"
	"go-crop-api/service"
	"net/http"
)

// AuthHandler holds dependencies for the authentication endpoints.
type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Signup godoc
// @Summary      Register a new user
// @Description  Creates a user account and opens the first session, returning the user together with an access/refresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signup body model.SignupRequest true "New account details"
// @Success      201  {object}  model.AuthResponse
// @Failure      400  {object}  common.AppError "Request validation failed"
// @Failure      409  {object}  common.AppError "Email is already registered"
// @Failure      503  {object}  common.AppError "Storage temporarily unavailable"
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SignupRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, pair, err := h.service.Signup(r.Context(), req)
	if err != nil {
		return mapAuthError(err, "Could not register user")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(model.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies the email/password pair and returns the user with a fresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login body model.LoginRequest true "Login credentials"
// @Success      200  {object}  model.AuthResponse
// @Failure      400  {object}  common.AppError "Request validation failed"
// @Failure      401  {object}  common.AppError "Invalid email or password"
// @Failure      503  {object}  common.AppError "Storage temporarily unavailable"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, pair, err := h.service.Login(r.Context(), req)
	if err != nil {
		return mapAuthError(err, "Could not log in")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(model.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	return nil
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  Exchanges a valid refresh token for a new access/refresh pair. The presented token is invalidated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refresh body model.RefreshRequest true "Refresh token"
// @Success      200  {object}  model.TokenPair
// @Failure      400  {object}  common.AppError "Request validation failed"
// @Failure      401  {object}  common.AppError "Refresh token not found or expired"
// @Failure      503  {object}  common.AppError "Storage temporarily unavailable"
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		return mapAuthError(err, "Could not refresh session")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Logout godoc
// @Summary      End a session
// @Description  Invalidates the presented refresh token. Succeeds even if the token was already invalid or expired.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        logout body model.LogoutRequest true "Refresh token"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Request validation failed"
// @Failure      503  {object}  common.AppError "Storage temporarily unavailable"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LogoutRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		return mapAuthError(err, "Could not log out")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully"})
	return nil
}

// LogoutAll godoc
// @Summary      End all sessions
// @Description  Invalidates every refresh token belonging to the authenticated user.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      503  {object}  common.AppError "Storage temporarily unavailable"
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		return mapAuthError(err, "Could not log out everywhere")
	}

	logger.Log.WithField("user_id", userID).Info("All sessions terminated")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "All sessions terminated"})
	return nil
}

// mapAuthError translates auth service failures into the wire taxonomy.
func mapAuthError(err error, fallback string) *common.AppError {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return common.NewConflictError(err.Error(), err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return common.NewInvalidCredentialsError()
	case errors.Is(err, service.ErrInvalidToken):
		return common.NewInvalidTokenError(err)
	case errors.Is(err, service.ErrStorageUnavailable):
		return common.NewStorageUnavailableError(err)
	default:
		return common.NewInternalError(fallback, err)
	}
}
