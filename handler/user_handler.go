package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"go-crop-api/common"
	"go-crop-api/logger"
	"go-crop-api/model"
	"go-crop-api/service"
	"net/http"

	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetProfile godoc
// @Summary      Get own profile
// @Description  Returns the profile of the authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "User not found"
// @Router       /users/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", err)
		}
		return common.NewInternalError("Could not retrieve profile", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
	return nil
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Updates the authenticated user's display name and avatar.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile body model.UpdateProfileRequest true "Profile fields to update"
// @Success      200  {object}  model.User
// @Failure      400  {object}  common.AppError "Request validation failed"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateProfileRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", err)
		}
		return common.NewInternalError("Could not update profile", err)
	}

	logger.Log.WithField("user_id", userID).Info("Profile updated")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
	return nil
}

// ListUsers godoc
// @Summary      List all users
// @Description  Retrieves all registered users. Admin only.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.User
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      403  {object}  common.AppError "Forbidden: Admin privileges required"
// @Router       /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		return common.NewInternalError("Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)
	return nil
}

// UpdateUserRole godoc
// @Summary      Change a user's role
// @Description  Assigns a new role to the given user. Admin only.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        role body model.UpdateUserRoleRequest true "Target user and new role"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Request validation failed"
// @Failure      403  {object}  common.AppError "Forbidden: Admin privileges required"
// @Failure      404  {object}  common.AppError "User not found"
// @Router       /users/role [put]
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateUserRoleRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.service.UpdateUserRole(r.Context(), req.UserID, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", err)
		}
		return common.NewInternalError("Could not update user role", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": req.UserID,
		"role":    req.Role,
	}).Info("User role updated")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "User role updated successfully"})
	return nil
}
