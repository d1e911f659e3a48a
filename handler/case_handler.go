package handler

import (
	"encoding/json"
	"errors"
	"go-crop-api/common"
	"go-crop-api/logger"
	"go-crop-api/model"
	"go-crop-api/service"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// CaseHandler holds dependencies for crop case handlers.
type CaseHandler struct {
	service *service.CaseService
}

func NewCaseHandler(s *service.CaseService) *CaseHandler {
	return &CaseHandler{service: s}
}

// CreateCase godoc
// @Summary      Create a crop case
// @Description  Creates a new crop plan for the authenticated user.
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        case body model.CreateCaseRequest true "Crop case details"
// @Success      201  {object}  model.CropCase
// @Failure      400  {object}  common.AppError "Request validation failed or invalid start date"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "Referenced crop not found"
// @Router       /cases [post]
func (h *CaseHandler) CreateCase(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateCaseRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"crop_id": req.CropID,
	})
	log.Info("Create crop case request received")

	c, err := h.service.CreateCase(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCropNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case errors.Is(err, service.ErrInvalidStartDate):
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewInternalError("Could not create crop case", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
	return nil
}

// ListCases godoc
// @Summary      List crop cases
// @Description  Lists the authenticated user's crop cases. Admins see all cases.
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.CropCase
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Router       /cases [get]
func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}
	userRole, ok := r.Context().Value(UserRoleKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user role in token", nil)
	}

	cases, err := h.service.ListCasesForUser(r.Context(), userID, userRole)
	if err != nil {
		return common.NewInternalError("Could not retrieve crop cases", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(cases)
	return nil
}

// UpdateCase godoc
// @Summary      Update a crop case
// @Description  Updates title, status or notes of a crop case owned by the caller. Admins may update any case.
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        caseId path int true "The ID of the crop case to update"
// @Param        case body model.UpdateCaseRequest true "Fields to update"
// @Success      200  {object}  model.CropCase
// @Failure      400  {object}  common.AppError "Invalid case ID or request body"
// @Failure      403  {object}  common.AppError "Forbidden: Not the owner of this case"
// @Failure      404  {object}  common.AppError "Crop case not found"
// @Router       /cases/{caseId} [put]
func (h *CaseHandler) UpdateCase(w http.ResponseWriter, r *http.Request) *common.AppError {
	caseID, appErr := casePathID(r)
	if appErr != nil {
		return appErr
	}

	var req model.UpdateCaseRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, userRole, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}

	c, err := h.service.UpdateCase(r.Context(), caseID, userID, userRole, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaseNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case errors.Is(err, service.ErrCasePermission):
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		default:
			return common.NewInternalError("Could not update crop case", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(c)
	return nil
}

// DeleteCase godoc
// @Summary      Delete a crop case
// @Description  Deletes a crop case owned by the caller. Admins may delete any case. Deleting an absent case succeeds.
// @Tags         cases
// @Security     BearerAuth
// @Param        caseId path int true "The ID of the crop case to delete"
// @Success      204  "No Content"
// @Failure      400  {object}  common.AppError "Invalid case ID in URL path"
// @Failure      403  {object}  common.AppError "Forbidden: Not the owner of this case"
// @Router       /cases/{caseId} [delete]
func (h *CaseHandler) DeleteCase(w http.ResponseWriter, r *http.Request) *common.AppError {
	caseID, appErr := casePathID(r)
	if appErr != nil {
		return appErr
	}

	userID, userRole, appErr := callerIdentity(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.DeleteCase(r.Context(), caseID, userID, userRole); err != nil {
		if errors.Is(err, service.ErrCasePermission) {
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		}
		return common.NewInternalError("Could not delete crop case", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func casePathID(r *http.Request) (int, *common.AppError) {
	caseID, err := strconv.Atoi(r.PathValue("caseId"))
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid case ID in URL path", err)
	}
	return caseID, nil
}

func callerIdentity(r *http.Request) (int, string, *common.AppError) {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return 0, "", common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}
	userRole, ok := r.Context().Value(UserRoleKey).(string)
	if !ok {
		return 0, "", common.NewAppError(http.StatusUnauthorized, "Invalid user role in token", nil)
	}
	return userID, userRole, nil
}
