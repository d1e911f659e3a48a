package handler

import (
	"encoding/json"
	"errors"
	"go-crop-api/common"
	"go-crop-api/model"
	"go-crop-api/service"
	"net/http"
)

type CropHandler struct {
	service *service.CropService
}

func NewCropHandler(s *service.CropService) *CropHandler {
	return &CropHandler{service: s}
}

// CreateCrop godoc
// @Summary      Add a crop to the catalog
// @Description  Creates a new crop entry. Admin only.
// @Tags         crops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        crop body model.CreateCropRequest true "Crop details"
// @Success      201  {object}  model.Crop
// @Failure      400  {object}  common.AppError "Request validation failed"
// @Failure      403  {object}  common.AppError "Forbidden: Admin privileges required"
// @Failure      409  {object}  common.AppError "A crop with this name already exists"
// @Router       /crops [post]
func (h *CropHandler) CreateCrop(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateCropRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	crop, err := h.service.CreateCrop(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrCropNameTaken) {
			return common.NewConflictError(err.Error(), err)
		}
		return common.NewInternalError("Could not create crop", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(crop)
	return nil
}

// ListCrops godoc
// @Summary      List the crop catalog
// @Description  Retrieves all crops available for planning.
// @Tags         crops
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Crop
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Router       /crops [get]
func (h *CropHandler) ListCrops(w http.ResponseWriter, r *http.Request) *common.AppError {
	crops, err := h.service.ListCrops(r.Context())
	if err != nil {
		return common.NewInternalError("Could not retrieve crops", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(crops)
	return nil
}
