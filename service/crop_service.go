package service

import (
	"context"
	"errors"
	"go-crop-api/model"
	"go-crop-api/repository"
)

var ErrCropNameTaken = errors.New("a crop with this name already exists")

// CropService handles the crop catalog business logic.
type CropService struct {
	repo repository.ICropRepository
}

func NewCropService(repo repository.ICropRepository) *CropService {
	return &CropService{repo: repo}
}

func (s *CropService) CreateCrop(ctx context.Context, req model.CreateCropRequest) (*model.Crop, error) {
	crop := &model.Crop{
		Name:           req.Name,
		Variety:        req.Variety,
		Season:         req.Season,
		DaysToMaturity: req.DaysToMaturity,
	}

	if err := s.repo.CreateCrop(ctx, crop); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCropNameTaken
		}
		return nil, err
	}
	return crop, nil
}

func (s *CropService) ListCrops(ctx context.Context) ([]*model.Crop, error) {
	return s.repo.GetAllCrops(ctx)
}
