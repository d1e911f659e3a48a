// file: service/case_service_test.go

package service

import (
	"context"
	"database/sql"
	"go-crop-api/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCaseRepo struct{ mock.Mock }

func (m *mockCaseRepo) CreateCase(ctx context.Context, c *model.CropCase) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *mockCaseRepo) GetCaseByID(ctx context.Context, id int) (*model.CropCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CropCase), args.Error(1)
}
func (m *mockCaseRepo) GetCasesByUserID(ctx context.Context, userID int) ([]*model.CropCase, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CropCase), args.Error(1)
}
func (m *mockCaseRepo) GetAllCases(ctx context.Context) ([]*model.CropCase, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CropCase), args.Error(1)
}
func (m *mockCaseRepo) UpdateCase(ctx context.Context, c *model.CropCase) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *mockCaseRepo) DeleteCase(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCropRepo struct{ mock.Mock }

func (m *mockCropRepo) CreateCrop(ctx context.Context, crop *model.Crop) error {
	args := m.Called(ctx, crop)
	return args.Error(0)
}
func (m *mockCropRepo) GetCropByID(ctx context.Context, id int) (*model.Crop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crop), args.Error(1)
}
func (m *mockCropRepo) GetAllCrops(ctx context.Context) ([]*model.Crop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Crop), args.Error(1)
}

func TestCaseService_CreateCase(t *testing.T) {
	wheat := &model.Crop{ID: 3, Name: "Wheat", DaysToMaturity: 120}

	t.Run("success", func(t *testing.T) {
		caseRepo := new(mockCaseRepo)
		cropRepo := new(mockCropRepo)
		cropRepo.On("GetCropByID", mock.Anything, 3).Return(wheat, nil).Once()
		caseRepo.On("CreateCase", mock.Anything, mock.MatchedBy(func(c *model.CropCase) bool {
			return c.UserID == 1 && c.CropID == 3 && c.Status == model.CaseStatusDraft
		})).Return(nil).Once()

		caseService := NewCaseService(caseRepo, cropRepo, nil)
		c, err := caseService.CreateCase(context.Background(), 1, model.CreateCaseRequest{
			CropID:       3,
			Title:        "North field wheat",
			AreaHectares: 12.5,
			StartDate:    "2026-03-15",
		})

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), c.StartDate)
		caseRepo.AssertExpectations(t)
	})

	t.Run("unknown crop", func(t *testing.T) {
		caseRepo := new(mockCaseRepo)
		cropRepo := new(mockCropRepo)
		cropRepo.On("GetCropByID", mock.Anything, 99).Return(nil, sql.ErrNoRows).Once()

		caseService := NewCaseService(caseRepo, cropRepo, nil)
		_, err := caseService.CreateCase(context.Background(), 1, model.CreateCaseRequest{
			CropID:       99,
			Title:        "Mystery crop",
			AreaHectares: 1,
			StartDate:    "2026-03-15",
		})

		assert.ErrorIs(t, err, ErrCropNotFound)
		caseRepo.AssertNotCalled(t, "CreateCase")
	})

	t.Run("bad start date", func(t *testing.T) {
		caseRepo := new(mockCaseRepo)
		cropRepo := new(mockCropRepo)
		cropRepo.On("GetCropByID", mock.Anything, 3).Return(wheat, nil).Once()

		caseService := NewCaseService(caseRepo, cropRepo, nil)
		_, err := caseService.CreateCase(context.Background(), 1, model.CreateCaseRequest{
			CropID:       3,
			Title:        "Bad date",
			AreaHectares: 1,
			StartDate:    "15-03-2026",
		})

		assert.ErrorIs(t, err, ErrInvalidStartDate)
		caseRepo.AssertNotCalled(t, "CreateCase")
	})
}

func TestCaseService_UpdateCase(t *testing.T) {
	existing := &model.CropCase{ID: 10, UserID: 1, CropID: 3, Title: "Old", Status: model.CaseStatusDraft}

	t.Run("owner can update", func(t *testing.T) {
		caseRepo := new(mockCaseRepo)
		cropRepo := new(mockCropRepo)
		caseRepo.On("GetCaseByID", mock.Anything, 10).Return(existing, nil).Once()
		caseRepo.On("UpdateCase", mock.Anything, mock.MatchedBy(func(c *model.CropCase) bool {
			return c.Status == model.CaseStatusActive
		})).Return(nil).Once()

		caseService := NewCaseService(caseRepo, cropRepo, nil)
		c, err := caseService.UpdateCase(context.Background(), 10, 1, string(model.RoleUser),
			model.UpdateCaseRequest{Status: model.CaseStatusActive})

		assert.NoError(t, err)
		assert.Equal(t, model.CaseStatusActive, c.Status)
		caseRepo.AssertExpectations(t)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		caseRepo := new(mockCaseRepo)
		cropRepo := new(mockCropRepo)
		caseRepo.On("GetCaseByID", mock.Anything, 10).Return(existing, nil).Once()

		caseService := NewCaseService(caseRepo, cropRepo, nil)
		_, err := caseService.UpdateCase(context.Background(), 10, 2, string(model.RoleUser),
			model.UpdateCaseRequest{Status: model.CaseStatusActive})

		assert.ErrorIs(t, err, ErrCasePermission)
		caseRepo.AssertNotCalled(t, "UpdateCase")
	})

	t.Run("admin can update any case", func(t *testing.T) {
		caseRepo := new(mockCaseRepo)
		cropRepo := new(mockCropRepo)
		caseRepo.On("GetCaseByID", mock.Anything, 10).Return(existing, nil).Once()
		caseRepo.On("UpdateCase", mock.Anything, mock.Anything).Return(nil).Once()

		caseService := NewCaseService(caseRepo, cropRepo, nil)
		_, err := caseService.UpdateCase(context.Background(), 10, 99, string(model.RoleAdmin),
			model.UpdateCaseRequest{Notes: "checked"})

		assert.NoError(t, err)
	})
}

func TestCaseService_DeleteCase(t *testing.T) {
	existing := &model.CropCase{ID: 10, UserID: 1}

	t.Run("owner can delete", func(t *testing.T) {
		caseRepo := new(mockCaseRepo)
		cropRepo := new(mockCropRepo)
		caseRepo.On("GetCaseByID", mock.Anything, 10).Return(existing, nil).Once()
		caseRepo.On("DeleteCase", mock.Anything, 10).Return(nil).Once()

		caseService := NewCaseService(caseRepo, cropRepo, nil)
		err := caseService.DeleteCase(context.Background(), 10, 1, string(model.RoleUser))

		assert.NoError(t, err)
		caseRepo.AssertExpectations(t)
	})

	t.Run("deleting an absent case succeeds", func(t *testing.T) {
		caseRepo := new(mockCaseRepo)
		cropRepo := new(mockCropRepo)
		caseRepo.On("GetCaseByID", mock.Anything, 404).Return(nil, sql.ErrNoRows).Once()

		caseService := NewCaseService(caseRepo, cropRepo, nil)
		err := caseService.DeleteCase(context.Background(), 404, 1, string(model.RoleUser))

		assert.NoError(t, err)
		caseRepo.AssertNotCalled(t, "DeleteCase")
	})
}
