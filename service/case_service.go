package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-crop-api/model"
	"go-crop-api/repository"
	"time"
)

var (
	ErrCaseNotFound     = errors.New("crop case not found")
	ErrCropNotFound     = errors.New("crop not found")
	ErrCasePermission   = errors.New("you can only modify your own crop cases")
	ErrInvalidStartDate = errors.New("start date must be in the format YYYY-MM-DD")
)

// CaseService handles crop case business logic, with a cache-aside strategy
// on per-user case listings.
type CaseService struct {
	repo     repository.ICaseRepository
	cropRepo repository.ICropRepository
	cache    ICacheClient
}

// NewCaseService creates a new CaseService. The cache client may be nil, in
// which case listings always hit the database.
func NewCaseService(repo repository.ICaseRepository, cropRepo repository.ICropRepository, cache ICacheClient) *CaseService {
	return &CaseService{
		repo:     repo,
		cropRepo: cropRepo,
		cache:    cache,
	}
}

func caseCacheKey(userID int) string {
	return fmt.Sprintf("cases:%d", userID)
}

// CreateCase creates a new crop case for the user and invalidates their
// cached case listing.
func (s *CaseService) CreateCase(ctx context.Context, userID int, req model.CreateCaseRequest) (*model.CropCase, error) {
	if _, err := s.cropRepo.GetCropByID(ctx, req.CropID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCropNotFound
		}
		return nil, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidStartDate
	}

	c := &model.CropCase{
		UserID:       userID,
		CropID:       req.CropID,
		Title:        req.Title,
		AreaHectares: req.AreaHectares,
		StartDate:    startDate,
		Status:       model.CaseStatusDraft,
		Notes:        req.Notes,
	}

	if err := s.repo.CreateCase(ctx, c); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return c, nil
}

// ListCasesForUser lists a user's crop cases, utilizing a cache-aside
// strategy. Admins get the unfiltered, uncached listing.
func (s *CaseService) ListCasesForUser(ctx context.Context, userID int, role string) ([]*model.CropCase, error) {
	if role == string(model.RoleAdmin) {
		return s.repo.GetAllCases(ctx)
	}

	cacheKey := caseCacheKey(userID)

	// 1. Try to get data from the cache.
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var cases []*model.CropCase
			if err := json.Unmarshal([]byte(cached), &cases); err == nil {
				return cases, nil
			}
		}
	}

	// 2. Cache miss. Fetch from the database.
	cases, err := s.repo.GetCasesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3. Store the result for future requests.
	if s.cache != nil {
		if data, err := json.Marshal(cases); err == nil {
			s.cache.Set(ctx, cacheKey, data, 10*time.Minute)
		}
	}

	return cases, nil
}

// UpdateCase applies changes to a case owned by the caller (admins may edit
// any case) and invalidates the owner's cached listing.
func (s *CaseService) UpdateCase(ctx context.Context, caseID, userID int, role string, req model.UpdateCaseRequest) (*model.CropCase, error) {
	c, err := s.repo.GetCaseByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}

	if c.UserID != userID && role != string(model.RoleAdmin) {
		return nil, ErrCasePermission
	}

	if req.Title != "" {
		c.Title = req.Title
	}
	if req.Status != "" {
		c.Status = req.Status
	}
	if req.Notes != "" {
		c.Notes = req.Notes
	}

	if err := s.repo.UpdateCase(ctx, c); err != nil {
		return nil, err
	}

	s.invalidate(ctx, c.UserID)
	return c, nil
}

// DeleteCase removes a case owned by the caller (admins may delete any).
// Deleting an already deleted case succeeds.
func (s *CaseService) DeleteCase(ctx context.Context, caseID, userID int, role string) error {
	c, err := s.repo.GetCaseByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	if c.UserID != userID && role != string(model.RoleAdmin) {
		return ErrCasePermission
	}

	if err := s.repo.DeleteCase(ctx, caseID); err != nil {
		return err
	}

	s.invalidate(ctx, c.UserID)
	return nil
}

func (s *CaseService) invalidate(ctx context.Context, userID int) {
	if s.cache != nil {
		s.cache.Del(ctx, caseCacheKey(userID))
	}
}
