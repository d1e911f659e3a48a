package repository

import (
	"context"
	"database/sql"
	"go-crop-api/logger"
	"go-crop-api/model"

	"github.com/sirupsen/logrus"
)

// ICaseRepository defines the contract for crop case database operations.
type ICaseRepository interface {
	CreateCase(ctx context.Context, c *model.CropCase) error
	GetCaseByID(ctx context.Context, id int) (*model.CropCase, error)
	GetCasesByUserID(ctx context.Context, userID int) ([]*model.CropCase, error)
	GetAllCases(ctx context.Context) ([]*model.CropCase, error)
	UpdateCase(ctx context.Context, c *model.CropCase) error
	DeleteCase(ctx context.Context, id int) error
}

type CaseRepository struct {
	DB *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{DB: db}
}

const caseColumns = `id, user_id, crop_id, title, area_hectares, start_date, status, notes, created_at`

// CreateCase adds a new crop case to the database.
func (r *CaseRepository) CreateCase(ctx context.Context, c *model.CropCase) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": c.UserID,
		"crop_id": c.CropID,
		"title":   c.Title,
	})
	log.Info("Executing query to create a new crop case")

	query := `INSERT INTO crop_cases (user_id, crop_id, title, area_hectares, start_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, c.UserID, c.CropID, c.Title, c.AreaHectares,
		c.StartDate, c.Status, c.Notes).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create crop case query")
		return err
	}
	return nil
}

func (r *CaseRepository) GetCaseByID(ctx context.Context, id int) (*model.CropCase, error) {
	c := &model.CropCase{}
	query := `SELECT ` + caseColumns + ` FROM crop_cases WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.UserID, &c.CropID, &c.Title,
		&c.AreaHectares, &c.StartDate, &c.Status, &c.Notes, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCasesByUserID retrieves all crop cases owned by a specific user.
func (r *CaseRepository) GetCasesByUserID(ctx context.Context, userID int) ([]*model.CropCase, error) {
	query := `SELECT ` + caseColumns + ` FROM crop_cases WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

// GetAllCases retrieves all crop cases. For admin use only.
func (r *CaseRepository) GetAllCases(ctx context.Context) ([]*model.CropCase, error) {
	query := `SELECT ` + caseColumns + ` FROM crop_cases ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

func scanCases(rows *sql.Rows) ([]*model.CropCase, error) {
	var cases []*model.CropCase
	for rows.Next() {
		var c model.CropCase
		if err := rows.Scan(&c.ID, &c.UserID, &c.CropID, &c.Title, &c.AreaHectares,
			&c.StartDate, &c.Status, &c.Notes, &c.CreatedAt); err != nil {
			return nil, err
		}
		cases = append(cases, &c)
	}
	return cases, rows.Err()
}

func (r *CaseRepository) UpdateCase(ctx context.Context, c *model.CropCase) error {
	query := `UPDATE crop_cases SET title = $1, status = $2, notes = $3 WHERE id = $4`
	_, err := r.DB.ExecContext(ctx, query, c.Title, c.Status, c.Notes, c.ID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute update crop case query")
		return err
	}
	return nil
}

// DeleteCase removes a crop case. Deleting an absent case is not an error.
func (r *CaseRepository) DeleteCase(ctx context.Context, id int) error {
	query := `DELETE FROM crop_cases WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute delete crop case query")
		return err
	}
	return nil
}
