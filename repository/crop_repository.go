package repository

import (
	"context"
	"database/sql"
	"go-crop-api/logger"
	"go-crop-api/model"
)

// ICropRepository defines the contract for crop catalog database operations.
type ICropRepository interface {
	CreateCrop(ctx context.Context, crop *model.Crop) error
	GetCropByID(ctx context.Context, id int) (*model.Crop, error)
	GetAllCrops(ctx context.Context) ([]*model.Crop, error)
}

type CropRepository struct {
	DB *sql.DB
}

func NewCropRepository(db *sql.DB) *CropRepository {
	return &CropRepository{DB: db}
}

// CreateCrop adds a new crop to the catalog.
func (r *CropRepository) CreateCrop(ctx context.Context, crop *model.Crop) error {
	log := logger.Log.WithField("name", crop.Name)
	log.Info("Executing query to create a new crop")

	query := `INSERT INTO crops (name, variety, season, days_to_maturity) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, crop.Name, crop.Variety, crop.Season, crop.DaysToMaturity).
		Scan(&crop.ID, &crop.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create crop query")
		return mapPqError(err)
	}
	return nil
}

func (r *CropRepository) GetCropByID(ctx context.Context, id int) (*model.Crop, error) {
	crop := &model.Crop{}
	query := `SELECT id, name, variety, season, days_to_maturity, created_at FROM crops WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&crop.ID, &crop.Name, &crop.Variety, &crop.Season, &crop.DaysToMaturity, &crop.CreatedAt)
	if err != nil {
		return nil, err
	}
	return crop, nil
}

func (r *CropRepository) GetAllCrops(ctx context.Context) ([]*model.Crop, error) {
	query := `SELECT id, name, variety, season, days_to_maturity, created_at FROM crops ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crops []*model.Crop
	for rows.Next() {
		var c model.Crop
		if err := rows.Scan(&c.ID, &c.Name, &c.Variety, &c.Season, &c.DaysToMaturity, &c.CreatedAt); err != nil {
			return nil, err
		}
		crops = append(crops, &c)
	}
	return crops, rows.Err()
}
