package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aguxez/foodplates/models"
)

// Gorm stores plates in a SQL table through gorm.
type Gorm struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and migrates the food_plates table.
func OpenPostgres(dsn string) (*Gorm, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return NewGorm(db)
}

// NewGorm wraps an open connection.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&models.FoodPlate{}); err != nil {
		return nil, fmt.Errorf("migrating food plates: %w", err)
	}
	return &Gorm{db: db}, nil
}

// Close releases the connection pool.
func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Gorm) List(ctx context.Context) ([]models.FoodPlate, error) {
	var foods []models.FoodPlate
	if err := s.db.WithContext(ctx).Order("id").Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

func (s *Gorm) Get(ctx context.Context, id int) (models.FoodPlate, error) {
	var p models.FoodPlate
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FoodPlate{}, fmt.Errorf("get %d: %w", id, ErrNotFound)
		}
		return models.FoodPlate{}, err
	}
	return p, nil
}

func (s *Gorm) Create(ctx context.Context, p models.FoodPlate) (models.FoodPlate, error) {
	p.ID = 0
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return models.FoodPlate{}, err
	}
	return p, nil
}

func (s *Gorm) Replace(ctx context.Context, id int, p models.FoodPlate) (models.FoodPlate, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return models.FoodPlate{}, err
	}
	p.ID = id
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return models.FoodPlate{}, err
	}
	return p, nil
}

func (s *Gorm) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&models.FoodPlate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	return nil
}
