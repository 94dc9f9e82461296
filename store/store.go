// Package store persists the food plate collection served by the dev backend.
package store

import (
	"context"
	"errors"

	"github.com/aguxez/foodplates/models"
)

var ErrNotFound = errors.New("food plate not found")

// FoodStore is the backing collection behind /foods. Create ignores any id on the
// input and assigns one; Replace keeps the id from the path.
type FoodStore interface {
	List(ctx context.Context) ([]models.FoodPlate, error)
	Get(ctx context.Context, id int) (models.FoodPlate, error)
	Create(ctx context.Context, p models.FoodPlate) (models.FoodPlate, error)
	Replace(ctx context.Context, id int, p models.FoodPlate) (models.FoodPlate, error)
	Delete(ctx context.Context, id int) error
}

// Seed creates each plate in order when s is empty. It reports how many were added.
func Seed(ctx context.Context, s FoodStore, plates []models.FoodPlate) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, p := range plates {
		if _, err := s.Create(ctx, p); err != nil {
			return i, err
		}
	}
	return len(plates), nil
}
