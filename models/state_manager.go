package models

import (
	"slices"
	"sync"
)

// StateManager holds an ordered list of plates behind a lock. Readers get copies;
// writers pass a transform of the latest list, so concurrent writers never work
// from a stale snapshot.
type StateManager struct {
	mu    sync.RWMutex
	foods []FoodPlate
}

// Foods returns a copy of the current list.
func (s *StateManager) Foods() []FoodPlate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.foods)
}

// ReplaceFoods swaps in a whole new list.
func (s *StateManager) ReplaceFoods(foods []FoodPlate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foods = slices.Clone(foods)
}

// Update applies fn to the latest list and stores what it returns. fn receives a
// private copy and runs under the write lock, so it must not block.
func (s *StateManager) Update(fn func(foods []FoodPlate) []FoodPlate) []FoodPlate {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foods = fn(slices.Clone(s.foods))
	return slices.Clone(s.foods)
}

// Append adds p at the end of foods.
func Append(p FoodPlate) func([]FoodPlate) []FoodPlate {
	return func(foods []FoodPlate) []FoodPlate {
		return append(foods, p)
	}
}

// ReplaceWhere swaps the entry whose ID is id for p, keeping its position. found is
// set when an entry matched; otherwise the list is returned untouched.
func ReplaceWhere(id int, p FoodPlate, found *bool) func([]FoodPlate) []FoodPlate {
	return func(foods []FoodPlate) []FoodPlate {
		i := IndexOf(foods, id)
		*found = i >= 0
		if i < 0 {
			return foods
		}
		foods[i] = p
		return foods
	}
}

// RemoveByID drops the entry whose ID is id, preserving the order of the rest.
func RemoveByID(id int, found *bool) func([]FoodPlate) []FoodPlate {
	return func(foods []FoodPlate) []FoodPlate {
		i := IndexOf(foods, id)
		*found = i >= 0
		if i < 0 {
			return foods
		}
		return slices.Delete(foods, i, i+1)
	}
}

// IndexOf returns the index of the plate with the given id, or -1.
func IndexOf(foods []FoodPlate, id int) int {
	return slices.IndexFunc(foods, func(p FoodPlate) bool { return p.ID == id })
}

// MaxID returns the largest ID in foods, or zero for an empty list.
func MaxID(foods []FoodPlate) int {
	highest := 0
	for _, p := range foods {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest
}
