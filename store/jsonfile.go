package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aguxez/foodplates/models"
)

// jsonDocument is the on-disk layout, the same shape json-server uses.
type jsonDocument struct {
	Foods []models.FoodPlate `json:"foods"`
}

// JSONFile keeps the collection in memory and rewrites the whole file on every
// change.
type JSONFile struct {
	path  string
	log   zerolog.Logger
	mu    sync.Mutex // serializes writers and reloads
	state *models.StateManager
}

// OpenJSONFile loads path, creating an empty document if it does not exist.
func OpenJSONFile(path string, log zerolog.Logger) (*JSONFile, error) {
	s := &JSONFile{
		path:  path,
		log:   log,
		state: &models.StateManager{},
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
		if err := s.persist(nil); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path is the backing file.
func (s *JSONFile) Path() string {
	return s.path
}

// Reload re-reads the file, replacing the in-memory collection.
func (s *JSONFile) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading db file: %w", err)
	}
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing db file %s: %w", s.path, err)
	}
	s.state.ReplaceFoods(doc.Foods)
	s.log.Debug().Str("path", s.path).Int("foods", len(doc.Foods)).Msg("db file loaded")
	return nil
}

func (s *JSONFile) List(_ context.Context) ([]models.FoodPlate, error) {
	return s.state.Foods(), nil
}

func (s *JSONFile) Get(_ context.Context, id int) (models.FoodPlate, error) {
	foods := s.state.Foods()
	i := models.IndexOf(foods, id)
	if i < 0 {
		return models.FoodPlate{}, fmt.Errorf("get %d: %w", id, ErrNotFound)
	}
	return foods[i], nil
}

func (s *JSONFile) Create(_ context.Context, p models.FoodPlate) (models.FoodPlate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	foods := s.state.Foods()
	p.ID = models.MaxID(foods) + 1
	if err := s.commit(models.Append(p)(foods)); err != nil {
		return models.FoodPlate{}, err
	}
	return p, nil
}

func (s *JSONFile) Replace(_ context.Context, id int, p models.FoodPlate) (models.FoodPlate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = id
	var found bool
	foods := models.ReplaceWhere(id, p, &found)(s.state.Foods())
	if !found {
		return models.FoodPlate{}, fmt.Errorf("replace %d: %w", id, ErrNotFound)
	}
	if err := s.commit(foods); err != nil {
		return models.FoodPlate{}, err
	}
	return p, nil
}

func (s *JSONFile) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found bool
	foods := models.RemoveByID(id, &found)(s.state.Foods())
	if !found {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	return s.commit(foods)
}

// commit writes foods to disk and only then makes them visible. Callers hold mu.
func (s *JSONFile) commit(foods []models.FoodPlate) error {
	if err := s.persist(foods); err != nil {
		return err
	}
	s.state.ReplaceFoods(foods)
	return nil
}

// persist writes through a temp file so readers never see half a document.
func (s *JSONFile) persist(foods []models.FoodPlate) error {
	if foods == nil {
		foods = []models.FoodPlate{}
	}
	data, err := json.MarshalIndent(jsonDocument{Foods: foods}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding db file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing db file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing db file: %w", err)
	}
	return nil
}
