// Package dashboard keeps the food plate admin screen's local state in step with
// the remote /foods collection.
//
// The plate list is a cache: every mutation makes one round trip and then folds the
// server's answer into the list with an atomic transform of the latest state, so
// requests that complete out of order never overwrite each other. Remote failures
// are not shown to the user and never roll anything back.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aguxez/foodplates/models"
)

var ErrAlreadyInitialized = errors.New("dashboard: already initialized")

// Remote is the /foods collection as the controller needs it.
type Remote interface {
	ListFoods(ctx context.Context) ([]models.FoodPlate, error)
	CreateFood(ctx context.Context, p models.FoodPlate) (models.FoodPlate, error)
	ReplaceFood(ctx context.Context, id int, p models.FoodPlate) (models.FoodPlate, error)
	DeleteFood(ctx context.Context, id int) error
}

// View is what the presentation layer renders from. The modal flags decide
// which form, if any, is on screen.
type View struct {
	Foods         []models.FoodPlate
	Editing       models.FoodPlate
	AddModalOpen  bool
	EditModalOpen bool
}

type Controller struct {
	remote Remote
	foods  *models.StateManager
	log    zerolog.Logger

	initOnce sync.Once

	mu            sync.Mutex
	editing       models.FoodPlate
	addModalOpen  bool
	editModalOpen bool
}

func NewController(remote Remote, log zerolog.Logger) *Controller {
	return &Controller{
		remote: remote,
		foods:  &models.StateManager{},
		log:    log,
	}
}

// Initialize loads the collection into the list, replacing it verbatim. Only the
// first call fetches; later calls return ErrAlreadyInitialized. A failed fetch
// leaves the list as it was and is returned for logging only.
func (c *Controller) Initialize(ctx context.Context) error {
	err := ErrAlreadyInitialized
	c.initOnce.Do(func() {
		err = nil
		foods, ferr := c.remote.ListFoods(ctx)
		if ferr != nil {
			c.log.Error().Err(ferr).Msg("loading foods")
			err = ferr
			return
		}
		c.foods.ReplaceFoods(foods)
		c.log.Debug().Int("count", len(foods)).Msg("foods loaded")
	})
	return err
}

// AddFood creates d remotely with available=true and appends the server's record.
// Failures are logged and swallowed.
func (c *Controller) AddFood(ctx context.Context, d models.Draft) {
	created, err := c.remote.CreateFood(ctx, models.FoodPlate{
		Name:        d.Name,
		Image:       d.Image,
		Description: d.Description,
		Price:       d.Price,
		Available:   true,
	})
	if err != nil {
		c.log.Error().Err(err).Str("name", d.Name).Msg("adding food")
		return
	}
	c.foods.Update(models.Append(created))
}

// UpdateFood replaces the selected plate with d. id and available come from the
// selection, never from d. On success the entry with that id is swapped for the
// server's record in place; applied is false when no such entry is cached, in
// which case nothing is inserted. Remote errors are returned untouched.
func (c *Controller) UpdateFood(ctx context.Context, d models.Draft) (applied bool, err error) {
	sel := c.Editing()
	return c.replace(ctx, sel.ID, models.FoodPlate{
		ID:          sel.ID,
		Available:   sel.Available,
		Image:       d.Image,
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
	})
}

// ToggleAvailable flips available on the cached plate id through the remote.
// Unknown ids make no request and report applied=false.
func (c *Controller) ToggleAvailable(ctx context.Context, id int) (applied bool, err error) {
	foods := c.foods.Foods()
	i := models.IndexOf(foods, id)
	if i < 0 {
		return false, nil
	}
	p := foods[i]
	p.Available = !p.Available
	return c.replace(ctx, id, p)
}

func (c *Controller) replace(ctx context.Context, id int, p models.FoodPlate) (bool, error) {
	updated, err := c.remote.ReplaceFood(ctx, id, p)
	if err != nil {
		return false, err
	}
	var found bool
	c.foods.Update(models.ReplaceWhere(id, updated, &found))
	if !found {
		c.log.Debug().Int("id", id).Msg("updated food not in local list")
	}
	return found, nil
}

// DeleteFood removes id remotely, then locally. applied is false when the list had
// no such entry; the remote call has still been made.
func (c *Controller) DeleteFood(ctx context.Context, id int) (applied bool, err error) {
	if err := c.remote.DeleteFood(ctx, id); err != nil {
		return false, err
	}
	var found bool
	c.foods.Update(models.RemoveByID(id, &found))
	if !found {
		c.log.Debug().Int("id", id).Msg("deleted food not in local list")
	}
	return found, nil
}

// SelectForEdit makes p the plate UpdateFood targets. The selection survives a
// successful update.
func (c *Controller) SelectForEdit(p models.FoodPlate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = p
}

func (c *Controller) ToggleAddModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addModalOpen = !c.addModalOpen
}

func (c *Controller) ToggleEditModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editModalOpen = !c.editModalOpen
}

func (c *Controller) Editing() models.FoodPlate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

func (c *Controller) Foods() []models.FoodPlate {
	return c.foods.Foods()
}

// Snapshot copies everything the screen shows.
func (c *Controller) Snapshot() View {
	foods := c.foods.Foods()
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Foods:         foods,
		Editing:       c.editing,
		AddModalOpen:  c.addModalOpen,
		EditModalOpen: c.editModalOpen,
	}
}
