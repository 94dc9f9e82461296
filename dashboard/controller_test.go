package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aguxez/foodplates/models"
)

type replaceCall struct {
	id   int
	body models.FoodPlate
}

// fakeRemote records calls and answers like a well-behaved backend. gates, when
// set for a plate name, hold CreateFood until the channel is closed.
type fakeRemote struct {
	mu       sync.Mutex
	list     []models.FoodPlate
	listErr  error
	nextID   int
	created  []models.FoodPlate
	replaced []replaceCall
	deleted  []int
	err      error
	gates    map[string]chan struct{}
	listHits int
}

func (f *fakeRemote) ListFoods(context.Context) ([]models.FoodPlate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHits++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeRemote) CreateFood(_ context.Context, p models.FoodPlate) (models.FoodPlate, error) {
	f.mu.Lock()
	gate := f.gates[p.Name]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	if f.err != nil {
		return models.FoodPlate{}, f.err
	}
	f.nextID++
	p.ID = f.nextID
	return p, nil
}

func (f *fakeRemote) ReplaceFood(_ context.Context, id int, p models.FoodPlate) (models.FoodPlate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced = append(f.replaced, replaceCall{id: id, body: p})
	if f.err != nil {
		return models.FoodPlate{}, f.err
	}
	p.ID = id
	return p, nil
}

func (f *fakeRemote) DeleteFood(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.err
}

func seeded() []models.FoodPlate {
	return []models.FoodPlate{
		{ID: 1, Name: "Ao molho", Price: "19.90", Available: true},
		{ID: 2, Name: "Veggie", Price: "21.90", Available: false},
		{ID: 3, Name: "A la Camarón", Price: "25.90", Available: true},
	}
}

func newLoaded(t *testing.T, remote *fakeRemote) *Controller {
	t.Helper()
	c := NewController(remote, zerolog.Nop())
	require.NoError(t, c.Initialize(context.Background()))
	return c
}

func TestInitializeReplacesListVerbatimOnce(t *testing.T) {
	remote := &fakeRemote{list: seeded()}
	c := newLoaded(t, remote)

	assert.Equal(t, seeded(), c.Foods())

	remote.list = nil
	err := c.Initialize(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Equal(t, 1, remote.listHits)
	assert.Equal(t, seeded(), c.Foods())
}

func TestInitializeFailureLeavesListEmpty(t *testing.T) {
	remote := &fakeRemote{listErr: errors.New("connection refused")}
	c := NewController(remote, zerolog.Nop())

	require.Error(t, c.Initialize(context.Background()))
	assert.Empty(t, c.Foods())
	assert.ErrorIs(t, c.Initialize(context.Background()), ErrAlreadyInitialized)
	assert.Equal(t, 1, remote.listHits)
}

func TestAddFoodAppendsServerRecord(t *testing.T) {
	remote := &fakeRemote{list: seeded(), nextID: 10}
	c := newLoaded(t, remote)

	c.AddFood(context.Background(), models.Draft{Name: "Nova", Image: "img", Description: "desc", Price: "9.50"})

	foods := c.Foods()
	require.Len(t, foods, 4)
	assert.Equal(t, models.FoodPlate{ID: 11, Name: "Nova", Image: "img", Description: "desc", Price: "9.50", Available: true}, foods[3])
	assert.Equal(t, seeded(), foods[:3])

	require.Len(t, remote.created, 1)
	assert.Zero(t, remote.created[0].ID)
	assert.True(t, remote.created[0].Available)
}

func TestAddFoodFailureIsSwallowed(t *testing.T) {
	remote := &fakeRemote{list: seeded(), err: errors.New("HTTP 500")}
	c := newLoaded(t, remote)

	c.AddFood(context.Background(), models.Draft{Name: "Nova", Price: "1"})

	assert.Equal(t, seeded(), c.Foods())
}

func TestConcurrentAddsResolvingInReverseOrderKeepBoth(t *testing.T) {
	first, second := make(chan struct{}), make(chan struct{})
	remote := &fakeRemote{gates: map[string]chan struct{}{"first": first, "second": second}}
	c := newLoaded(t, remote)

	var wg sync.WaitGroup
	for _, name := range []string{"first", "second"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			c.AddFood(context.Background(), models.Draft{Name: name, Price: "1"})
		}(name)
	}

	close(second)
	require.Eventually(t, func() bool { return len(c.Foods()) == 1 }, time.Second, time.Millisecond)
	close(first)
	wg.Wait()

	foods := c.Foods()
	require.Len(t, foods, 2)
	assert.Equal(t, "second", foods[0].Name)
	assert.Equal(t, "first", foods[1].Name)
}

func TestUpdateFoodUsesSelectionForIDAndAvailable(t *testing.T) {
	remote := &fakeRemote{list: seeded()}
	c := newLoaded(t, remote)

	c.SelectForEdit(seeded()[1])
	applied, err := c.UpdateFood(context.Background(), models.Draft{
		Name:        "Veggie II",
		Image:       "new.png",
		Description: "com brócolis",
		Price:       "22.00",
	})
	require.NoError(t, err)
	assert.True(t, applied)

	require.Len(t, remote.replaced, 1)
	assert.Equal(t, 2, remote.replaced[0].id)
	assert.Equal(t, 2, remote.replaced[0].body.ID)
	assert.False(t, remote.replaced[0].body.Available)

	want := seeded()
	want[1] = models.FoodPlate{ID: 2, Name: "Veggie II", Image: "new.png", Description: "com brócolis", Price: "22.00", Available: false}
	assert.Equal(t, want, c.Foods())
}

func TestUpdateFoodKeepsSelectionAfterSuccess(t *testing.T) {
	remote := &fakeRemote{list: seeded()}
	c := newLoaded(t, remote)

	c.SelectForEdit(seeded()[0])
	_, err := c.UpdateFood(context.Background(), models.Draft{Name: "changed", Price: "1"})
	require.NoError(t, err)

	assert.Equal(t, seeded()[0], c.Editing())
}

func TestUpdateFoodWithStaleSelectionIsNoop(t *testing.T) {
	remote := &fakeRemote{list: seeded()}
	c := newLoaded(t, remote)

	c.SelectForEdit(models.FoodPlate{ID: 42, Name: "gone", Available: true})
	applied, err := c.UpdateFood(context.Background(), models.Draft{Name: "ghost", Price: "1"})

	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, seeded(), c.Foods())
	require.Len(t, remote.replaced, 1)
	assert.Equal(t, 42, remote.replaced[0].id)
}

func TestUpdateFoodRemoteErrorPropagatesWithoutRollback(t *testing.T) {
	remote := &fakeRemote{list: seeded()}
	c := newLoaded(t, remote)
	remote.err = errors.New("HTTP 404")

	c.SelectForEdit(seeded()[0])
	applied, err := c.UpdateFood(context.Background(), models.Draft{Name: "x", Price: "1"})

	require.Error(t, err)
	assert.False(t, applied)
	assert.Equal(t, seeded(), c.Foods())
}

func TestDeleteFoodRemovesEntryKeepingOrder(t *testing.T) {
	remote := &fakeRemote{list: seeded()}
	c := newLoaded(t, remote)

	applied, err := c.DeleteFood(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, applied)

	want := seeded()
	assert.Equal(t, []models.FoodPlate{want[0], want[2]}, c.Foods())
	assert.Equal(t, []int{2}, remote.deleted)
}

func TestDeleteFoodUnknownIDStillCallsRemote(t *testing.T) {
	remote := &fakeRemote{list: seeded()}
	c := newLoaded(t, remote)

	applied, err := c.DeleteFood(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Len(t, c.Foods(), 3)
	assert.Equal(t, []int{99}, remote.deleted)
}

func TestDeleteFoodRemoteErrorKeepsEntry(t *testing.T) {
	remote := &fakeRemote{list: seeded()}
	c := newLoaded(t, remote)
	remote.err = errors.New("timeout")

	_, err := c.DeleteFood(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, seeded(), c.Foods())
}

func TestToggleAvailable(t *testing.T) {
	remote := &fakeRemote{list: seeded()}
	c := newLoaded(t, remote)

	applied, err := c.ToggleAvailable(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, c.Foods()[1].Available)
	require.Len(t, remote.replaced, 1)
	assert.Equal(t, "Veggie", remote.replaced[0].body.Name)

	applied, err = c.ToggleAvailable(context.Background(), 77)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Len(t, remote.replaced, 1)
}

func TestModalTogglesAreIndependent(t *testing.T) {
	c := NewController(&fakeRemote{}, zerolog.Nop())

	v := c.Snapshot()
	assert.False(t, v.AddModalOpen)
	assert.False(t, v.EditModalOpen)

	c.ToggleAddModal()
	v = c.Snapshot()
	assert.True(t, v.AddModalOpen)
	assert.False(t, v.EditModalOpen)

	c.ToggleEditModal()
	c.ToggleAddModal()
	v = c.Snapshot()
	assert.False(t, v.AddModalOpen)
	assert.True(t, v.EditModalOpen)
}

func TestSnapshotStartsWithEmptySelection(t *testing.T) {
	c := NewController(&fakeRemote{}, zerolog.Nop())
	assert.True(t, c.Snapshot().Editing.IsZero())

	c.SelectForEdit(seeded()[2])
	assert.Equal(t, seeded()[2], c.Snapshot().Editing)
}
