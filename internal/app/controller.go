package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/crud/internal/model"
)

// Gateway is the storage the controller drives. sqlitestore.Store satisfies it.
type Gateway interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, name string) error
	List(ctx context.Context) ([]model.Item, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// Controller mirrors the items table in memory and tracks the current
// selection and the pending name typed by the user.
//
// The in-memory list is never patched: every mutation is followed by a full
// reload from the gateway, which also drops the selection.
type Controller struct {
	gw  Gateway
	log zerolog.Logger

	items    []model.Item
	selected *model.Item
	name     string
}

// New returns a Controller over gw. Call Init before showing anything.
func New(gw Gateway, log zerolog.Logger) *Controller {
	return &Controller{
		gw:    gw,
		log:   log.With().Str("component", "controller").Logger(),
		items: []model.Item{},
	}
}

// Init makes sure the table exists, then loads it.
func (c *Controller) Init(ctx context.Context) error {
	if err := c.gw.EnsureSchema(ctx); err != nil {
		// Keep going: the load below reports the same failure and leaves an empty list.
		c.log.Warn().Err(err).Msg("schema not ensured")
	}
	return c.Load(ctx)
}

// Load replaces the list with a fresh snapshot of the table. The list is
// replaced even when the gateway fails, with whatever it returned.
func (c *Controller) Load(ctx context.Context) error {
	items, err := c.gw.List(ctx)
	if items == nil {
		items = []model.Item{}
	}
	c.items = items
	c.selected = nil
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	c.log.Debug().Int("items", len(items)).Msg("reloaded")
	return nil
}

// Items returns a copy of the current snapshot.
func (c *Controller) Items() []model.Item {
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Select makes it the current selection if it is in the snapshot, matched by
// id. The pending name becomes the item's name. It reports whether it matched;
// on a miss the selection is cleared.
func (c *Controller) Select(it model.Item) bool {
	return c.SelectID(it.ID)
}

// SelectID selects the snapshot item with the given id.
func (c *Controller) SelectID(id int64) bool {
	for i := range c.items {
		if c.items[i].ID == id {
			return c.SelectIndex(i)
		}
	}
	c.selected = nil
	return false
}

// SelectIndex selects the i-th snapshot item. Out of range clears the selection.
func (c *Controller) SelectIndex(i int) bool {
	if i < 0 || i >= len(c.items) {
		c.selected = nil
		return false
	}
	sel := c.items[i]
	c.selected = &sel
	c.name = sel.Name
	return true
}

// ClearSelection drops the selection; the pending name is kept.
func (c *Controller) ClearSelection() { c.selected = nil }

// Selection returns the selected item, if any.
func (c *Controller) Selection() (model.Item, bool) {
	if c.selected == nil {
		return model.Item{}, false
	}
	return *c.selected, true
}

// Name is the pending text-field value.
func (c *Controller) Name() string { return c.name }

// SetName replaces the pending text-field value.
func (c *Controller) SetName(s string) { c.name = s }

// Add inserts name and reloads. An empty name does nothing.
func (c *Controller) Add(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	err := c.gw.Create(ctx, name)
	return c.afterWrite(ctx, "add", err)
}

// Update renames the selected item and reloads. Without a selection it does nothing.
func (c *Controller) Update(ctx context.Context, name string) error {
	sel, ok := c.Selection()
	if !ok {
		return nil
	}
	err := c.gw.Update(ctx, sel.ID, name)
	return c.afterWrite(ctx, "update", err)
}

// Delete removes the selected item and reloads. Without a selection it does nothing.
func (c *Controller) Delete(ctx context.Context) error {
	sel, ok := c.Selection()
	if !ok {
		return nil
	}
	err := c.gw.Delete(ctx, sel.ID)
	return c.afterWrite(ctx, "delete", err)
}

// afterWrite reloads and clears the pending name whatever the write did,
// then reports the first failure.
func (c *Controller) afterWrite(ctx context.Context, op string, writeErr error) error {
	loadErr := c.Load(ctx)
	c.name = ""
	if writeErr != nil {
		return fmt.Errorf("%s: %w", op, writeErr)
	}
	return loadErr
}
