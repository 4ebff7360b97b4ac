package directory

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"airstream/pkg/domain"
)

// Config tunes a Directory. Zero values pick the defaults.
type Config struct {
	PageSize            int
	PlaceholderImageURL string
	Logger              *slog.Logger

	// NewID and LifeRemaining are replaced in tests.
	NewID         func() string
	LifeRemaining func() int
}

// Directory owns the asset records of the dashboard together with the
// transient view state of the table and details panel. All operations are
// serialized.
type Directory struct {
	mu     sync.Mutex
	order  []string
	assets map[string]domain.Asset
	view   ViewState
	draft  *domain.AssetDraft

	pageSize int
	imageURL string
	newID    func() string
	lifeFn   func() int
	logger   *slog.Logger
}

func New(cfg Config) *Directory {
	d := &Directory{
		assets:   make(map[string]domain.Asset),
		view:     ViewState{ActiveCategory: domain.CategoryAircraft},
		pageSize: cfg.PageSize,
		imageURL: strings.TrimSpace(cfg.PlaceholderImageURL),
		newID:    cfg.NewID,
		lifeFn:   cfg.LifeRemaining,
		logger:   cfg.Logger,
	}
	if d.pageSize <= 0 {
		d.pageSize = DefaultPageSize
	}
	if d.imageURL == "" {
		d.imageURL = DefaultPlaceholderImageURL
	}
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	if d.lifeFn == nil {
		d.lifeFn = func() int { return rand.IntN(100) }
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// List returns the stored records in insertion order.
func (d *Directory) List() []domain.Asset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.list()
}

// Len returns the number of stored records.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}

// Filter matches term case-insensitively against serial number, model,
// operator and engine designation. A blank term returns every record followed
// by placeholder rows up to a full page; a term without matches returns an
// empty result and no placeholder rows.
func (d *Directory) Filter(term string) []domain.Asset {
	d.mu.Lock()
	defer d.mu.Unlock()
	if strings.TrimSpace(term) == "" {
		rows := d.list()
		return append(rows, placeholderRows(len(rows), d.pageSize, d.imageURL)...)
	}
	fold := cases.Fold()
	needle := fold.String(term)
	rows := []domain.Asset{}
	for _, id := range d.order {
		asset := d.assets[id]
		for _, field := range []string{asset.SerialNumber, asset.Model, asset.Operator, asset.EngineDesignation} {
			if strings.Contains(fold.String(field), needle) {
				rows = append(rows, asset)
				break
			}
		}
	}
	return rows
}

// Get returns a stored record, or a placeholder row for a placeholder id.
func (d *Directory) Get(id string) (domain.Asset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookup(id)
}

// Create validates draft and appends it under a fresh id. The stored record
// becomes the current selection.
func (d *Directory) Create(draft domain.AssetDraft) (domain.Asset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.create(draft)
}

// Update replaces the stored record with draft.ID in place. Saving a
// placeholder row creates a new record instead.
func (d *Directory) Update(draft domain.AssetDraft) (domain.Asset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if IsPlaceholderID(draft.ID) {
		d.logger.Debug("promoting placeholder row", "placeholder_id", draft.ID)
		return d.create(draft)
	}
	current, ok := d.assets[draft.ID]
	if !ok {
		return domain.Asset{}, ErrAssetNotFound
	}
	asset, err := buildAsset(current.ID, draft, d.imageURL)
	if err != nil {
		return domain.Asset{}, err
	}
	if draft.LifeRemaining == nil {
		asset.LifeRemaining = current.LifeRemaining
	}
	d.assets[asset.ID] = asset
	if d.view.SelectedAssetID == asset.ID {
		d.seedDraft(asset)
	}
	d.logger.Debug("asset updated", "asset_id", asset.ID)
	return asset, nil
}

// Delete removes the record with id. Unknown ids are ignored. Deleting the
// selected record clears the selection and closes the details panel.
func (d *Directory) Delete(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.assets[id]; !ok {
		return
	}
	delete(d.assets, id)
	for i, existing := range d.order {
		if existing == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	if d.view.SelectedAssetID == id {
		d.view.SelectedAssetID = ""
		d.view.DetailsOpen = false
		d.draft = nil
	}
	d.logger.Debug("asset deleted", "asset_id", id)
}

func (d *Directory) create(draft domain.AssetDraft) (domain.Asset, error) {
	id := d.newID()
	asset, err := buildAsset(id, draft, d.imageURL)
	if err != nil {
		return domain.Asset{}, err
	}
	if draft.LifeRemaining == nil {
		asset.LifeRemaining = d.lifeFn()
	}
	d.assets[id] = asset
	d.order = append(d.order, id)
	d.view.SelectedAssetID = id
	d.view.CreatingNew = false
	d.view.DetailsOpen = true
	d.seedDraft(asset)
	d.logger.Debug("asset created", "asset_id", id, "serial_number", asset.SerialNumber)
	return asset, nil
}

func (d *Directory) list() []domain.Asset {
	rows := make([]domain.Asset, 0, len(d.order))
	for _, id := range d.order {
		rows = append(rows, d.assets[id])
	}
	return rows
}

func (d *Directory) lookup(id string) (domain.Asset, error) {
	if asset, ok := d.assets[id]; ok {
		return asset, nil
	}
	// Only the placeholder rows currently padding the page resolve.
	if i, ok := placeholderIndex(id); ok && i < d.pageSize-len(d.order) {
		return placeholderAsset(i, d.imageURL), nil
	}
	return domain.Asset{}, ErrAssetNotFound
}
