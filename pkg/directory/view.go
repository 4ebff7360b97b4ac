package directory

import (
	"errors"
	"strings"

	"airstream/pkg/domain"
)

var ErrNotEditing = errors.New("No asset is being edited.")

// ViewState holds the transient flags of the dashboard. Selecting a record and
// starting a new one are exclusive ways into the details panel.
type ViewState struct {
	SelectedAssetID  string               `json:"selectedAssetId,omitempty"`
	DetailsOpen      bool                 `json:"detailsPanelOpen"`
	ManageOpen       bool                 `json:"managementPanelOpen"`
	CreatingNew      bool                 `json:"isCreatingNewAsset"`
	ActiveCategory   domain.AssetCategory `json:"activeAssetCategory"`
	SidebarCollapsed bool                 `json:"sidebarCollapsed"`
}

// Snapshot is the view state together with the selected record and the
// draft being edited.
type Snapshot struct {
	ViewState
	Selected *domain.Asset      `json:"selectedAsset,omitempty"`
	Draft    *domain.AssetDraft `json:"draft,omitempty"`
}

// ViewPatch changes the flags that are set directly by the user. Nil fields
// are left as they are.
type ViewPatch struct {
	ActiveCategory   *string `json:"activeAssetCategory,omitempty"`
	SidebarCollapsed *bool   `json:"sidebarCollapsed,omitempty"`
	ManageOpen       *bool   `json:"managementPanelOpen,omitempty"`
}

// View returns the current snapshot.
func (d *Directory) View() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

// Select opens the details panel for id and seeds the draft from it.
func (d *Directory) Select(id string) (domain.Asset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	asset, err := d.lookup(id)
	if err != nil {
		return domain.Asset{}, err
	}
	d.view.SelectedAssetID = asset.ID
	d.view.CreatingNew = false
	d.view.DetailsOpen = true
	d.seedDraft(asset)
	return asset, nil
}

// BeginCreate opens the details panel with an empty draft.
func (d *Directory) BeginCreate() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SelectedAssetID = ""
	d.view.CreatingNew = true
	d.view.DetailsOpen = true
	d.draft = &domain.AssetDraft{}
	return d.snapshot()
}

// CloseDetails closes the details and management panels and drops the draft.
func (d *Directory) CloseDetails() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SelectedAssetID = ""
	d.view.CreatingNew = false
	d.view.DetailsOpen = false
	d.view.ManageOpen = false
	d.draft = nil
	return d.snapshot()
}

func (d *Directory) SetManageOpen(open bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.ManageOpen = open
}

func (d *Directory) SetSidebarCollapsed(collapsed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SidebarCollapsed = collapsed
}

func (d *Directory) SetCategory(raw string) error {
	category, ok := domain.ParseAssetCategory(raw)
	if !ok {
		return invalid("activeAssetCategory", ErrInvalidCategory)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.ActiveCategory = category
	return nil
}

// Patch applies p as a whole or not at all.
func (d *Directory) Patch(p ViewPatch) (Snapshot, error) {
	var category domain.AssetCategory
	if p.ActiveCategory != nil {
		parsed, ok := domain.ParseAssetCategory(*p.ActiveCategory)
		if !ok {
			return Snapshot{}, invalid("activeAssetCategory", ErrInvalidCategory)
		}
		category = parsed
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.ActiveCategory != nil {
		d.view.ActiveCategory = category
	}
	if p.SidebarCollapsed != nil {
		d.view.SidebarCollapsed = *p.SidebarCollapsed
	}
	if p.ManageOpen != nil {
		d.view.ManageOpen = *p.ManageOpen
	}
	return d.snapshot(), nil
}

// EditDraft replaces the draft of the open details panel. The draft keeps the
// id of the selected record regardless of what the caller sends.
func (d *Directory) EditDraft(draft domain.AssetDraft) (domain.AssetDraft, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.view.DetailsOpen || d.draft == nil {
		return domain.AssetDraft{}, ErrNotEditing
	}
	draft.ID = d.view.SelectedAssetID
	d.draft = copyDraft(draft)
	return *copyDraft(draft), nil
}

// AutoSaveSnapshot returns a copy of the draft when there is one worth
// saving. A draft with a blank serial number is skipped unless a new record
// is being created.
func (d *Directory) AutoSaveSnapshot() (domain.AssetDraft, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draft == nil {
		return domain.AssetDraft{}, false
	}
	if strings.TrimSpace(d.draft.SerialNumber) == "" && !d.view.CreatingNew {
		return domain.AssetDraft{}, false
	}
	return *copyDraft(*d.draft), true
}

func (d *Directory) seedDraft(asset domain.Asset) {
	draft := domain.DraftFromAsset(asset)
	d.draft = &draft
}

func (d *Directory) snapshot() Snapshot {
	s := Snapshot{ViewState: d.view}
	if d.view.SelectedAssetID != "" {
		if asset, err := d.lookup(d.view.SelectedAssetID); err == nil {
			s.Selected = &asset
		}
	}
	if d.draft != nil {
		s.Draft = copyDraft(*d.draft)
	}
	return s
}

func copyDraft(draft domain.AssetDraft) *domain.AssetDraft {
	if draft.LifeRemaining != nil {
		life := *draft.LifeRemaining
		draft.LifeRemaining = &life
	}
	return &draft
}
