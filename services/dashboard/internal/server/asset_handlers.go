package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"airstream/internal/metrics"
	"airstream/pkg/directory"
	"airstream/pkg/domain"
)

type assetResponse struct {
	Success bool         `json:"success"`
	Asset   domain.Asset `json:"asset"`
}

type assetListResponse struct {
	Success bool           `json:"success"`
	Assets  []domain.Asset `json:"assets"`
}

type viewStateResponse struct {
	Success bool               `json:"success"`
	State   directory.Snapshot `json:"state"`
}

type draftResponse struct {
	Success   bool              `json:"success"`
	Draft     domain.AssetDraft `json:"draft"`
	LastSaved *time.Time        `json:"lastSaved,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, assetListResponse{
		Success: true,
		Assets:  s.app.Directory().Filter(r.URL.Query().Get("q")),
	})
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var draft domain.AssetDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	asset, err := s.app.Directory().Create(draft)
	s.recordAssetOperation("create", err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, assetResponse{Success: true, Asset: asset})
}

// handleSelectAsset opens the details panel for the record.
func (s *Server) handleSelectAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := s.app.Directory().Select(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assetResponse{Success: true, Asset: asset})
}

// handleUpdateAsset answers 201 when a placeholder row was saved as a new
// record.
func (s *Server) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	var draft domain.AssetDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	draft.ID = chi.URLParam(r, "id")
	asset, err := s.app.Directory().Update(draft)
	s.recordAssetOperation("update", err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	status := http.StatusOK
	if directory.IsPlaceholderID(draft.ID) {
		status = http.StatusCreated
	}
	writeJSON(w, status, assetResponse{Success: true, Asset: asset})
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	s.app.Directory().Delete(chi.URLParam(r, "id"))
	s.recordAssetOperation("delete", nil)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleGetView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, viewStateResponse{Success: true, State: s.app.Directory().View()})
}

func (s *Server) handlePatchView(w http.ResponseWriter, r *http.Request) {
	var patch directory.ViewPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	state, err := s.app.Directory().Patch(patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewStateResponse{Success: true, State: state})
}

func (s *Server) handleBeginCreate(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, viewStateResponse{Success: true, State: s.app.Directory().BeginCreate()})
}

func (s *Server) handleCloseDetails(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, viewStateResponse{Success: true, State: s.app.Directory().CloseDetails()})
}

// handleEditDraft stores the in-progress form. It is only snapshotted by
// auto-save and never commits the record.
func (s *Server) handleEditDraft(w http.ResponseWriter, r *http.Request) {
	var draft domain.AssetDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	stored, err := s.app.Directory().EditDraft(draft)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Success: true, Draft: stored})
}

func (s *Server) handleAutoSavedDraft(w http.ResponseWriter, r *http.Request) {
	saver := s.app.AutoSaver()
	draft, err := saver.Load(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := draftResponse{Success: true, Draft: draft}
	if last := saver.LastSaved(); !last.IsZero() {
		resp.LastSaved = &last
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) recordAssetOperation(operation string, err error) {
	metrics.RecordAssetOperation(operation, err)
	metrics.AssetRecords.Set(float64(s.app.Directory().Len()))
}
