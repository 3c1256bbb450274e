package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/rpattn/bidash/internal/apierror"
	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/savedfilters"
)

type savedFilterPayload struct {
	Name    string         `json:"name"`
	Filters domain.Filters `json:"filters"`
}

type savedFilterPatch struct {
	Name    *string         `json:"name"`
	Filters *domain.Filters `json:"filters"`
}

func savedFilterID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid saved filter id", apierror.ErrBadRequest)
	}
	return id, nil
}

// handleListSavedFilters lists every saved filter, or the one named by ?name=.
func (s *Server) handleListSavedFilters(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		saved, err := s.savedFilters.GetByName(r.Context(), name)
		if err != nil {
			s.fail(w, err)
			return
		}
		apierror.WriteJSON(w, http.StatusOK, []domain.SavedFilter{saved})
		return
	}
	list, err := s.savedFilters.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if list == nil {
		list = []domain.SavedFilter{}
	}
	apierror.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateSavedFilter(w http.ResponseWriter, r *http.Request) {
	var payload savedFilterPayload
	if err := decodeJSON(w, r, &payload, false); err != nil {
		s.fail(w, err)
		return
	}
	created, err := s.savedFilters.Create(r.Context(), payload.Name, payload.Filters)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Location", "/api/saved-filters/"+created.ID.String())
	apierror.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetSavedFilter(w http.ResponseWriter, r *http.Request) {
	id, err := savedFilterID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	saved, err := s.savedFilters.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) handleUpdateSavedFilter(w http.ResponseWriter, r *http.Request) {
	id, err := savedFilterID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var patch savedFilterPatch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		s.fail(w, err)
		return
	}
	updated, err := s.savedFilters.Update(r.Context(), id, savedfilters.UpdateRequest{
		Name:    patch.Name,
		Filters: patch.Filters,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSavedFilter(w http.ResponseWriter, r *http.Request) {
	id, err := savedFilterID(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.savedFilters.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
