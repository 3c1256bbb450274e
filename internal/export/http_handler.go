package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/rpattn/bidash/internal/apierror"
	"github.com/rpattn/bidash/internal/domain"
)

const maxPayloadBytes = 1 << 20

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

type exportPayload struct {
	Filters  domain.Filters              `json:"filters"`
	Entities []string                    `json:"entities"`
	Sort     map[string]domain.TableSort `json:"sort"`
}

func (p exportPayload) request() (Request, error) {
	req := Request{
		Filters: p.Filters,
		Sorts:   make(map[domain.EntityKind]domain.TableSort, len(p.Sort)),
	}
	for _, raw := range p.Entities {
		kind, err := domain.ParseEntityKind(raw)
		if err != nil {
			return Request{}, err
		}
		req.Entities = append(req.Entities, kind)
	}
	for raw, sort := range p.Sort {
		kind, err := domain.ParseEntityKind(raw)
		if err != nil {
			return Request{}, err
		}
		sort.Direction = domain.ParseSortDirection(string(sort.Direction))
		req.Sorts[kind] = sort
	}
	return req, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var payload exportPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&payload); err != nil {
		apierror.Write(w, h.logger, fmt.Errorf("%w: invalid payload: %v", apierror.ErrBadRequest, err))
		return
	}
	req, err := payload.request()
	if err != nil {
		apierror.Write(w, h.logger, err)
		return
	}

	// Buffer the workbook so failures still produce a JSON error response.
	var buf bytes.Buffer
	wb, err := h.service.Export(r.Context(), req, &buf)
	if err != nil {
		apierror.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", wb.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("export download interrupted", zap.String("file", wb.FileName), zap.Error(err))
	}
}
