package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "statepop/internal/errors"
	"statepop/internal/exporter"
	"statepop/pkg/contracts/domain"
)

// MaxYearSpan bounds the number of years one request may ask for
const MaxYearSpan = 5000

// Output formats of GET /population
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// YearRange is the default [Start, End] used when a request omits start or end
type YearRange struct {
	Start int
	End   int
}

// PopulationResponse is the JSON body of the population endpoints
type PopulationResponse struct {
	Start int                       `json:"start"`
	End   int                       `json:"end"`
	Count int                       `json:"count"`
	Data  []domain.PopulationRecord `json:"data"`
}

// PopulationHandler serves the densified dataset
type PopulationHandler struct {
	service      PopulationServiceInterface
	defaults     YearRange
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPopulationHandler creates a new population handler
func NewPopulationHandler(service PopulationServiceInterface, defaults YearRange, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PopulationHandler {
	return &PopulationHandler{
		service:      service,
		defaults:     defaults,
		logger:       logger.With(slog.String("component", "population_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the population routes
func (h *PopulationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/states", h.ListStates)
	r.Get("/states/{code}/population", h.GetStatePopulation)
	r.Get("/states/{code}/observations", h.GetStateObservations)
	r.Get("/population", h.GetPopulation)

	return r
}

// ListStates handles GET /states
func (h *PopulationHandler) ListStates(w http.ResponseWriter, r *http.Request) {
	list := h.service.States(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"count": len(list),
		"data":  list,
	})
}

// GetStatePopulation handles GET /states/{code}/population
func (h *PopulationHandler) GetStatePopulation(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if len(code) != 2 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("code", "State code must have two letters"))
		return
	}

	years, err := h.parseYearRange(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, err := h.service.StatePopulation(r.Context(), code, years.Start, years.End)
	if err != nil {
		h.logger.InfoContext(r.Context(), "state population lookup failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("code", code),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, PopulationResponse{
		Start: years.Start,
		End:   years.End,
		Count: len(records),
		Data:  records,
	})
}

// GetStateObservations handles GET /states/{code}/observations
func (h *PopulationHandler) GetStateObservations(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	obs, err := h.service.StateObservations(r.Context(), code)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"code":  strings.ToUpper(code),
		"count": len(obs),
		"data":  obs,
	})
}

// GetPopulation handles GET /population
func (h *PopulationHandler) GetPopulation(w http.ResponseWriter, r *http.Request) {
	years, err := h.parseYearRange(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatJSON
	}

	seq := h.service.Population(r.Context(), years.Start, years.End)

	switch format {
	case FormatJSON:
		records := slices.Collect(seq)
		if records == nil {
			records = []domain.PopulationRecord{}
		}
		render.JSON(w, r, PopulationResponse{
			Start: years.Start,
			End:   years.End,
			Count: len(records),
			Data:  records,
		})
	case FormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=population_%d_%d.csv", years.Start, years.End))

		sw, err := exporter.NewStreamWriter(w, exporter.PopulationHeaders)
		if err == nil {
			var n int
			n, err = exporter.WriteCSVStream(sw, seq)
			h.logger.DebugContext(r.Context(), "population csv streamed", slog.Int("records", n))
		}
		if err != nil {
			// Headers are already sent; the client sees a truncated body.
			h.logger.ErrorContext(r.Context(), "failed to stream population csv",
				slog.String("error", err.Error()))
		}
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "Format must be json or csv"))
	}
}

// parseYearRange reads start and end, falling back to the handler defaults
func (h *PopulationHandler) parseYearRange(r *http.Request) (YearRange, error) {
	years := h.defaults
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"start", &years.Start},
		{"end", &years.End},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return YearRange{}, apierrors.ErrValidation(p.name, fmt.Sprintf("%q is not an integer year", raw))
		}
		*p.dst = v
	}

	// unsigned difference: End-Start overflows int for extreme years
	if years.End > years.Start && uint64(years.End)-uint64(years.Start) >= MaxYearSpan {
		return YearRange{}, apierrors.ErrValidation("end", fmt.Sprintf("at most %d years may be requested", MaxYearSpan))
	}
	return years, nil
}
