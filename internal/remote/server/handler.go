package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/models"
	"github.com/sfko/legocat/internal/remote"
	"github.com/sfko/legocat/internal/validation"
)

// Catalog answers the catalog queries served over HTTP.
type Catalog interface {
	ListSets(ctx context.Context, q models.SetQuery, page int) (*catalog.SetPage, error)
	SetsWithPart(ctx context.Context, q models.PartUsageQuery, page int) (*catalog.SetPage, error)
	SetInventory(ctx context.Context, setNum string) (*catalog.Inventory, error)
	CommonInventory(ctx context.Context, setNum1, setNum2 string) (*catalog.CommonInventory, error)
	ThemeForest(ctx context.Context) ([]*catalog.Theme, error)
	ThemeSubtree(ctx context.Context, rootID int64) ([]*catalog.Theme, error)
}

// Pinger reports whether the catalog database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Version       string // reported as assemblyVersion by /wellness
	EnableMetrics bool   // serve /metrics
}

// DefaultServerConfig returns reasonable defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Version:       "dev",
		EnableMetrics: true,
	}
}

// Handler creates the HTTP handler with all routes and middleware.
func Handler(svc Catalog, db Pinger, cfg *ServerConfig, logger *slog.Logger) http.Handler {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(
		requestIDMiddleware,
		loggingMiddleware(logger),
		recoveryMiddleware(logger),
		metricsMiddleware,
	)

	r.NotFound(handleRouteNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	// Health
	r.Get("/wellness", makeWellnessHandler(cfg.Version))
	r.Get("/readyz", makeReadyHandler(db, logger))
	if cfg.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	// Sets
	r.Get("/sets", makeListSetsHandler(svc, logger))
	r.With(requireCatalogIDs("partNum")).Get("/parts/{partNum}/sets", makeSetsWithPartHandler(svc, logger))

	// Inventories
	r.With(requireCatalogIDs("setNum")).Get("/inventories/set/{setNum}", makeInventoryHandler(svc, logger))
	r.With(requireCatalogIDs("setNum", "otherSetNum")).Get("/inventories/set/{setNum}/and/{otherSetNum}", makeCommonInventoryHandler(svc, logger))

	// Themes
	r.Get("/themes", makeThemesHandler(svc, logger))
	r.Get("/themes/{rootId}", makeSubthemesHandler(svc, logger))

	return r
}

// setsRequest is the validated query of GET /sets
type setsRequest struct {
	Name     string `query:"name" validate:"max=200"`
	Year     int64  `query:"year" validate:"gte=0"`
	ThemeID  int64  `query:"themeId" validate:"gte=0"`
	MinParts int64  `query:"minParts" validate:"gte=0"`
	Page     int    `query:"page" validate:"gte=0,lte=1000000"`
}

// partSetsRequest is the validated query of GET /parts/{partNum}/sets
type partSetsRequest struct {
	ColorID     *int64 `query:"colorId"`
	MinQuantity int64  `query:"minQuantity" validate:"gte=0"`
	Page        int    `query:"page" validate:"gte=0,lte=1000000"`
}

func makeListSetsHandler(svc Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var req setsRequest
		req.Name = query.Get("name")
		err := errors.Join(
			parseInt(query, "year", &req.Year),
			parseInt(query, "themeId", &req.ThemeID),
			parseInt(query, "minParts", &req.MinParts),
			parsePage(query, &req.Page),
		)
		if err == nil {
			err = validateRequest(&req)
		}
		if err != nil {
			writeError(w, r, logger, err)
			return
		}

		q := models.SetQuery{Name: req.Name, Year: req.Year, ThemeID: req.ThemeID, MinParts: req.MinParts}
		page, err := svc.ListSets(r.Context(), q, req.Page)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, remote.NewSetListResponse(page, r.URL.EscapedPath(), query))
	}
}

func makeSetsWithPartHandler(svc Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var req partSetsRequest
		var colorID int64
		err := errors.Join(
			parseInt(query, "colorId", &colorID),
			parseInt(query, "minQuantity", &req.MinQuantity),
			parsePage(query, &req.Page),
		)
		if query.Get("colorId") != "" {
			req.ColorID = &colorID
		}
		if err == nil {
			err = validateRequest(&req)
		}
		if err != nil {
			writeError(w, r, logger, err)
			return
		}

		q := models.PartUsageQuery{
			PartNum:     chi.URLParam(r, "partNum"),
			ColorID:     req.ColorID,
			MinQuantity: req.MinQuantity,
		}
		page, err := svc.SetsWithPart(r.Context(), q, req.Page)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, remote.NewSetListResponse(page, r.URL.EscapedPath(), query))
	}
}

func makeInventoryHandler(svc Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.SetInventory(r.Context(), chi.URLParam(r, "setNum"))
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, inv)
	}
}

func makeCommonInventoryHandler(svc Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.CommonInventory(r.Context(), chi.URLParam(r, "setNum"), chi.URLParam(r, "otherSetNum"))
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, inv)
	}
}

func makeThemesHandler(svc Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forest, err := svc.ThemeForest(r.Context())
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, forest)
	}
}

func makeSubthemesHandler(svc Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "rootId")
		rootID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, r, logger, validation.Rejected("rootId", "int", raw, "rootId must be an integer"))
			return
		}

		forest, err := svc.ThemeSubtree(r.Context(), rootID)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, forest)
	}
}

func makeWellnessHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, remote.WellnessResponse{
			Status:          "👍",
			APIVersion:      remote.APIVersion,
			AssemblyVersion: version,
		})
	}
}

func makeReadyHandler(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			logger.Warn("readiness check failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("not ready: database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

func handleRouteNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, remote.ErrorResponse{Error: remote.CodeRouteNotFound})
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, remote.ErrorResponse{
		Error:   "method_not_allowed",
		Message: "the catalog is read-only",
	})
}

// parseInt sets *dst from an optional integer query parameter
func parseInt(query url.Values, key string, dst *int64) error {
	raw := query.Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return validation.Rejected(key, "int", raw, key+" must be an integer")
	}
	*dst = n
	return nil
}

func parsePage(query url.Values, dst *int) error {
	var page int64
	if err := parseInt(query, "page", &page); err != nil {
		return err
	}
	*dst = int(page)
	return nil
}

// validateRequest runs the struct validator, returning a plain nil error on success
func validateRequest(req any) error {
	if err := validation.ValidateStruct(req); err != nil {
		return err
	}
	return nil
}

// writeError maps an error to its HTTP status and JSON body.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var rejected *validation.RequestValidationError
	switch {
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusBadRequest, remote.ErrorResponse{
			Error:   remote.CodeValidationRejected,
			Message: err.Error(),
		})
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, remote.ErrorResponse{
			Error:   remote.CodeNotFound,
			Message: err.Error(),
		})
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, remote.ErrorResponse{
			Error:   remote.CodeInternal,
			Message: "internal server error",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
