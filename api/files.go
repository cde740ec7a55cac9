package api

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nrtkbb/fsorg/app"
	"github.com/nrtkbb/fsorg/db"
)

// ListDirectory navigates to path and returns one page of its entries,
// directories first.
func (h *Handler) ListDirectory(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "ListDirectory")
	defer span.End()

	c.SetRequest(c.Request().WithContext(ctx))

	path := c.QueryParam("path")
	if path == "" {
		path = h.session.Cwd()
	}
	if path == "" {
		path = "."
	}
	span.SetAttributes(attribute.String("path", path))

	listing, err := h.session.Navigate(ctx, path)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}

	entries := make([]app.Entry, 0, len(listing.Directories)+len(listing.Files))
	entries = append(entries, listing.Directories...)
	entries = append(entries, listing.Files...)
	total := len(entries)

	page, err := h.getPageFromQuery(c, total)
	if err != nil {
		span.RecordError(err)
		return err
	}
	offset := (page - 1) * perPage
	end := offset + perPage
	if end > total {
		end = total
	}

	resp := NewPaginatedResponse(c, entries[offset:end], page, perPage, total)
	resp.Path = listing.Path
	return c.JSON(http.StatusOK, resp)
}

// GetFileMetadata returns a fresh stat of one file. With path set the
// session navigates to the file's directory first.
func (h *Handler) GetFileMetadata(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "GetFileMetadata")
	defer span.End()

	c.SetRequest(c.Request().WithContext(ctx))

	path, name := c.QueryParam("path"), c.QueryParam("name")
	if name == "" && path != "" {
		path, name = filepath.Dir(path), filepath.Base(path)
	}
	if name == "" {
		err := errMissing("name")
		span.RecordError(err)
		return toHTTPError(err)
	}
	span.SetAttributes(attribute.String("path", path), attribute.String("name", name))

	if path != "" && path != h.session.Cwd() {
		if _, err := h.session.Navigate(ctx, path); err != nil {
			span.RecordError(err)
			return toHTTPError(err)
		}
	}

	info, err := h.session.Stat(name)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, info)
}

// GetRoots lists mounted volumes or drives.
func (h *Handler) GetRoots(c echo.Context) error {
	roots := h.session.Roots()
	if roots == nil {
		roots = []string{}
	}
	return c.JSON(http.StatusOK, roots)
}

// GetRules returns the rules stored for an organized directory.
func (h *Handler) GetRules(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "GetRules")
	defer span.End()

	path := c.QueryParam("path")
	if path == "" {
		return toHTTPError(errMissing("path"))
	}
	span.SetAttributes(attribute.String("path", path))

	rec, err := h.session.Rules(ctx, path)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newRuleRecord(rec))
}

// GetHistory lists recent journaled runs. It needs the database.
func (h *Handler) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "GetHistory")
	defer span.End()

	database := h.session.DB()
	if database == nil {
		return echo.NewHTTPError(http.StatusNotFound, "journal is not enabled")
	}

	runs, err := db.RecentRuns(ctx, database, perPage)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	out := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunSummary(r))
	}
	return c.JSON(http.StatusOK, out)
}
