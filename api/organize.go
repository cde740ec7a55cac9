package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Select toggles names in the selection of the current directory.
func (h *Handler) Select(c echo.Context) error {
	var req SelectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var err error
	if req.All {
		err = h.session.SelectAll()
	} else {
		err = h.session.Select(req.Names...)
	}
	if err != nil {
		return toHTTPError(err)
	}

	selected := h.session.Selection()
	if selected == nil {
		selected = []string{}
	}
	return c.JSON(http.StatusOK, SelectResponse{Selected: selected})
}

// Organize moves the selection into a new directory.
func (h *Handler) Organize(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "Organize")
	defer span.End()

	var req OrganizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	span.SetAttributes(attribute.String("directory_name", req.DirectoryName))

	in, err := req.input()
	if err != nil {
		return toHTTPError(err)
	}
	out, err := h.session.Organize(ctx, in)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// Insert moves the selection into an organized directory.
func (h *Handler) Insert(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "Insert")
	defer span.End()

	var req InsertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Target == "" {
		return toHTTPError(errMissing("target"))
	}
	span.SetAttributes(attribute.String("target", req.Target))

	out, err := h.session.Insert(ctx, req.Target)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// Rename renames the selection in place.
func (h *Handler) Rename(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "Rename")
	defer span.End()

	var req OrganizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	in, err := req.input()
	if err != nil {
		return toHTTPError(err)
	}
	out, err := h.session.Rename(ctx, in)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// Extract moves the files of an organized directory back into the current
// directory.
func (h *Handler) Extract(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return toHTTPError(errMissing("name"))
	}
	span.SetAttributes(attribute.String("name", req.Name))

	out, err := h.session.Extract(ctx, req.Name)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}
