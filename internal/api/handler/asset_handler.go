package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/itamhq/itam-api/internal/api/metrics"
	"github.com/itamhq/itam-api/internal/core/ports"
)

// AssetHandler handles HTTP requests for the asset inventory.
type AssetHandler struct {
	service ports.AssetService
}

func NewAssetHandler(service ports.AssetService) *AssetHandler {
	return &AssetHandler{service: service}
}

// List handles GET /assets.
//
// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Param        skip   query     int  false  "Records to skip"         default(0)
// @Param        limit  query     int  false  "Maximum records (1-100)"  default(100)
// @Success      200    {array}   assetResponse
// @Failure      422    {object}  errorResponse
// @Router       /assets [get]
func (h *AssetHandler) List(c echo.Context) error {
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	assets, err := h.service.List(c.Request().Context(), actorFrom(c), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(assets, toAssetResponse))
}

// Get handles GET /assets/:id.
//
// @Summary      Get an asset
// @Tags         assets
// @Produce      json
// @Param        id   path      int  true  "Asset id"
// @Success      200  {object}  assetResponse
// @Failure      404  {object}  errorResponse
// @Router       /assets/{id} [get]
func (h *AssetHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	asset, err := h.service.Get(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAssetResponse(asset))
}

// Create handles POST /assets.
//
// @Summary      Create an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAssetRequest  true  "Asset"
// @Success      201   {object}  assetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /assets [post]
func (h *AssetHandler) Create(c echo.Context) error {
	var req createAssetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	in, err := toNewAsset(req)
	if err != nil {
		return err
	}

	asset, err := h.service.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("asset", "create").Inc()
	return c.JSON(http.StatusCreated, toAssetResponse(asset))
}

// Update handles PUT /assets/:id. Only fields present in the body change.
//
// @Summary      Update an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Asset id"
// @Param        body  body      updateAssetRequest  true  "Fields to change"
// @Success      200   {object}  assetResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /assets/{id} [put]
func (h *AssetHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req updateAssetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	patch, err := toAssetPatch(req)
	if err != nil {
		return err
	}

	asset, err := h.service.Update(c.Request().Context(), actorFrom(c), id, patch)
	if err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("asset", "update").Inc()
	return c.JSON(http.StatusOK, toAssetResponse(asset))
}

// Delete handles DELETE /assets/:id.
//
// @Summary      Delete an asset
// @Tags         assets
// @Security     BearerAuth
// @Param        id   path  int  true  "Asset id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /assets/{id} [delete]
func (h *AssetHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actorFrom(c), id); err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("asset", "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Asset deleted successfully"})
}
