package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/itamhq/itam-api/internal/api/metrics"
	"github.com/itamhq/itam-api/internal/core/ports"
)

// TicketHandler handles HTTP requests for support tickets.
type TicketHandler struct {
	service ports.TicketService
}

func NewTicketHandler(service ports.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// Create handles POST /tickets.
//
// @Summary      Open a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTicketRequest  true  "Ticket"
// @Success      201   {object}  ticketResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	in, err := toNewTicket(req)
	if err != nil {
		return err
	}

	ticket, err := h.service.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("ticket", "create").Inc()
	return c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

// List handles GET /tickets. Admins see every ticket, other users only
// their own.
//
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Records to skip"         default(0)
// @Param        limit  query     int  false  "Maximum records (1-100)"  default(100)
// @Success      200    {array}   ticketResponse
// @Failure      401    {object}  errorResponse
// @Router       /tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.Request().Context(), actorFrom(c), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(tickets, toTicketResponse))
}

// Get handles GET /tickets/:id.
//
// @Summary      Get a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Ticket id"
// @Success      200  {object}  ticketResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Get(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

// Update handles PUT /tickets/:id.
//
// @Summary      Update a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Ticket id"
// @Param        body  body      updateTicketRequest  true  "Fields to change"
// @Success      200   {object}  ticketResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /tickets/{id} [put]
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req updateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	patch, err := toTicketPatch(req)
	if err != nil {
		return err
	}

	ticket, err := h.service.Update(c.Request().Context(), actorFrom(c), id, patch)
	if err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("ticket", "update").Inc()
	return c.JSON(http.StatusOK, toTicketResponse(ticket))
}

// Delete handles DELETE /tickets/:id.
//
// @Summary      Delete a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Ticket id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tickets/{id} [delete]
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actorFrom(c), id); err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("ticket", "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Ticket deleted successfully"})
}
