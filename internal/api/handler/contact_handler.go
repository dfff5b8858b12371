package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/whitebox/contacts-service/internal/api/metrics"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

// ContactHandler handles HTTP requests for the authenticated user's address book.
type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Create handles POST /v1/contacts.
//
// @Summary      Add a contact
// @Description  Adds another registered user to the caller's address book.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createContactRequest  true  "Contact to add"
// @Success      201   {object}  contactResponse
// @Failure      400   {object}  ErrorResponse  "invalid payload or self contact"
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse  "target user missing or contact archived"
// @Failure      409   {object}  ErrorResponse  "contact already exists"
// @Router       /v1/contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contact, err := h.service.Create(c.Request().Context(), user.ID, toCreateContactInput(req))
	if err != nil {
		return err
	}

	metrics.ContactsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toContactResponse(contact))
}

// List handles GET /v1/contacts and returns active contacts only.
//
// @Summary      List active contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int       false  "Page number"       minimum(1)
// @Param        limit      query     int       false  "Page size"         minimum(1) maximum(100)
// @Param        search     query     string    false  "Substring of the contact's name or email"
// @Param        tags       query     []string  false  "Match any of the tags"  collectionFormat(multi)
// @Param        sortBy     query     string    false  "Sort key"          Enums(name, createdAt, updatedAt)
// @Param        sortOrder  query     string    false  "Sort direction"    Enums(asc, desc)
// @Success      200        {object}  contactPageResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      401        {object}  ErrorResponse
// @Router       /v1/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	return h.list(c, "active", h.service.FindAllActive)
}

// Search handles GET /v1/contacts/search; isActive is honoured when given.
//
// @Summary      Search contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int       false  "Page number"       minimum(1)
// @Param        limit      query     int       false  "Page size"         minimum(1) maximum(100)
// @Param        search     query     string    false  "Substring of the contact's name or email"
// @Param        tags       query     []string  false  "Match any of the tags"  collectionFormat(multi)
// @Param        isActive   query     bool      false  "Filter by state"
// @Param        sortBy     query     string    false  "Sort key"          Enums(name, createdAt, updatedAt)
// @Param        sortOrder  query     string    false  "Sort direction"    Enums(asc, desc)
// @Success      200        {object}  contactPageResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      401        {object}  ErrorResponse
// @Router       /v1/contacts/search [get]
func (h *ContactHandler) Search(c echo.Context) error {
	return h.list(c, "search", h.service.Search)
}

// Archived handles GET /v1/contacts/archived.
//
// @Summary      List archived contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int       false  "Page number"  minimum(1)
// @Param        limit      query     int       false  "Page size"    minimum(1) maximum(100)
// @Param        search     query     string    false  "Substring of the contact's name or email"
// @Param        tags       query     []string  false  "Match any of the tags"  collectionFormat(multi)
// @Success      200        {object}  contactPageResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      401        {object}  ErrorResponse
// @Router       /v1/contacts/archived [get]
func (h *ContactHandler) Archived(c echo.Context) error {
	return h.list(c, "archived", h.service.FindArchived)
}

type listFunc func(ctx context.Context, ownerID string, filters ports.ContactFilters) (*ports.ContactPage, error)

func (h *ContactHandler) list(c echo.Context, view string, fn listFunc) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	filters, err := bindContactFilters(c)
	if err != nil {
		return err
	}

	page, err := fn(c.Request().Context(), user.ID, filters)
	if err != nil {
		return err
	}

	metrics.ContactListSize.WithLabelValues(view).Observe(float64(len(page.Data)))
	return c.JSON(http.StatusOK, toContactPageResponse(page))
}

// Get handles GET /v1/contacts/:id.
//
// @Summary      Get a contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  contactResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contact, err := h.service.FindOne(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponse(contact))
}

// Update handles PUT /v1/contacts/:id. Omitted fields keep their values.
//
// @Summary      Update a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Contact ID"
// @Param        body  body      updateContactRequest  true  "Fields to change"
// @Success      200   {object}  contactResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /v1/contacts/{id} [put]
func (h *ContactHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contact, err := h.service.Update(c.Request().Context(), user.ID, c.Param("id"), toUpdateContactInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContactResponse(contact))
}

// Remove handles DELETE /v1/contacts/:id by archiving the contact.
//
// @Summary      Archive a contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  contactResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/contacts/{id} [delete]
func (h *ContactHandler) Remove(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contact, err := h.service.Remove(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.ContactsStateChangesTotal.WithLabelValues("archived").Inc()
	return c.JSON(http.StatusOK, toContactResponse(contact))
}

// Activate handles PATCH /v1/contacts/:id/activate.
//
// @Summary      Restore an archived contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  contactResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/contacts/{id}/activate [patch]
func (h *ContactHandler) Activate(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contact, err := h.service.Activate(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.ContactsStateChangesTotal.WithLabelValues("restored").Inc()
	return c.JSON(http.StatusOK, toContactResponse(contact))
}
