package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "contactbook/internal/errors"
	"contactbook/internal/model"
	"contactbook/internal/service"
)

// ContactHandler handles the owner-scoped contact endpoints.
type ContactHandler struct {
	contacts service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contacts service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// CreateContactResponse is returned after a contact is created.
type CreateContactResponse struct {
	Message string         `json:"message"`
	Contact *model.Contact `json:"contact"`
}

// UpdateContactResponse is returned after a contact is updated.
type UpdateContactResponse struct {
	Message        string         `json:"message"`
	UpdatedContact *model.Contact `json:"updatedContact"`
}

// List godoc
// @Summary List contacts
// @Description Returns one page of the caller's contacts, newest first.
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} model.ContactPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	var page, limit int
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError(); err != nil {
		return apperrors.ErrInvalidPagination
	}

	result, err := h.contacts.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Create contact
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contact body model.ContactFields true "Contact"
// @Success 201 {object} CreateContactResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contacts/create [post]
func (h *ContactHandler) Create(c echo.Context) error {
	var fields model.ContactFields
	if err := c.Bind(&fields); err != nil {
		return apperrors.ErrInvalidBody
	}

	contact, err := h.contacts.Create(c.Request().Context(), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreateContactResponse{
		Message: "Contact created successfully",
		Contact: contact,
	})
}

// Get godoc
// @Summary Get contact
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} model.Contact
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contacts/contact/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	contact, err := h.contacts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contact)
}

// Update godoc
// @Summary Update contact
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Param contact body model.ContactFields true "Contact"
// @Success 200 {object} UpdateContactResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contacts/update/{id} [put]
func (h *ContactHandler) Update(c echo.Context) error {
	var fields model.ContactFields
	if err := (&echo.DefaultBinder{}).BindBody(c, &fields); err != nil {
		return apperrors.ErrInvalidBody
	}

	contact, err := h.contacts.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UpdateContactResponse{
		Message:        "Contact updated successfully",
		UpdatedContact: contact,
	})
}

// Delete godoc
// @Summary Delete contact
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contacts/delete/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	if err := h.contacts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Contact deleted successfully"})
}
