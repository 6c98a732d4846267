package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/You2499/settleease/internal/errors"
	"github.com/You2499/settleease/internal/services"
)

// PersonHandler handles person-related requests
type PersonHandler struct {
	personService services.PersonServicer
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(personService services.PersonServicer) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// PersonRequest represents the create/update person payload
type PersonRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreatePerson adds a person to the group
// @Summary     Create a person
// @Description Add a person to the group. Names must be unique.
// @Tags        people
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PersonRequest true "Person data"
// @Success     201 {object} models.Person "Person created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /people [post]
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	person, err := h.personService.CreatePerson(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, person)
}

// ListPeople lists everyone in the group
// @Summary     List people
// @Description List every person in the group, sorted by name
// @Tags        people
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Person "People"
// @Router      /people [get]
func (h *PersonHandler) ListPeople(c *gin.Context) {
	people, err := h.personService.ListPeople()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, people)
}

// GetPerson retrieves one person
// @Summary     Get a person
// @Tags        people
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Person ID"
// @Success     200 {object} models.Person "Person"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /people/{id} [get]
func (h *PersonHandler) GetPerson(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	person, err := h.personService.GetPersonByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, person)
}

// UpdatePerson renames a person
// @Summary     Rename a person
// @Tags        people
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Person ID"
// @Param       request body PersonRequest true "New name"
// @Success     200 {object} models.Person "Person updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /people/{id} [put]
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	person, err := h.personService.UpdatePerson(id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, person)
}

// DeletePerson removes a person
// @Summary     Delete a person
// @Description Remove a person. Fails while any expense or settlement still references them.
// @Tags        people
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Person ID"
// @Success     204 "Person deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Person in use"
// @Router      /people/{id} [delete]
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.personService.DeletePerson(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
