package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skychimp/newsletter-service/internal/models"
	"github.com/skychimp/newsletter-service/internal/services"
)

type ClientHandler struct {
	clientService *services.ClientService
}

func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// parseID parses a numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// CreateClient godoc
// @Summary Create a new client
// @Description Register a newsletter recipient owned by the current user
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateClientRequest true "Client creation request"
// @Success 201 {object} models.ClientResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	client, err := h.clientService.CreateClient(user, &req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients godoc
// @Summary List own clients
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ClientResponse
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/clients [get]
func (h *ClientHandler) GetClients(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	clients, err := h.clientService.GetClientsByUser(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get clients", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClientByID godoc
// @Summary Get a client by ID
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} models.ClientResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/clients/{id} [get]
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetClientByID(user, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if strings.Contains(err.Error(), "permission denied") {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get client", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient godoc
// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Param request body models.UpdateClientRequest true "Client update request"
// @Success 200 {object} models.ClientResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	client, err := h.clientService.UpdateClient(user, id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if strings.Contains(err.Error(), "permission denied") {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient godoc
// @Summary Delete a client
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(user, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if strings.Contains(err.Error(), "permission denied") {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}
