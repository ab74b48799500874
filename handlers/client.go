package handlers

import (
	"net/http"

	clientRepo "neira/database/repository/client"
	"neira/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientHandler exposes CRUD endpoints for a cabinet's client records.
type ClientHandler struct {
	Repo clientRepo.ClientRepository
}

func NewClientHandler(repo clientRepo.ClientRepository) *ClientHandler {
	return &ClientHandler{Repo: repo}
}

// CreateClientHandler creates a client record in the cabinet.
func (h *ClientHandler) CreateClientHandler(c *gin.Context) {
	var fields models.ClientFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	client := &models.Client{
		ID:        uuid.New().String(),
		CabinetID: c.GetString("cabinetID"),
		CreatedBy: c.GetString("userID"),
		Fields:    fields,
	}
	if err := h.Repo.Create(client); err != nil {
		getLogger(c).Error("Failed to create client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}
	c.JSON(http.StatusCreated, client)
}

// ListClientsHandler returns every client of the cabinet.
func (h *ClientHandler) ListClientsHandler(c *gin.Context) {
	clients, err := h.Repo.ListByCabinet(c.GetString("cabinetID"))
	if err != nil {
		getLogger(c).Error("Failed to list clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientHandler returns one client record.
func (h *ClientHandler) GetClientHandler(c *gin.Context) {
	client, err := h.Repo.GetByID(c.Param("clientID"))
	if err != nil {
		getLogger(c).Error("Failed to fetch client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}
	if client == nil || client.CabinetID != c.GetString("cabinetID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client introuvable"})
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClientHandler replaces a client's fields.
func (h *ClientHandler) UpdateClientHandler(c *gin.Context) {
	client, err := h.Repo.GetByID(c.Param("clientID"))
	if err != nil {
		getLogger(c).Error("Failed to fetch client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}
	if client == nil || client.CabinetID != c.GetString("cabinetID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client introuvable"})
		return
	}

	var fields models.ClientFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	client.Fields = fields
	if err := h.Repo.Update(client); err != nil {
		getLogger(c).Error("Failed to update client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClientHandler removes a client record.
func (h *ClientHandler) DeleteClientHandler(c *gin.Context) {
	client, err := h.Repo.GetByID(c.Param("clientID"))
	if err != nil {
		getLogger(c).Error("Failed to fetch client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}
	if client == nil || client.CabinetID != c.GetString("cabinetID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client introuvable"})
		return
	}

	if err := h.Repo.Delete(client.ID); err != nil {
		getLogger(c).Error("Failed to delete client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client supprimé"})
}
