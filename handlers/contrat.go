package handlers

import (
	"net/http"

	contratRepo "neira/database/repository/contrat"
	"neira/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContratHandler exposes CRUD endpoints for contracts.
type ContratHandler struct {
	Repo contratRepo.ContratRepository
}

func NewContratHandler(repo contratRepo.ContratRepository) *ContratHandler {
	return &ContratHandler{Repo: repo}
}

// CreateContratRequest is the creation payload.
type CreateContratRequest struct {
	Type      string `json:"type" binding:"required"`
	DossierID string `json:"dossier_id"`
	Contenu   string `json:"contenu"`
}

// CreateContratHandler creates a contract draft in the cabinet.
func (h *ContratHandler) CreateContratHandler(c *gin.Context) {
	var req CreateContratRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contrat := &models.Contrat{
		ID:        uuid.New().String(),
		CabinetID: c.GetString("cabinetID"),
		DossierID: req.DossierID,
		CreatedBy: c.GetString("userID"),
		Type:      req.Type,
		Contenu:   req.Contenu,
		Status:    models.ContratStatusBrouillon,
	}
	if err := h.Repo.Create(contrat); err != nil {
		getLogger(c).Error("Failed to create contrat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contrat"})
		return
	}
	c.JSON(http.StatusCreated, contrat)
}

// ListContratsHandler returns the cabinet's contracts, optionally filtered by
// dossier.
func (h *ContratHandler) ListContratsHandler(c *gin.Context) {
	var (
		contrats []models.Contrat
		err      error
	)
	if dossierID := c.Query("dossier_id"); dossierID != "" {
		contrats, err = h.Repo.ListByDossier(dossierID)
	} else {
		contrats, err = h.Repo.ListByCabinet(c.GetString("cabinetID"))
	}
	if err != nil {
		getLogger(c).Error("Failed to list contrats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contrats"})
		return
	}
	c.JSON(http.StatusOK, contrats)
}

// GetContratHandler returns one contract.
func (h *ContratHandler) GetContratHandler(c *gin.Context) {
	contrat, err := h.Repo.GetByID(c.Param("contratID"))
	if err != nil {
		getLogger(c).Error("Failed to fetch contrat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contrat"})
		return
	}
	if contrat == nil || contrat.CabinetID != c.GetString("cabinetID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrat introuvable"})
		return
	}
	c.JSON(http.StatusOK, contrat)
}

// UpdateContratRequest is the update payload.
type UpdateContratRequest struct {
	Contenu        string            `json:"contenu"`
	Status         string            `json:"status" binding:"omitempty,oneof=brouillon genere complete signe"`
	PartiesClients map[string]string `json:"parties_clients"`
}

// UpdateContratHandler updates a contract's content, status or party bindings.
func (h *ContratHandler) UpdateContratHandler(c *gin.Context) {
	contrat, err := h.Repo.GetByID(c.Param("contratID"))
	if err != nil {
		getLogger(c).Error("Failed to fetch contrat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contrat"})
		return
	}
	if contrat == nil || contrat.CabinetID != c.GetString("cabinetID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrat introuvable"})
		return
	}

	var req UpdateContratRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Contenu != "" {
		contrat.Contenu = req.Contenu
	}
	if req.Status != "" {
		contrat.Status = req.Status
	}
	if req.PartiesClients != nil {
		contrat.PartiesClients = req.PartiesClients
	}
	if err := h.Repo.Update(contrat); err != nil {
		getLogger(c).Error("Failed to update contrat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contrat"})
		return
	}
	c.JSON(http.StatusOK, contrat)
}

// DeleteContratHandler removes a contract.
func (h *ContratHandler) DeleteContratHandler(c *gin.Context) {
	contrat, err := h.Repo.GetByID(c.Param("contratID"))
	if err != nil {
		getLogger(c).Error("Failed to fetch contrat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contrat"})
		return
	}
	if contrat == nil || contrat.CabinetID != c.GetString("cabinetID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrat introuvable"})
		return
	}

	if err := h.Repo.Delete(contrat.ID); err != nil {
		getLogger(c).Error("Failed to delete contrat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contrat"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contrat supprimé"})
}
