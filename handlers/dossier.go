package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	dossierRepo "neira/database/repository/dossier"
	"neira/config"
	"neira/models"
	"neira/services/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DossierHandler exposes dossier and document endpoints.
type DossierHandler struct {
	Repo    dossierRepo.DossierRepository
	Storage storage.StorageService
}

func NewDossierHandler(repo dossierRepo.DossierRepository, storageSvc storage.StorageService) *DossierHandler {
	return &DossierHandler{Repo: repo, Storage: storageSvc}
}

// CreateDossierRequest is the creation payload.
type CreateDossierRequest struct {
	Name      string   `json:"name" binding:"required"`
	ClientIDs []string `json:"client_ids"`
}

// CreateDossierHandler opens a new dossier in the cabinet.
func (h *DossierHandler) CreateDossierHandler(c *gin.Context) {
	var req CreateDossierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	dossier := &models.Dossier{
		ID:        uuid.New().String(),
		CabinetID: c.GetString("cabinetID"),
		CreatedBy: c.GetString("userID"),
		Name:      req.Name,
		Status:    "ouvert",
		ClientIDs: req.ClientIDs,
	}
	if err := h.Repo.Create(dossier); err != nil {
		getLogger(c).Error("Failed to create dossier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dossier"})
		return
	}
	c.JSON(http.StatusCreated, dossier)
}

// ListDossiersHandler returns the cabinet's dossiers.
func (h *DossierHandler) ListDossiersHandler(c *gin.Context) {
	dossiers, err := h.Repo.ListByCabinet(c.GetString("cabinetID"))
	if err != nil {
		getLogger(c).Error("Failed to list dossiers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list dossiers"})
		return
	}
	c.JSON(http.StatusOK, dossiers)
}

// getOwnedDossier fetches the dossier and checks it belongs to the caller's
// cabinet. Responds and returns nil when it does not.
func (h *DossierHandler) getOwnedDossier(c *gin.Context) *models.Dossier {
	dossier, err := h.Repo.GetByID(c.Param("dossierID"))
	if err != nil {
		getLogger(c).Error("Failed to fetch dossier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dossier"})
		return nil
	}
	if dossier == nil || dossier.CabinetID != c.GetString("cabinetID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dossier introuvable"})
		return nil
	}
	return dossier
}

// GetDossierHandler returns one dossier.
func (h *DossierHandler) GetDossierHandler(c *gin.Context) {
	dossier := h.getOwnedDossier(c)
	if dossier == nil {
		return
	}
	c.JSON(http.StatusOK, dossier)
}

// UpdateDossierRequest is the update payload.
type UpdateDossierRequest struct {
	Name       string   `json:"name"`
	Status     string   `json:"status" binding:"omitempty,oneof=ouvert clos"`
	ClientIDs  []string `json:"client_ids"`
	ContratIDs []string `json:"contrat_ids"`
}

// UpdateDossierHandler updates a dossier's metadata and attachments.
func (h *DossierHandler) UpdateDossierHandler(c *gin.Context) {
	dossier := h.getOwnedDossier(c)
	if dossier == nil {
		return
	}

	var req UpdateDossierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Name != "" {
		dossier.Name = req.Name
	}
	if req.Status != "" {
		dossier.Status = req.Status
	}
	if req.ClientIDs != nil {
		dossier.ClientIDs = req.ClientIDs
	}
	if req.ContratIDs != nil {
		dossier.ContratIDs = req.ContratIDs
	}
	if err := h.Repo.Update(dossier); err != nil {
		getLogger(c).Error("Failed to update dossier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dossier"})
		return
	}
	c.JSON(http.StatusOK, dossier)
}

// DeleteDossierHandler removes a dossier and its stored documents.
func (h *DossierHandler) DeleteDossierHandler(c *gin.Context) {
	dossier := h.getOwnedDossier(c)
	if dossier == nil {
		return
	}

	for _, doc := range dossier.Documents {
		if err := h.Storage.DeleteDocument(c.Request.Context(), doc.StorageID); err != nil {
			getLogger(c).Error("Failed to delete stored document",
				zap.String("documentID", doc.ID), zap.Error(err))
		}
	}
	if err := h.Repo.Delete(dossier.ID); err != nil {
		getLogger(c).Error("Failed to delete dossier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dossier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dossier supprimé"})
}

// UploadDocumentHandler stores an uploaded file encrypted under the dossier.
func (h *DossierHandler) UploadDocumentHandler(c *gin.Context) {
	dossier := h.getOwnedDossier(c)
	if dossier == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		getLogger(c).Error("Failed to store upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	defer os.Remove(tmpPath)

	publicID, err := h.Storage.UploadDocument(c.Request.Context(), tmpPath, dossier.CabinetID, dossier.ID, config.AppConfig.DocumentEncryptionKey)
	if err != nil {
		getLogger(c).Error("Failed to upload document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document"})
		return
	}

	doc := models.Document{
		ID:         uuid.New().String(),
		Name:       fileHeader.Filename,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		StorageID:  publicID,
		UploadedBy: c.GetString("userID"),
		UploadedAt: time.Now(),
	}
	if err := h.Repo.AddDocument(dossier.ID, doc); err != nil {
		getLogger(c).Error("Failed to attach document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach document"})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// GetDocumentURLHandler returns a short-lived signed download URL.
func (h *DossierHandler) GetDocumentURLHandler(c *gin.Context) {
	dossier := h.getOwnedDossier(c)
	if dossier == nil {
		return
	}

	documentID := c.Param("documentID")
	for _, doc := range dossier.Documents {
		if doc.ID == documentID {
			url, err := h.Storage.GetSecureDownloadURL(c.Request.Context(), doc.StorageID, 15*time.Minute)
			if err != nil {
				getLogger(c).Error("Failed to sign download URL", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": url})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Document introuvable"})
}

// DeleteDocumentHandler removes a document from storage and the dossier.
func (h *DossierHandler) DeleteDocumentHandler(c *gin.Context) {
	dossier := h.getOwnedDossier(c)
	if dossier == nil {
		return
	}

	documentID := c.Param("documentID")
	for _, doc := range dossier.Documents {
		if doc.ID == documentID {
			if err := h.Storage.DeleteDocument(c.Request.Context(), doc.StorageID); err != nil {
				getLogger(c).Error("Failed to delete stored document", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
				return
			}
			if err := h.Repo.RemoveDocument(dossier.ID, documentID); err != nil {
				getLogger(c).Error("Failed to detach document", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach document"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Document supprimé"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Document introuvable"})
}
