package handlers

import (
	"errors"
	"net/http"

	"neira/models"
	"neira/services/cabinet"
	"neira/services/pipeline"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PipelineHandler exposes the contract-generation pipeline endpoints.
type PipelineHandler struct {
	Service pipeline.PipelineService
	// Pushes, when set, notifies the session owner of a completed contract.
	Pushes cabinet.PushDispatcher
}

func NewPipelineHandler(svc pipeline.PipelineService) *PipelineHandler {
	return &PipelineHandler{Service: svc}
}

// ClarifyHandler runs the stateless clarify step.
func (h *PipelineHandler) ClarifyHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.ClarifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.Service.Clarify(c.Request.Context(), req)
	if err != nil {
		logger.Error("Clarify step failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AuditHandler runs the stateless audit step.
func (h *PipelineHandler) AuditHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.Service.Audit(c.Request.Context(), req)
	if err != nil {
		logger.Error("Audit step failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteHandler runs the stateless completion step.
func (h *PipelineHandler) CompleteHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.Service.Complete(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Complete step failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StartSessionHandler opens a new pipeline session and runs the initial
// clarification.
func (h *PipelineHandler) StartSessionHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		CabinetID    string `json:"cabinet_id" binding:"required"`
		ContractType string `json:"contractType" binding:"required"`
		Description  string `json:"description"`
		Role         string `json:"role" binding:"required,oneof=avocat notaire"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	state, err := h.Service.StartSession(c.Request.Context(), c.GetString("userID"), req.CabinetID, req.ContractType, req.Description, req.Role)
	if err != nil {
		logger.Error("Failed to start pipeline session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, state)
}

// GetSessionHandler returns the live state of a pipeline session.
func (h *PipelineHandler) GetSessionHandler(c *gin.Context) {
	state, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SubmitAnswersHandler feeds client answers back into a waiting session.
func (h *PipelineHandler) SubmitAnswersHandler(c *gin.Context) {
	var answers models.ClientAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	state, err := h.Service.SubmitAnswers(c.Request.Context(), c.Param("sessionID"), answers)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RunAuditHandler drives the bounded audit-correction loop of a session.
func (h *PipelineHandler) RunAuditHandler(c *gin.Context) {
	state, err := h.Service.RunAudit(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		if errors.Is(err, pipeline.ErrMaxAuditIterations) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "state": state})
			return
		}
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// CompleteSessionHandler injects party data into the session's contract.
func (h *PipelineHandler) CompleteSessionHandler(c *gin.Context) {
	var req struct {
		PartiesClients map[string]models.ClientFields `json:"partiesClients"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	state, err := h.Service.CompleteSession(c.Request.Context(), c.Param("sessionID"), req.PartiesClients)
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.respondSessionError(c, err)
		return
	}

	if h.Pushes != nil {
		if err := h.Pushes.DispatchPush(models.PushPayload{
			UserID: state.UserID,
			Title:  "Contrat prêt",
			Body:   "Votre contrat a été complété avec les informations clients.",
			Data:   map[string]string{"sessionId": state.ID},
		}); err != nil {
			getLogger(c).Error("Failed to dispatch completion push", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, state)
}

// SaveSnapshotHandler persists the session's live state to durable storage.
func (h *PipelineHandler) SaveSnapshotHandler(c *gin.Context) {
	if err := h.Service.SaveSnapshot(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Snapshot saved"})
}

// ResumeSessionHandler restores a snapshotted session into the live store.
func (h *PipelineHandler) ResumeSessionHandler(c *gin.Context) {
	state, err := h.Service.ResumeSession(c.Request.Context(), c.Param("snapshotID"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *PipelineHandler) respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pipeline.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, pipeline.ErrWrongStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		getLogger(c).Error("Pipeline session operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
