package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"neira/models"
	"neira/services/pipeline"

	"github.com/gin-gonic/gin"
)

// stubPipelineService returns canned responses for the handler tests.
type stubPipelineService struct {
	clarifyResp  *models.ClarifyResponse
	auditResp    *models.AuditResponse
	completeResp *models.CompleteResponse
	state        *models.PipelineState
	err          error
}

func (s *stubPipelineService) Clarify(ctx context.Context, req models.ClarifyRequest) (*models.ClarifyResponse, error) {
	return s.clarifyResp, s.err
}

func (s *stubPipelineService) Audit(ctx context.Context, req models.AuditRequest) (*models.AuditResponse, error) {
	return s.auditResp, s.err
}

func (s *stubPipelineService) Complete(ctx context.Context, req models.CompleteRequest) (*models.CompleteResponse, error) {
	return s.completeResp, s.err
}

func (s *stubPipelineService) StartSession(ctx context.Context, userID, cabinetID, contractType, description, role string) (*models.PipelineState, error) {
	return s.state, s.err
}

func (s *stubPipelineService) SubmitAnswers(ctx context.Context, sessionID string, answers models.ClientAnswers) (*models.PipelineState, error) {
	return s.state, s.err
}

func (s *stubPipelineService) RunAudit(ctx context.Context, sessionID string) (*models.PipelineState, error) {
	return s.state, s.err
}

func (s *stubPipelineService) CompleteSession(ctx context.Context, sessionID string, partiesClients map[string]models.ClientFields) (*models.PipelineState, error) {
	return s.state, s.err
}

func (s *stubPipelineService) GetSession(ctx context.Context, sessionID string) (*models.PipelineState, error) {
	return s.state, s.err
}

func (s *stubPipelineService) SaveSnapshot(ctx context.Context, sessionID string) error {
	return s.err
}

func (s *stubPipelineService) ResumeSession(ctx context.Context, snapshotID string) (*models.PipelineState, error) {
	return s.state, s.err
}

func pipelineRouter(svc pipeline.PipelineService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPipelineHandler(svc)
	r := gin.New()
	r.POST("/api/pipeline/clarify", h.ClarifyHandler)
	r.POST("/api/pipeline/audit", h.AuditHandler)
	r.POST("/api/pipeline/complete", h.CompleteHandler)
	r.POST("/api/pipeline/sessions/:sessionID/audit", h.RunAuditHandler)
	return r
}

func TestClarifyHandlerSuccess(t *testing.T) {
	svc := &stubPipelineService{
		clarifyResp: &models.ClarifyResponse{
			Success:       true,
			Brief:         &models.ContractBrief{ContractType: "bail_commercial"},
			NeedsMoreInfo: true,
			Questions: []models.Question{
				{ID: "q_0", FieldName: "montant_loyer", Required: true},
			},
		},
	}
	r := pipelineRouter(svc)

	body := `{"contractType":"bail_commercial","description":"Bail local Lyon","role":"avocat"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/clarify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp models.ClarifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !resp.Success || !resp.NeedsMoreInfo || len(resp.Questions) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestClarifyHandlerMissingRole(t *testing.T) {
	r := pipelineRouter(&stubPipelineService{})

	body := `{"contractType":"bail_commercial"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/clarify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if success, ok := resp["success"].(bool); !ok || success {
		t.Errorf("success = %v, want false", resp["success"])
	}
}

func TestClarifyHandlerServiceError(t *testing.T) {
	r := pipelineRouter(&stubPipelineService{err: pipeline.ErrInvalidAIResponse})

	body := `{"contractType":"vente","role":"notaire"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/clarify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if success, ok := resp["success"].(bool); !ok || success {
		t.Errorf("success = %v, want false", resp["success"])
	}
	if resp["error"] != "Format de réponse invalide de l'IA" {
		t.Errorf("error = %q, want the invalid-response message", resp["error"])
	}
}

func TestCompleteHandlerMissingFields(t *testing.T) {
	r := pipelineRouter(&stubPipelineService{err: pipeline.ErrMissingFields})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/complete", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["error"] != "contractContent et partiesClients requis" {
		t.Errorf("error = %q, want the missing-fields message", resp["error"])
	}
}

func TestCompleteHandlerSuccess(t *testing.T) {
	r := pipelineRouter(&stubPipelineService{
		completeResp: &models.CompleteResponse{CompletedContract: "CONTRAT\n\nLe Bailleur: Jean Dupont"},
	})

	body := `{"contractContent":"CONTRAT","partiesClients":{"Le Bailleur":{"nom":"Dupont","prenom":"Jean"}}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/complete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp models.CompleteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !strings.Contains(resp.CompletedContract, "Jean Dupont") {
		t.Errorf("completedContract = %q", resp.CompletedContract)
	}
}

func TestRunAuditHandlerBounded(t *testing.T) {
	r := pipelineRouter(&stubPipelineService{
		err:   pipeline.ErrMaxAuditIterations,
		state: &models.PipelineState{ID: "s-1", Step: models.StepAuditing, AuditIterations: 3},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/sessions/s-1/audit", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}
