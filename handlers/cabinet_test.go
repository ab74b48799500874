package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"neira/models"
	"neira/services/cabinet"

	"github.com/gin-gonic/gin"
)

// stubCabinetService drives the handler tests with canned outcomes.
type stubCabinetService struct {
	cab    *models.Cabinet
	member *models.CabinetMember
	err    error
}

func (s *stubCabinetService) CreateCabinet(userID string, req models.CreateCabinetRequest) (*models.Cabinet, error) {
	return s.cab, s.err
}

func (s *stubCabinetService) GetCabinet(cabinetID string) (*models.Cabinet, error) {
	return s.cab, s.err
}

func (s *stubCabinetService) DeleteCabinet(cabinetID, actorUserID string) error { return s.err }

func (s *stubCabinetService) ListMembers(cabinetID string) ([]models.CabinetMember, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.member == nil {
		return nil, nil
	}
	return []models.CabinetMember{*s.member}, nil
}

func (s *stubCabinetService) InviteMember(cabinetID, actorUserID string, req models.InviteMemberRequest) (*models.CabinetMember, error) {
	return s.member, s.err
}

func (s *stubCabinetService) AcceptInvitation(token, userID string) (*models.CabinetMember, error) {
	return s.member, s.err
}

func (s *stubCabinetService) RemoveMember(cabinetID, actorUserID, memberID string) error {
	return s.err
}

func (s *stubCabinetService) ChangeMemberRole(cabinetID, actorUserID, memberID, newRole string) error {
	return s.err
}

func (s *stubCabinetService) RemainingSignatures(cabinetID, userID string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.member.SignaturesIncluded - s.member.SignaturesUsed, nil
}

func (s *stubCabinetService) ConsumeSignatureCredit(cabinetID, userID string) (*models.CabinetMember, error) {
	return s.member, s.err
}

// recordingBilling counts seat sync calls.
type recordingBilling struct {
	syncCalls []string
}

func (b *recordingBilling) CreateCheckoutSession(cabinetID string, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	return nil, nil
}
func (b *recordingBilling) UpdatePlan(cabinetID string, req models.UpdatePlanRequest) error {
	return nil
}
func (b *recordingBilling) CancelSubscription(cabinetID string) error { return nil }
func (b *recordingBilling) SyncSeatQuantity(cabinetID string) error {
	b.syncCalls = append(b.syncCalls, cabinetID)
	return nil
}
func (b *recordingBilling) HandleWebhookEvent(payload []byte, signature string) error { return nil }

func cabinetRouter(h *CabinetHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/cabinets", h.CreateCabinetHandler)
	r.POST("/api/cabinets/invitations/accept", h.AcceptInvitationHandler)
	r.POST("/api/cabinets/:cabinetID/members/invite", h.InviteMemberHandler)
	r.DELETE("/api/cabinets/:cabinetID/members/:memberID", h.RemoveMemberHandler)
	r.POST("/api/cabinets/:cabinetID/signatures/consume", h.ConsumeSignatureHandler)
	return r
}

func TestInviteMemberHandlerPermissionDenied(t *testing.T) {
	svc := &stubCabinetService{err: &cabinet.PermissionError{Role: cabinet.RoleStagiaire}}
	r := cabinetRouter(NewCabinetHandler(svc, nil))

	body := `{"email":"claire@example.fr","role":"Collaborateur"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cabinets/cab-1/members/invite", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403; body: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["error"] != "Les stagiaires n'ont pas accès à cette fonctionnalité" {
		t.Errorf("error = %q, want the Stagiaire denial message", resp["error"])
	}
}

func TestAcceptInvitationHandlerSyncsSeats(t *testing.T) {
	svc := &stubCabinetService{
		member: &models.CabinetMember{ID: "m-2", CabinetID: "cab-1", Role: "Collaborateur", Status: "active"},
	}
	billingStub := &recordingBilling{}
	r := cabinetRouter(NewCabinetHandler(svc, billingStub))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cabinets/invitations/accept", strings.NewReader(`{"token":"tok-abc"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if len(billingStub.syncCalls) != 1 || billingStub.syncCalls[0] != "cab-1" {
		t.Errorf("syncCalls = %v, want one call for cab-1", billingStub.syncCalls)
	}
}

func TestAcceptInvitationHandlerUnknownToken(t *testing.T) {
	svc := &stubCabinetService{err: cabinet.ErrInvitationNotFound}
	r := cabinetRouter(NewCabinetHandler(svc, &recordingBilling{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cabinets/invitations/accept", strings.NewReader(`{"token":"expired"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestConsumeSignatureHandlerQuotaExhausted(t *testing.T) {
	svc := &stubCabinetService{err: cabinet.ErrQuotaExhausted}
	r := cabinetRouter(NewCabinetHandler(svc, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cabinets/cab-1/signatures/consume", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", w.Code)
	}
}

func TestConsumeSignatureHandlerReportsUsage(t *testing.T) {
	svc := &stubCabinetService{
		member: &models.CabinetMember{SignaturesUsed: 3, SignaturesIncluded: 20},
	}
	r := cabinetRouter(NewCabinetHandler(svc, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cabinets/cab-1/signatures/consume", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["signatures_used"] != 3 || resp["signatures_included"] != 20 {
		t.Errorf("usage = %v, want used 3 / included 20", resp)
	}
}
