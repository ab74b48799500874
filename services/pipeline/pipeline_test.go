package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"neira/models"
)

// scriptedLLM replays canned responses in order, recording each call.
type scriptedLLM struct {
	responses []string
	calls     []llmCall
	err       error
}

type llmCall struct {
	systemPrompt string
	userPrompt   string
	temperature  float32
}

func (f *scriptedLLM) GenerateContent(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, *models.TokenUsage, error) {
	f.calls = append(f.calls, llmCall{systemPrompt, userPrompt, temperature})
	if f.err != nil {
		return "", nil, f.err
	}
	if len(f.responses) == 0 {
		return "", nil, errors.New("scripted LLM exhausted")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, &models.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}, nil
}

// memoryStateStore is an in-memory StateStore for tests.
type memoryStateStore struct {
	mu     sync.Mutex
	states map[string]*models.PipelineState
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: make(map[string]*models.PipelineState)}
}

func (m *memoryStateStore) Get(ctx context.Context, sessionID string) (*models.PipelineState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *state
	return &copied, nil
}

func (m *memoryStateStore) Set(ctx context.Context, state *models.PipelineState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *state
	m.states[state.ID] = &copied
	return nil
}

func (m *memoryStateStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

// memorySnapshotRepo is an in-memory PipelineRepository for tests.
type memorySnapshotRepo struct {
	snapshots map[string]*models.PipelineState
}

func newMemorySnapshotRepo() *memorySnapshotRepo {
	return &memorySnapshotRepo{snapshots: make(map[string]*models.PipelineState)}
}

func (m *memorySnapshotRepo) Save(ctx context.Context, state *models.PipelineState) error {
	copied := *state
	m.snapshots[state.ID] = &copied
	return nil
}

func (m *memorySnapshotRepo) GetByID(ctx context.Context, id string) (*models.PipelineState, error) {
	state, ok := m.snapshots[id]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (m *memorySnapshotRepo) ListByUser(ctx context.Context, userID string) ([]models.PipelineState, error) {
	var out []models.PipelineState
	for _, s := range m.snapshots {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memorySnapshotRepo) Delete(ctx context.Context, id string) error {
	delete(m.snapshots, id)
	return nil
}

func newTestService(llm *scriptedLLM) (*DefaultPipelineService, *memoryStateStore, *memorySnapshotRepo) {
	store := newMemoryStateStore()
	repo := newMemorySnapshotRepo()
	return NewDefaultPipelineService(llm, store, repo), store, repo
}

const briefWithBlockingJSON = "```json\n" + `{
	"contractType": "bail_commercial",
	"parties": [{"role": "Le Bailleur"}, {"role": "Le Preneur"}],
	"context": {},
	"pointsSensibles": ["dépôt de garantie"],
	"missingInfo": [
		{"category": "Montants", "field": "montant_loyer", "description": "Le montant du loyer mensuel", "priority": "bloquant"},
		{"category": "Durée", "field": "duree_bail", "description": "La durée du bail", "priority": "important"}
	],
	"providedInfo": {}
}` + "\n```"

const briefCompleteJSON = `{
	"contractType": "bail_commercial",
	"parties": [{"role": "Le Bailleur"}, {"role": "Le Preneur"}],
	"context": {},
	"pointsSensibles": [],
	"missingInfo": [],
	"providedInfo": {"montant_loyer": 1200}
}`

const schemaJSON = `{
	"contractType": "bail_commercial",
	"clientRoles": ["Le Bailleur", "Le Preneur"],
	"fields": [
		{"id": "montant_loyer", "label": "Loyer mensuel", "type": "number", "required": true}
	]
}`

const cleanAuditJSON = `{
	"issues": [],
	"hasCriticalIssues": false,
	"suggestions": []
}`

const blockingAuditJSON = `{
	"issues": [{"id": "issue-1", "severity": "bloquant", "category": "champ_manquant", "title": "Dépôt de garantie absent", "description": "Le schéma ne couvre pas le dépôt de garantie"}],
	"hasCriticalIssues": false,
	"suggestions": [],
	"correctedSchema": ` + schemaJSON + `
}`

const contractDraft = "CONTRAT DE BAIL COMMERCIAL\n\nLe Bailleur: [À COMPLÉTER]\nLoyer: 1200 EUR"

func TestClarifyNeedsMoreInfo(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefWithBlockingJSON}}
	svc, _, _ := newTestService(llm)

	resp, err := svc.Clarify(context.Background(), models.ClarifyRequest{
		ContractType: "bail_commercial",
		Description:  "Bail pour un local à Lyon",
		Role:         "avocat",
	})
	if err != nil {
		t.Fatalf("Clarify failed: %v", err)
	}
	if !resp.Success {
		t.Error("success should be true")
	}
	if !resp.NeedsMoreInfo {
		t.Error("needsMoreInfo should be true when info is missing")
	}
	if len(resp.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(resp.Questions))
	}
	if !resp.Questions[0].Required {
		t.Error("blocking question should be required")
	}
	if resp.TokensUsed == nil || resp.TokensUsed.TotalTokens != 150 {
		t.Error("token usage should be propagated")
	}
	if llm.calls[0].temperature != clarifyTemperature {
		t.Errorf("clarify temperature = %v, want %v", llm.calls[0].temperature, clarifyTemperature)
	}
}

func TestClarifyCompleteBrief(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefCompleteJSON}}
	svc, _, _ := newTestService(llm)

	resp, err := svc.Clarify(context.Background(), models.ClarifyRequest{
		ContractType: "bail_commercial",
		Role:         "notaire",
	})
	if err != nil {
		t.Fatalf("Clarify failed: %v", err)
	}
	if resp.NeedsMoreInfo {
		t.Error("needsMoreInfo should be false for a complete brief")
	}
	if len(resp.Questions) != 0 {
		t.Errorf("got %d questions, want 0", len(resp.Questions))
	}
}

func TestClarifyInvalidModelOutput(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"désolé, je ne peux pas"}}
	svc, _, _ := newTestService(llm)

	_, err := svc.Clarify(context.Background(), models.ClarifyRequest{ContractType: "vente", Role: "avocat"})
	if !errors.Is(err, ErrInvalidAIResponse) {
		t.Fatalf("error = %v, want ErrInvalidAIResponse", err)
	}
}

func TestAuditDerivesShouldRetry(t *testing.T) {
	llm := &scriptedLLM{responses: []string{blockingAuditJSON}}
	svc, _, _ := newTestService(llm)

	schema := &models.FormSchema{ContractType: "bail_commercial", Fields: []models.FormField{{ID: "montant_loyer"}}}
	resp, err := svc.Audit(context.Background(), models.AuditRequest{
		Schema:       schema,
		Brief:        &models.ContractBrief{ContractType: "bail_commercial"},
		ContractType: "bail_commercial",
		Role:         "avocat",
	})
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if !resp.Report.ShouldRetry {
		t.Error("a blocking issue must force shouldRetry even without hasCriticalIssues")
	}
	if resp.Report.Timestamp == "" || resp.Report.SchemaVersion != "1.0" {
		t.Error("report metadata should be stamped")
	}
	if llm.calls[0].temperature != auditTemperature {
		t.Errorf("audit temperature = %v, want %v", llm.calls[0].temperature, auditTemperature)
	}
}

func TestAuditCleanReport(t *testing.T) {
	llm := &scriptedLLM{responses: []string{cleanAuditJSON}}
	svc, _, _ := newTestService(llm)

	resp, err := svc.Audit(context.Background(), models.AuditRequest{
		Schema:       &models.FormSchema{Fields: []models.FormField{{ID: "f"}}},
		Brief:        &models.ContractBrief{},
		ContractType: "vente",
		Role:         "notaire",
	})
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if resp.Report.ShouldRetry {
		t.Error("clean report must not retry")
	}
	if resp.Report.Issues == nil || resp.Report.Suggestions == nil {
		t.Error("nil slices should be normalized to empty")
	}
}

func TestCompleteRequiresFields(t *testing.T) {
	svc, _, _ := newTestService(&scriptedLLM{})

	_, err := svc.Complete(context.Background(), models.CompleteRequest{})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("error = %v, want ErrMissingFields", err)
	}

	_, err = svc.Complete(context.Background(), models.CompleteRequest{ContractContent: "texte"})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("error without parties = %v, want ErrMissingFields", err)
	}
}

func TestCompleteInjectsParties(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"CONTRAT\n\nLe Bailleur: Jean Dupont\n"}}
	svc, _, _ := newTestService(llm)

	resp, err := svc.Complete(context.Background(), models.CompleteRequest{
		ContractContent: contractDraft,
		PartiesClients: map[string]models.ClientFields{
			"Le Bailleur": {Nom: "Dupont", Prenom: "Jean", Ville: "Lyon"},
		},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.CompletedContract != "CONTRAT\n\nLe Bailleur: Jean Dupont" {
		t.Errorf("completed contract not trimmed: %q", resp.CompletedContract)
	}

	call := llm.calls[0]
	if !strings.Contains(call.systemPrompt, "Dupont") || !strings.Contains(call.systemPrompt, "Lyon") {
		t.Error("system prompt should carry the party data")
	}
	if strings.Contains(call.systemPrompt, "SIRET") {
		t.Error("absent fields must not appear in the party data")
	}
	if call.temperature != completeTemperature {
		t.Errorf("complete temperature = %v, want %v", call.temperature, completeTemperature)
	}
}

func TestStartSessionAwaitsAnswers(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefWithBlockingJSON}}
	svc, store, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "bail_commercial", "Bail pour un local", "avocat")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if state.Step != models.StepAwaitingAnswers {
		t.Errorf("step = %q, want %q", state.Step, models.StepAwaitingAnswers)
	}
	if len(state.Questions) != 2 {
		t.Errorf("got %d questions, want 2", len(state.Questions))
	}

	stored, err := store.Get(context.Background(), state.ID)
	if err != nil {
		t.Fatalf("state not stored: %v", err)
	}
	if stored.Step != models.StepAwaitingAnswers {
		t.Errorf("stored step = %q, want %q", stored.Step, models.StepAwaitingAnswers)
	}
}

func TestStartSessionStraightToAudit(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefCompleteJSON, schemaJSON}}
	svc, _, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "bail_commercial", "", "notaire")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if state.Step != models.StepAuditing {
		t.Errorf("step = %q, want %q", state.Step, models.StepAuditing)
	}
	if state.FormSchema == nil || len(state.FormSchema.Fields) == 0 {
		t.Error("schema should be generated when the brief is complete")
	}
}

func TestSubmitAnswersAdvances(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefWithBlockingJSON, schemaJSON}}
	svc, _, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "bail_commercial", "Bail", "avocat")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	// Answer both missing fields: nothing blocking remains.
	state, err = svc.SubmitAnswers(context.Background(), state.ID, models.ClientAnswers{
		"montant_loyer": 1200,
		"duree_bail":    "9 ans",
	})
	if err != nil {
		t.Fatalf("SubmitAnswers failed: %v", err)
	}
	if state.Step != models.StepAuditing {
		t.Errorf("step = %q, want %q", state.Step, models.StepAuditing)
	}
	if len(state.Brief.MissingInfo) != 0 {
		t.Errorf("missingInfo should be drained, still has %d entries", len(state.Brief.MissingInfo))
	}
	if state.Brief.ProvidedInfo["montant_loyer"] == nil {
		t.Error("answers should be merged into providedInfo")
	}
}

func TestSubmitAnswersWrongStep(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefCompleteJSON, schemaJSON}}
	svc, _, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "vente", "", "avocat")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	_, err = svc.SubmitAnswers(context.Background(), state.ID, models.ClientAnswers{"x": 1})
	if !errors.Is(err, ErrWrongStep) {
		t.Fatalf("error = %v, want ErrWrongStep", err)
	}
}

func TestRunAuditSuccess(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefCompleteJSON, schemaJSON, cleanAuditJSON, contractDraft}}
	svc, _, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "bail_commercial", "", "avocat")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	state, err = svc.RunAudit(context.Background(), state.ID)
	if err != nil {
		t.Fatalf("RunAudit failed: %v", err)
	}
	if state.Step != models.StepCompleting {
		t.Errorf("step = %q, want %q", state.Step, models.StepCompleting)
	}
	if state.AuditIterations != 1 {
		t.Errorf("auditIterations = %d, want 1", state.AuditIterations)
	}
	if !strings.Contains(state.Contract, "[À COMPLÉTER]") {
		t.Error("generated contract should carry placeholder tokens")
	}
}

func TestRunAuditRetriesThenConverges(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefCompleteJSON, schemaJSON, blockingAuditJSON, cleanAuditJSON, contractDraft}}
	svc, _, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "bail_commercial", "", "avocat")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	state, err = svc.RunAudit(context.Background(), state.ID)
	if err != nil {
		t.Fatalf("RunAudit failed: %v", err)
	}
	if state.AuditIterations != 2 {
		t.Errorf("auditIterations = %d, want 2", state.AuditIterations)
	}
	if state.Step != models.StepCompleting {
		t.Errorf("step = %q, want %q", state.Step, models.StepCompleting)
	}
}

func TestRunAuditBounded(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		briefCompleteJSON, schemaJSON,
		blockingAuditJSON, blockingAuditJSON, blockingAuditJSON,
	}}
	svc, store, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "bail_commercial", "", "avocat")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	state, err = svc.RunAudit(context.Background(), state.ID)
	if !errors.Is(err, ErrMaxAuditIterations) {
		t.Fatalf("error = %v, want ErrMaxAuditIterations", err)
	}
	if state == nil || state.AuditIterations != maxAuditIterations {
		t.Fatalf("auditIterations should reach the bound")
	}

	// The state survives for inspection and remains at the audit step.
	stored, err := store.Get(context.Background(), state.ID)
	if err != nil {
		t.Fatalf("state should still be stored: %v", err)
	}
	if stored.Step != models.StepAuditing {
		t.Errorf("stored step = %q, want %q", stored.Step, models.StepAuditing)
	}
}

func TestRunAuditNoCorrectedSchema(t *testing.T) {
	const uncorrectableAuditJSON = `{
		"issues": [{"id": "issue-1", "severity": "bloquant", "category": "incohérence", "title": "Incohérence", "description": "Champs contradictoires"}],
		"hasCriticalIssues": true,
		"suggestions": []
	}`
	llm := &scriptedLLM{responses: []string{briefCompleteJSON, schemaJSON, uncorrectableAuditJSON}}
	svc, _, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "vente", "", "notaire")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	state, err = svc.RunAudit(context.Background(), state.ID)
	if !errors.Is(err, ErrMaxAuditIterations) {
		t.Fatalf("error = %v, want ErrMaxAuditIterations", err)
	}
	if state.AuditIterations != 1 {
		t.Errorf("auditIterations = %d, want 1 (no corrected schema to apply)", state.AuditIterations)
	}
}

func TestCompleteSessionFullRun(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		briefCompleteJSON, schemaJSON, cleanAuditJSON, contractDraft,
		"CONTRAT DE BAIL COMMERCIAL\n\nLe Bailleur: Jean Dupont\nLoyer: 1200 EUR",
	}}
	svc, _, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "bail_commercial", "", "avocat")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if state, err = svc.RunAudit(context.Background(), state.ID); err != nil {
		t.Fatalf("RunAudit failed: %v", err)
	}

	state, err = svc.CompleteSession(context.Background(), state.ID, map[string]models.ClientFields{
		"Le Bailleur": {Nom: "Dupont", Prenom: "Jean"},
	})
	if err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}
	if state.Step != models.StepComplete {
		t.Errorf("step = %q, want %q", state.Step, models.StepComplete)
	}
	if strings.Contains(state.Contract, "[À COMPLÉTER]") {
		t.Error("completed contract should not retain placeholders for known parties")
	}
	if len(state.History) == 0 {
		t.Error("history should record the transitions")
	}
}

func TestCompleteSessionWithoutParties(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefCompleteJSON, schemaJSON, cleanAuditJSON, contractDraft}}
	svc, _, _ := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "vente", "", "avocat")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if state, err = svc.RunAudit(context.Background(), state.ID); err != nil {
		t.Fatalf("RunAudit failed: %v", err)
	}

	_, err = svc.CompleteSession(context.Background(), state.ID, nil)
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("error = %v, want ErrMissingFields", err)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	svc, _, _ := newTestService(&scriptedLLM{})
	_, err := svc.GetSession(context.Background(), "inexistant")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestSnapshotAndResume(t *testing.T) {
	llm := &scriptedLLM{responses: []string{briefWithBlockingJSON}}
	svc, store, repo := newTestService(llm)

	state, err := svc.StartSession(context.Background(), "user-1", "cab-1", "bail_commercial", "Bail", "avocat")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if err := svc.SaveSnapshot(context.Background(), state.ID); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, ok := repo.snapshots[state.ID]; !ok {
		t.Fatal("snapshot not persisted")
	}

	// Simulate the live state expiring.
	if err := store.Delete(context.Background(), state.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetSession(context.Background(), state.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("live state should be gone")
	}

	resumed, err := svc.ResumeSession(context.Background(), state.ID)
	if err != nil {
		t.Fatalf("ResumeSession failed: %v", err)
	}
	if resumed.Step != models.StepAwaitingAnswers {
		t.Errorf("resumed step = %q, want %q", resumed.Step, models.StepAwaitingAnswers)
	}
	if _, err := svc.GetSession(context.Background(), state.ID); err != nil {
		t.Errorf("session should be live again: %v", err)
	}
}

func TestResumeUnknownSnapshot(t *testing.T) {
	svc, _, _ := newTestService(&scriptedLLM{})
	_, err := svc.ResumeSession(context.Background(), "inexistant")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}
