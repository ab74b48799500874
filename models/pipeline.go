// models/pipeline.go
package models

import "time"

// Priorities for missing information and audit issues.
const (
	PriorityBloquant  = "bloquant"
	PriorityImportant = "important"
	PriorityOptionnel = "optionnel"

	SeverityBloquant  = "bloquant"
	SeverityImportant = "important"
	SeverityMineur    = "mineur"
)

// BriefParty is one party of the contract and its role.
type BriefParty struct {
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
}

// BriefContext summarizes what the contract is for.
type BriefContext struct {
	Description    string   `json:"description"`
	Objectif       string   `json:"objectif"`
	Particularites []string `json:"particularites,omitempty"`
}

// MissingInfo is one piece of information the brief still lacks.
type MissingInfo struct {
	Category    string `json:"category"` // ex: "Durée", "Montants", "Parties"
	Field       string `json:"field"`    // ex: "date_debut", "prix_vente"
	Description string `json:"description"`
	Priority    string `json:"priority"` // bloquant | important | optionnel
}

// ContractBrief is the structured output of the clarification step.
type ContractBrief struct {
	ContractType     string                 `json:"contractType"`
	Variant          string                 `json:"variant,omitempty"`
	Parties          []BriefParty           `json:"parties"`
	Context          BriefContext           `json:"context"`
	PointsSensibles  []string               `json:"pointsSensibles"`
	AnnexesAttendues []string               `json:"annexesAttendues,omitempty"`
	MissingInfo      []MissingInfo          `json:"missingInfo"`
	ProvidedInfo     map[string]interface{} `json:"providedInfo"`
}

// Question is presented to the end client to collect a missing field.
type Question struct {
	ID        string   `json:"id"`
	Category  string   `json:"category"`
	Question  string   `json:"question"`
	FieldName string   `json:"fieldName"`
	InputType string   `json:"inputType"` // text | textarea | number | date | select | radio
	Options   []string `json:"options,omitempty"`
	Required  bool     `json:"required"`
	Priority  string   `json:"priority"`
	Hint      string   `json:"hint,omitempty"`
}

// ClientAnswers maps a question fieldName to the answer supplied.
type ClientAnswers map[string]interface{}

// FieldValidation constrains a form field's value.
type FieldValidation struct {
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	Pattern    string   `json:"pattern,omitempty"`
	CustomRule string   `json:"customRule,omitempty"` // ex: "date_fin > date_debut"
}

// ConditionalOn makes a field visible only when another field holds a value.
type ConditionalOn struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

// FormField is one input of the dynamic contract form.
type FormField struct {
	ID            string           `json:"id"`
	Label         string           `json:"label"`
	Type          string           `json:"type"`
	Required      bool             `json:"required"`
	Placeholder   string           `json:"placeholder,omitempty"`
	Options       []string         `json:"options,omitempty"`
	ConditionalOn *ConditionalOn   `json:"conditional_on,omitempty"`
	Validation    *FieldValidation `json:"validation,omitempty"`
	Section       string           `json:"section,omitempty"`
	Hint          string           `json:"hint,omitempty"`
}

// FormSection groups fields under a titled section.
type FormSection struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields"` // field IDs
}

// ValidationRule is a cross-field rule attached to the schema.
type ValidationRule struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"` // required | comparison | coherence | custom
	Description  string   `json:"description"`
	Fields       []string `json:"fields"`
	Rule         string   `json:"rule"`
	ErrorMessage string   `json:"errorMessage"`
}

// FormSchema describes the dynamic form for one contract type. It may be
// revised by the audit step (correctedSchema).
type FormSchema struct {
	ContractType    string           `json:"contractType"`
	ClientRoles     []string         `json:"clientRoles,omitempty"`
	Sections        []FormSection    `json:"sections,omitempty"`
	Fields          []FormField      `json:"fields"`
	ValidationRules []ValidationRule `json:"validationRules,omitempty"`
}

// SuggestedFix is the concrete correction attached to an audit issue.
type SuggestedFix struct {
	Type    string                 `json:"type"` // add_field | modify_field | add_validation | add_clause
	Details map[string]interface{} `json:"details,omitempty"`
}

// AuditIssue is one problem found by the audit step.
type AuditIssue struct {
	ID             string        `json:"id"`
	Severity       string        `json:"severity"` // bloquant | important | mineur
	Category       string        `json:"category"` // champ_manquant | incohérence | clause_sensible | validation
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	AffectedFields []string      `json:"affectedFields,omitempty"`
	SuggestedFix   *SuggestedFix `json:"suggestedFix,omitempty"`
}

// AuditReport is the structured output of the audit step. Transient, never
// persisted on its own.
type AuditReport struct {
	Timestamp         string       `json:"timestamp"`
	SchemaVersion     string       `json:"schemaVersion"`
	Issues            []AuditIssue `json:"issues"`
	HasCriticalIssues bool         `json:"hasCriticalIssues"`
	Suggestions       []string     `json:"suggestions"`
	CorrectedSchema   *FormSchema  `json:"correctedSchema,omitempty"`
	ShouldRetry       bool         `json:"shouldRetry"`
}

// TokenUsage reports the provider-side token consumption of one call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ---- Wire contracts of the three pipeline endpoints ----

// ClarifyRequest is the clarify step input.
type ClarifyRequest struct {
	ContractType    string        `json:"contractType" binding:"required"`
	Description     string        `json:"description"`
	Role            string        `json:"role" binding:"required,oneof=avocat notaire"`
	ExistingAnswers ClientAnswers `json:"existingAnswers,omitempty"`
}

// ClarifyResponse is the clarify step output.
type ClarifyResponse struct {
	Success      bool           `json:"success"`
	Brief        *ContractBrief `json:"brief,omitempty"`
	NeedsMoreInfo bool          `json:"needsMoreInfo"`
	Questions    []Question     `json:"questions"`
	TokensUsed   *TokenUsage    `json:"tokensUsed,omitempty"`
}

// AuditRequest is the audit step input.
type AuditRequest struct {
	Schema       *FormSchema    `json:"schema" binding:"required"`
	Brief        *ContractBrief `json:"brief" binding:"required"`
	ContractType string         `json:"contractType" binding:"required"`
	Role         string         `json:"role" binding:"required,oneof=avocat notaire"`
}

// AuditResponse is the audit step output.
type AuditResponse struct {
	Success    bool         `json:"success"`
	Report     *AuditReport `json:"report,omitempty"`
	TokensUsed *TokenUsage  `json:"tokensUsed,omitempty"`
}

// CompleteRequest is the completion step input. PartiesClients maps a party
// label ("Le Vendeur") to the client record assigned to that party.
type CompleteRequest struct {
	ContractContent string                  `json:"contractContent"`
	PartiesClients  map[string]ClientFields `json:"partiesClients"`
}

// CompleteResponse is the completion step output.
type CompleteResponse struct {
	CompletedContract string `json:"completedContract"`
}

// ---- Serializable pipeline state (the caller-driven state machine) ----

// Pipeline steps.
const (
	StepDrafting        = "drafting"
	StepClarifying      = "clarifying"
	StepAwaitingAnswers = "awaiting_answers"
	StepSchema          = "form_schema"
	StepAuditing        = "auditing"
	StepCompleting      = "completing"
	StepComplete        = "complete"
)

// PipelineEvent records one transition for traceability.
type PipelineEvent struct {
	Step      string    `bson:"step" json:"step"`
	Action    string    `bson:"action" json:"action"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// PipelineState is the full serializable state of one contract-creation
// session. It lives in Redis while the session is active and can be
// snapshotted to Mongo for later resumption.
type PipelineState struct {
	ID              string          `bson:"id" json:"id"`
	UserID          string          `bson:"user_id" json:"user_id"`
	CabinetID       string          `bson:"cabinet_id" json:"cabinet_id"`
	Step            string          `bson:"step" json:"step"`
	ContractType    string          `bson:"contract_type" json:"contractType"`
	OriginalRequest string          `bson:"original_request" json:"originalRequest"`
	Role            string          `bson:"role" json:"role"`
	Brief           *ContractBrief  `bson:"brief,omitempty" json:"brief,omitempty"`
	Questions       []Question      `bson:"questions,omitempty" json:"questions,omitempty"`
	ClientAnswers   ClientAnswers   `bson:"client_answers,omitempty" json:"clientAnswers,omitempty"`
	FormSchema      *FormSchema     `bson:"form_schema,omitempty" json:"formSchema,omitempty"`
	AuditReport     *AuditReport    `bson:"audit_report,omitempty" json:"auditReport,omitempty"`
	AuditIterations int             `bson:"audit_iterations" json:"auditIterations"`
	Contract        string          `bson:"contract,omitempty" json:"contract,omitempty"`
	History         []PipelineEvent `bson:"history,omitempty" json:"history,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updatedAt"`
}
