package handlers

import (
	cabinetRepoPkg "neira/database/repository/cabinet"
	userRepoPkg "neira/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo    userRepoPkg.UserRepository
	CabinetRepo cabinetRepoPkg.CabinetRepository

	// Account endpoints
	RegisterUserHandler     gin.HandlerFunc
	AuthenticateUserHandler gin.HandlerFunc
	GetProfileHandler       gin.HandlerFunc
	UpdateFCMTokenHandler   gin.HandlerFunc
	SignOutHandler          gin.HandlerFunc
	DeleteAccountHandler    gin.HandlerFunc

	// Cabinet endpoints
	CreateCabinetHandler     gin.HandlerFunc
	GetCabinetHandler        gin.HandlerFunc
	DeleteCabinetHandler     gin.HandlerFunc
	ListMembersHandler       gin.HandlerFunc
	InviteMemberHandler      gin.HandlerFunc
	AcceptInvitationHandler  gin.HandlerFunc
	RemoveMemberHandler      gin.HandlerFunc
	ChangeMemberRoleHandler  gin.HandlerFunc
	GetSignatureQuotaHandler gin.HandlerFunc
	ConsumeSignatureHandler  gin.HandlerFunc

	// Billing endpoints
	CreateCheckoutHandler     gin.HandlerFunc
	UpdatePlanHandler         gin.HandlerFunc
	CancelSubscriptionHandler gin.HandlerFunc
	StripeWebhookHandler      gin.HandlerFunc

	// Pipeline endpoints
	ClarifyHandler         gin.HandlerFunc
	AuditHandler           gin.HandlerFunc
	CompleteHandler        gin.HandlerFunc
	StartSessionHandler    gin.HandlerFunc
	GetSessionHandler      gin.HandlerFunc
	SubmitAnswersHandler   gin.HandlerFunc
	RunAuditHandler        gin.HandlerFunc
	CompleteSessionHandler gin.HandlerFunc
	SaveSnapshotHandler    gin.HandlerFunc
	ResumeSessionHandler   gin.HandlerFunc

	// Client endpoints
	CreateClientHandler gin.HandlerFunc
	ListClientsHandler  gin.HandlerFunc
	GetClientHandler    gin.HandlerFunc
	UpdateClientHandler gin.HandlerFunc
	DeleteClientHandler gin.HandlerFunc

	// Contrat endpoints
	CreateContratHandler gin.HandlerFunc
	ListContratsHandler  gin.HandlerFunc
	GetContratHandler    gin.HandlerFunc
	UpdateContratHandler gin.HandlerFunc
	DeleteContratHandler gin.HandlerFunc

	// Dossier endpoints
	CreateDossierHandler  gin.HandlerFunc
	ListDossiersHandler   gin.HandlerFunc
	GetDossierHandler     gin.HandlerFunc
	UpdateDossierHandler  gin.HandlerFunc
	DeleteDossierHandler  gin.HandlerFunc
	UploadDocumentHandler gin.HandlerFunc
	GetDocumentURLHandler gin.HandlerFunc
	DeleteDocumentHandler gin.HandlerFunc
}
