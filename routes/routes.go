package routes

import (
	"net/http"
	"time"

	"neira/handlers"
	"neira/middleware"
	"neira/services/cabinet"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("/me", hb.GetProfileHandler)
		api.PUT("/me/fcm-token", hb.UpdateFCMTokenHandler)
		api.POST("/signout", hb.SignOutHandler)
		api.DELETE("/me", hb.DeleteAccountHandler)
	}
}

// RegisterCabinetRoutes registers cabinet, membership and billing endpoints.
func RegisterCabinetRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/cabinets")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		api.POST("", hb.CreateCabinetHandler)
		api.POST("/invitations/accept", hb.AcceptInvitationHandler)

		member := api.Group("/:cabinetID")
		member.Use(middleware.CabinetMemberMiddleware(hb.CabinetRepo))
		{
			member.GET("", hb.GetCabinetHandler)
			member.DELETE("", middleware.RequireCapability(cabinet.CanDeleteCabinet), hb.DeleteCabinetHandler)

			member.GET("/members", hb.ListMembersHandler)
			member.POST("/members/invite", middleware.RequireCapability(cabinet.CanInviteMembers), hb.InviteMemberHandler)
			member.DELETE("/members/:memberID", middleware.RequireCapability(cabinet.CanRemoveMembers), hb.RemoveMemberHandler)
			member.PUT("/members/:memberID/role", middleware.RequireCapability(cabinet.CanChangeRoles), hb.ChangeMemberRoleHandler)

			member.GET("/signatures/quota", hb.GetSignatureQuotaHandler)
			member.POST("/signatures/consume", hb.ConsumeSignatureHandler)

			billing := member.Group("/billing")
			billing.Use(middleware.RequireCapability(cabinet.CanManageSubscription))
			{
				billing.POST("/checkout", hb.CreateCheckoutHandler)
				billing.PUT("/plan", hb.UpdatePlanHandler)
				billing.DELETE("/subscription", hb.CancelSubscriptionHandler)
			}
		}
	}
}

// RegisterPipelineRoutes registers the contract-generation pipeline endpoints.
func RegisterPipelineRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/pipeline")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		// Stateless steps matching the wire contract.
		api.POST("/clarify", hb.ClarifyHandler)
		api.POST("/audit", hb.AuditHandler)
		api.POST("/complete", hb.CompleteHandler)

		// Session-driven state machine.
		api.POST("/sessions", hb.StartSessionHandler)
		api.GET("/sessions/:sessionID", hb.GetSessionHandler)
		api.POST("/sessions/:sessionID/answers", hb.SubmitAnswersHandler)
		api.POST("/sessions/:sessionID/audit", hb.RunAuditHandler)
		api.POST("/sessions/:sessionID/complete", hb.CompleteSessionHandler)
		api.POST("/sessions/:sessionID/snapshot", hb.SaveSnapshotHandler)
		api.POST("/sessions/resume/:snapshotID", hb.ResumeSessionHandler)
	}
}

// RegisterResourceRoutes registers client, contrat and dossier endpoints,
// scoped to the caller's cabinet.
func RegisterResourceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/cabinets/:cabinetID")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	api.Use(middleware.CabinetMemberMiddleware(hb.CabinetRepo))
	{
		clients := api.Group("/clients")
		{
			clients.GET("", hb.ListClientsHandler)
			clients.GET("/:clientID", hb.GetClientHandler)
			clients.POST("", middleware.RequireCapability(cabinet.CanCreateResources), hb.CreateClientHandler)
			clients.PUT("/:clientID", middleware.RequireCapability(cabinet.CanEditResources), hb.UpdateClientHandler)
			clients.DELETE("/:clientID", middleware.RequireCapability(cabinet.CanDeleteResources), hb.DeleteClientHandler)
		}

		contrats := api.Group("/contrats")
		{
			contrats.GET("", hb.ListContratsHandler)
			contrats.GET("/:contratID", hb.GetContratHandler)
			contrats.POST("", middleware.RequireCapability(cabinet.CanCreateResources), hb.CreateContratHandler)
			contrats.PUT("/:contratID", middleware.RequireCapability(cabinet.CanEditResources), hb.UpdateContratHandler)
			contrats.DELETE("/:contratID", middleware.RequireCapability(cabinet.CanDeleteResources), hb.DeleteContratHandler)
		}

		dossiers := api.Group("/dossiers")
		{
			dossiers.GET("", hb.ListDossiersHandler)
			dossiers.GET("/:dossierID", hb.GetDossierHandler)
			dossiers.POST("", middleware.RequireCapability(cabinet.CanCreateResources), hb.CreateDossierHandler)
			dossiers.PUT("/:dossierID", middleware.RequireCapability(cabinet.CanEditResources), hb.UpdateDossierHandler)
			dossiers.DELETE("/:dossierID", middleware.RequireCapability(cabinet.CanDeleteResources), hb.DeleteDossierHandler)

			dossiers.POST("/:dossierID/documents", middleware.RequireCapability(cabinet.CanCreateResources), hb.UploadDocumentHandler)
			dossiers.GET("/:dossierID/documents/:documentID/url", hb.GetDocumentURLHandler)
			dossiers.DELETE("/:dossierID/documents/:documentID", middleware.RequireCapability(cabinet.CanDeleteResources), hb.DeleteDocumentHandler)
		}
	}
}

// RegisterWebhookRoutes registers unauthenticated webhook endpoints.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/webhooks/stripe", hb.StripeWebhookHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Neira"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterCabinetRoutes(r, hb)
	RegisterPipelineRoutes(r, hb)
	RegisterResourceRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterHealthRoute(r)
}
