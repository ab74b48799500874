// File: neira/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neira/config"
	"neira/cron"
	"neira/database"
	cabinetRepoPkg "neira/database/repository/cabinet"
	clientRepoPkg "neira/database/repository/client"
	contratRepoPkg "neira/database/repository/contrat"
	dossierRepoPkg "neira/database/repository/dossier"
	pipelineRepoPkg "neira/database/repository/pipeline"
	userRepoPkg "neira/database/repository/user"
	"neira/handlers"
	"neira/middleware"
	"neira/routes"
	"neira/services/billing"
	"neira/services/cabinet"
	"neira/services/notification"
	"neira/services/pipeline"
	"neira/services/tasks"
	"neira/services/user"
	"neira/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	cabinetRepo := cabinetRepoPkg.NewMongoCabinetRepo()
	clientRepo := clientRepoPkg.NewMongoClientRepo()
	contratRepo := contratRepoPkg.NewMongoContratRepo()
	dossierRepo := dossierRepoPkg.NewMongoDossierRepo()
	pipelineRepo := pipelineRepoPkg.NewMongoPipelineRepo()

	// task queue.
	taskDispatcher := tasks.NewDispatcher(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})
	defer taskDispatcher.Close()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}

	cabinetService := &cabinet.DefaultCabinetService{
		Repo:    cabinetRepo,
		Users:   userRepo,
		Invites: taskDispatcher,
		Pushes:  taskDispatcher,
	}

	billingService := &billing.DefaultBillingService{
		Repo: cabinetRepo,
	}

	notificationService, err := notification.NewDefaultNotificationService(userService)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	stateStore := pipeline.NewRedisStateStore(utils.GetPipelineCacheClient(), 24*time.Hour)
	pipelineService := pipeline.NewDefaultPipelineService(
		pipeline.NewGeminiClient(config.AppConfig.GeminiAPIKey),
		stateStore,
		pipelineRepo,
	)

	// Start the background task worker.
	cron.InitTaskWorker(notificationService, userService)

	// handlers.
	userHandler := handlers.NewUserHandler(userService)
	cabinetHandler := handlers.NewCabinetHandler(cabinetService, billingService)
	billingHandler := handlers.NewBillingHandler(billingService)
	pipelineHandler := handlers.NewPipelineHandler(pipelineService)
	pipelineHandler.Pushes = taskDispatcher
	clientHandler := handlers.NewClientHandler(clientRepo)
	contratHandler := handlers.NewContratHandler(contratRepo)
	dossierHandler := handlers.NewDossierHandler(dossierRepo, cloudinaryStorageService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:    userRepo,
		CabinetRepo: cabinetRepo,

		// Account endpoints.
		RegisterUserHandler:     userHandler.RegisterHandler,
		AuthenticateUserHandler: userHandler.AuthenticateHandler,
		GetProfileHandler:       userHandler.GetProfileHandler,
		UpdateFCMTokenHandler:   userHandler.UpdateFCMTokenHandler,
		SignOutHandler:          userHandler.SignOutHandler,
		DeleteAccountHandler:    userHandler.DeleteAccountHandler,

		// Cabinet endpoints.
		CreateCabinetHandler:     cabinetHandler.CreateCabinetHandler,
		GetCabinetHandler:        cabinetHandler.GetCabinetHandler,
		DeleteCabinetHandler:     cabinetHandler.DeleteCabinetHandler,
		ListMembersHandler:       cabinetHandler.ListMembersHandler,
		InviteMemberHandler:      cabinetHandler.InviteMemberHandler,
		AcceptInvitationHandler:  cabinetHandler.AcceptInvitationHandler,
		RemoveMemberHandler:      cabinetHandler.RemoveMemberHandler,
		ChangeMemberRoleHandler:  cabinetHandler.ChangeMemberRoleHandler,
		GetSignatureQuotaHandler: cabinetHandler.GetSignatureQuotaHandler,
		ConsumeSignatureHandler:  cabinetHandler.ConsumeSignatureHandler,

		// Billing endpoints.
		CreateCheckoutHandler:     billingHandler.CreateCheckoutHandler,
		UpdatePlanHandler:         billingHandler.UpdatePlanHandler,
		CancelSubscriptionHandler: billingHandler.CancelSubscriptionHandler,
		StripeWebhookHandler:      billingHandler.StripeWebhookHandler,

		// Pipeline endpoints.
		ClarifyHandler:         pipelineHandler.ClarifyHandler,
		AuditHandler:           pipelineHandler.AuditHandler,
		CompleteHandler:        pipelineHandler.CompleteHandler,
		StartSessionHandler:    pipelineHandler.StartSessionHandler,
		GetSessionHandler:      pipelineHandler.GetSessionHandler,
		SubmitAnswersHandler:   pipelineHandler.SubmitAnswersHandler,
		RunAuditHandler:        pipelineHandler.RunAuditHandler,
		CompleteSessionHandler: pipelineHandler.CompleteSessionHandler,
		SaveSnapshotHandler:    pipelineHandler.SaveSnapshotHandler,
		ResumeSessionHandler:   pipelineHandler.ResumeSessionHandler,

		// Client endpoints.
		CreateClientHandler: clientHandler.CreateClientHandler,
		ListClientsHandler:  clientHandler.ListClientsHandler,
		GetClientHandler:    clientHandler.GetClientHandler,
		UpdateClientHandler: clientHandler.UpdateClientHandler,
		DeleteClientHandler: clientHandler.DeleteClientHandler,

		// Contrat endpoints.
		CreateContratHandler: contratHandler.CreateContratHandler,
		ListContratsHandler:  contratHandler.ListContratsHandler,
		GetContratHandler:    contratHandler.GetContratHandler,
		UpdateContratHandler: contratHandler.UpdateContratHandler,
		DeleteContratHandler: contratHandler.DeleteContratHandler,

		// Dossier endpoints.
		CreateDossierHandler:  dossierHandler.CreateDossierHandler,
		ListDossiersHandler:   dossierHandler.ListDossiersHandler,
		GetDossierHandler:     dossierHandler.GetDossierHandler,
		UpdateDossierHandler:  dossierHandler.UpdateDossierHandler,
		DeleteDossierHandler:  dossierHandler.DeleteDossierHandler,
		UploadDocumentHandler: dossierHandler.UploadDocumentHandler,
		GetDocumentURLHandler: dossierHandler.GetDocumentURLHandler,
		DeleteDocumentHandler: dossierHandler.DeleteDocumentHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
