package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"neira/config"
	"neira/models"
	"neira/services/notification"
	"neira/services/tasks"
	"neira/services/user"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitTaskWorker runs the async worker in background, handling queued push
// notifications and invitation deliveries.
func InitTaskWorker(notifSvc notification.NotificationService, userSvc user.UserService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendPush, handlePushTask(notifSvc))
	mux.HandleFunc(tasks.TypeSendInvite, handleInviteTask(notifSvc, userSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[TaskWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[TaskWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[TaskWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handlePushTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PushPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PushHandler] invalid payload: %v", err)
			return err
		}

		if err := notifSvc.SendUserPushNotification(ctx, p.UserID, p.Title, p.Body, p.Data); err != nil {
			log.Printf("[PushHandler] failed to send notification: %v", err)
			return err
		}
		return nil
	}
}

// handleInviteTask notifies the invitee when they already hold an account.
// Invitees without an account redeem the token at signup instead.
func handleInviteTask(notifSvc notification.NotificationService, userSvc user.UserService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.InvitePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[InviteHandler] invalid payload: %v", err)
			return err
		}

		u, err := userSvc.GetUserByEmail(p.Email)
		if err != nil {
			log.Printf("[InviteHandler] invitee %s has no account yet, skipping push", p.Email)
			return nil
		}

		data := map[string]string{
			"cabinetId":   p.CabinetID,
			"cabinetName": p.CabinetName,
			"role":        p.Role,
			"token":       p.Token,
		}
		title := "Invitation à rejoindre un cabinet"
		body := "Vous avez été invité à rejoindre le cabinet " + p.CabinetName

		if err := notifSvc.SendUserPushNotification(ctx, u.ID, title, body, data); err != nil {
			log.Printf("[InviteHandler] failed to send notification: %v", err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[TaskWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
