package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-tracker-api/config"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
	"github.com/oksasatya/job-tracker-api/pkg/mailer"
)

const prefetch = 16

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	sender, err := mailer.NewSender(mailer.SenderConfig{
		Driver:        cfg.MailDriver,
		MailgunDomain: cfg.MailgunDomain,
		MailgunAPIKey: cfg.MailgunAPIKey,
		MailgunSender: cfg.MailgunSender,
		SMTPHost:      cfg.SMTPHost,
		SMTPPort:      cfg.SMTPPort,
		SMTPUser:      cfg.SMTPUser,
		SMTPPassword:  cfg.SMTPPassword,
		From:          cfg.MailFrom,
	})
	if err != nil {
		log.Fatalf("mail sender: %v", err)
	}

	rc, err := helpers.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer rc.Close()

	msgs, err := rc.Consume("", prefetch)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := mailer.NewWorker(sender, logger, 15*time.Second)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			err := worker.Handle(ctx, msg.Body)
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, mailer.ErrPoison):
				logger.WithError(err).Error("dropping email job")
				_ = msg.Nack(false, false)
			default:
				logger.WithError(err).WithField("redelivered", msg.Redelivered).Warn("send failed; requeueing")
				_ = msg.Nack(false, true)
			}
		}
	}()

	logger.WithFields(logrus.Fields{"queue": cfg.RabbitMQEmailQueue, "driver": cfg.MailDriver}).Info("email worker listening")
	<-ctx.Done()
	logger.Info("shutting down...")
	rc.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
