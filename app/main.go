package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/netatlas/contenthub/internal/blogservice"
	"github.com/netatlas/contenthub/internal/common"
	"github.com/netatlas/contenthub/internal/mediaservice"
	"github.com/netatlas/contenthub/internal/notifyservice"
	"github.com/netatlas/contenthub/internal/userservice"
)

type application struct {
	config        *Config
	logger        *slog.Logger
	userService   *userservice.UserService
	blogService   *blogservice.BlogService
	mediaService  *mediaservice.MediaService
	notifyService *notifyservice.NotifyService
	broker        *common.MessageBroker
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(common.DBConfig{
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		User:         cfg.DBUser,
		Password:     cfg.DBPassword,
		Name:         cfg.DBName,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		MaxIdleTime:  15 * time.Minute,
	})
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupBlogExchange(broker)
	if err != nil {
		logger.Error("failed to setup the blog exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := mediaservice.NewS3Store(context.Background(), mediaservice.S3Config{
		Region:   cfg.S3Region,
		Endpoint: cfg.S3Endpoint,
		Bucket:   cfg.S3Bucket,
	})
	if err != nil {
		logger.Error("failed to connect to the media store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	mediaService := mediaservice.NewMediaService(store, mediaservice.NewURLBuilder(cfg.MediaBaseURL), cfg.MediaMaxBytes)

	app := &application{
		config:        cfg,
		logger:        logger,
		userService:   userservice.NewUserService(db, cache, cfg.SessionSecret, cfg.SessionTTL),
		blogService:   blogservice.NewBlogService(db, mediaService, broker, cache),
		mediaService:  mediaService,
		notifyService: notifyservice.NewNotifyService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger),
		broker:        broker,
	}

	// Consume moderation decisions and mail the authors.
	go app.notifyService.SendDecisionEmails()

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
