package bootstrap

import (
	"log"

	"edumentor-be/internal/config"
	"edumentor-be/internal/controller"
	"edumentor-be/internal/pkg/logger"
	"edumentor-be/internal/pkg/serverutils"
	"edumentor-be/internal/repository/unitofwork"
	"edumentor-be/internal/service"
	"edumentor-be/pkg/llm/openai"
	pktNats "edumentor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const sessionActivityTopic = "session-activity"

// Container wires every service and controller together.
type Container struct {
	Logger logger.ILogger

	AuthController    controller.IAuthController
	SessionController controller.ISessionController

	// Background services, run from main
	ConsumerService service.IConsumerService

	natsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// In-process event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional: publishing degrades to a no-op without a broker
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	llmProvider := openai.NewProvider(openai.Config{
		APIKey:          cfg.OpenAI.APIKey,
		BaseURL:         cfg.OpenAI.BaseURL,
		ChatModel:       cfg.OpenAI.ChatModel,
		TranscribeModel: cfg.OpenAI.TranscribeModel,
		Timeout:         cfg.OpenAI.RequestTimeout,
	})

	publisherService := service.NewPublisherService(sessionActivityTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, sessionActivityTopic, sysLogger)

	authService := service.NewAuthService(uowFactory, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, natsPub)
	sessionService := service.NewSessionService(uowFactory, publisherService, natsPub)
	tutorService := service.NewTutorService(uowFactory, llmProvider, publisherService)

	jwtMiddleware := serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret)

	return &Container{
		Logger:            sysLogger,
		AuthController:    controller.NewAuthController(authService, jwtMiddleware),
		SessionController: controller.NewSessionController(sessionService, tutorService, jwtMiddleware),
		ConsumerService:   consumerService,
		natsPublisher:     natsPub,
	}
}

// Close releases broker connections and flushes logs.
func (c *Container) Close() {
	if c.natsPublisher != nil {
		c.natsPublisher.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
