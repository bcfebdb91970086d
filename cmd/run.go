package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"casino/application"
	"casino/bot"
	"casino/config"
	"casino/database"
	"casino/domain/entities"
	"casino/domain/events"
	"casino/domain/games"
	"casino/domain/interfaces"
	"casino/infrastructure"
	"casino/repository"
)

// Run initializes and starts the wagering engine
func Run(ctx context.Context) error {
	log.Println("Starting casino engine...")

	cfg := config.Get()

	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()

	// Events fan out to the in-process bus (Discord notifier) and, when
	// NATS is configured, to the casino_events JetStream stream.
	var basePublisher interfaces.EventPublisher
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		natsPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper(), eventBus)
		if err := natsPublisher.EnsureCasinoEventStream(); err != nil {
			return fmt.Errorf("failed to ensure event stream: %w", err)
		}
		basePublisher = natsPublisher
	} else {
		basePublisher = infrastructure.NewBusEventPublisher(eventBus)
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewTransactionalPublisher(basePublisher)
	})

	registry := games.NewRegistry()
	clock := application.NewSystemClock()
	orchestrator := application.NewOrchestrator(uowFactory, registry, clock)

	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:           cfg.DiscordToken,
		GuildID:         cfg.GuildID,
		CasinoChannelID: cfg.CasinoChannelID,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	discordBot.SubscribeToEvents(eventBus)
	if err := discordBot.Start(); err != nil {
		return fmt.Errorf("failed to start Discord bot: %w", err)
	}

	// The fish-prawn-crab table runs communal timed rounds
	tableWorker := application.NewTableWorker(
		orchestrator, uowFactory, clock,
		entities.GameTypeFishPrawnCrab,
		cfg.BettingWindow, cfg.SettleDisplay,
	)
	stopTableWorker := tableWorker.Start(ctx)

	log.Printf("Engine is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Println("Shutting down...")
	stopTableWorker()
	discordBot.Stop()
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
