package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"casino/domain/events"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildID         string
	CasinoChannelID string
}

// Bot is a notification sink: it subscribes to the engine's event bus and
// posts settlement embeds. It never participates in round resolution, so a
// Discord outage cannot stall or reorder settlements.
type Bot struct {
	config  Config
	session *discordgo.Session
}

// New creates a new bot instance
func New(config Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return &Bot{
		config:  config,
		session: dg,
	}, nil
}

// Start opens the Discord gateway connection
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening discord connection: %w", err)
	}
	log.Info("Discord bot connected")
	return nil
}

// Stop closes the Discord connection
func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		log.WithError(err).Error("Error closing discord session")
	}
}

// SubscribeToEvents wires the bot's notification handlers into the bus
func (b *Bot) SubscribeToEvents(bus *events.Bus) {
	bus.Subscribe(events.EventTypeRoundSettled, b.handleRoundSettled)
	bus.Subscribe(events.EventTypeRoundStateChange, b.handleRoundStateChange)
}
