package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"casino/domain/entities"
	"casino/domain/events"
)

const (
	colorWin     = 0x2ECC71
	colorLoss    = 0xE74C3C
	colorNeutral = 0x95A5A6
)

// handleRoundSettled posts one embed per credited account when a round
// settles or is voided.
func (b *Bot) handleRoundSettled(ctx context.Context, event events.Event) {
	e, ok := event.(events.RoundSettledEvent)
	if !ok {
		return
	}
	if b.config.CasinoChannelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s round settled", titleCase(e.GameType)),
		Color: settlementColor(e),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Player", Value: fmt.Sprintf("<@%s>", e.AccountID), Inline: true},
			{Name: "Result", Value: settlementLine(e), Inline: true},
			{Name: "Outcome", Value: e.Outcome, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Round %s", e.RoundID)},
	}

	if _, err := b.session.ChannelMessageSendEmbed(b.config.CasinoChannelID, embed); err != nil {
		log.WithError(err).WithField("roundID", e.RoundID).Error("Failed to post settlement embed")
	}
}

// handleRoundStateChange announces a new betting window opening.
func (b *Bot) handleRoundStateChange(ctx context.Context, event events.Event) {
	e, ok := event.(events.RoundStateChangeEvent)
	if !ok {
		return
	}
	if b.config.CasinoChannelID == "" || e.NewState != entities.RoundStateBetting {
		return
	}

	msg := fmt.Sprintf("A new %s round is open for betting!", titleCase(e.GameType))
	if _, err := b.session.ChannelMessageSend(b.config.CasinoChannelID, msg); err != nil {
		log.WithError(err).WithField("roundID", e.RoundID).Error("Failed to post round announcement")
	}
}

func settlementColor(e events.RoundSettledEvent) int {
	switch {
	case e.Reason == entities.EntryReasonRefund:
		return colorNeutral
	case e.Delta > 0:
		return colorWin
	default:
		return colorLoss
	}
}

func settlementLine(e events.RoundSettledEvent) string {
	switch {
	case e.Reason == entities.EntryReasonRefund:
		return fmt.Sprintf("Refunded %d points", e.Delta)
	case e.Delta > 0:
		return fmt.Sprintf("Won %d points", e.Delta)
	default:
		return "No payout"
	}
}

func titleCase(gameType entities.GameType) string {
	parts := strings.Split(string(gameType), "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
