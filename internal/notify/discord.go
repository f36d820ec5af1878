// Package notify posts selected engine notices to a Discord channel.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"bizdom/internal/sim"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

const (
	colorInfo    = 0x3498DB
	colorSuccess = 0x2ECC71
	colorDanger  = 0xE74C3C
	queueSize    = 32
)

type poster interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord is a sim.Sink. Deliver only enqueues; Run does the posting so a
// slow Discord API never holds up the engine.
type Discord struct {
	api     poster
	channel string
	log     *slog.Logger
	queue   chan *discordgo.MessageEmbed
	kinds   map[sim.NoticeKind]bool
}

func NewDiscord(token, channel string, logger *slog.Logger) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return newDiscord(session, channel, logger), nil
}

func newDiscord(api poster, channel string, logger *slog.Logger) *Discord {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discord{
		api:     api,
		channel: channel,
		log:     logger,
		queue:   make(chan *discordgo.MessageEmbed, queueSize),
		kinds: map[sim.NoticeKind]bool{
			sim.NoticeMonthClosed: true,
			sim.NoticeGameOver:    true,
			sim.NoticeLevelUp:     true,
			sim.NoticeAchievement: true,
		},
	}
}

func (d *Discord) Deliver(_ context.Context, n sim.Notice) {
	if !d.kinds[n.Kind] {
		return
	}
	embed := render(n)
	if embed == nil {
		return
	}
	select {
	case d.queue <- embed:
	default:
		d.log.Warn("discord queue full, notice dropped", "kind", n.Kind)
	}
}

func (d *Discord) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case embed := <-d.queue:
			if _, err := d.api.ChannelMessageSendEmbed(d.channel, embed); err != nil {
				d.log.Warn("discord post failed", "err", err)
			}
		}
	}
}

func render(n sim.Notice) *discordgo.MessageEmbed {
	switch n.Kind {
	case sim.NoticeMonthClosed:
		if n.Report == nil {
			return nil
		}
		r := n.Report
		color := colorSuccess
		if r.NetProfit < 0 {
			color = colorDanger
		}
		return &discordgo.MessageEmbed{
			Title: fmt.Sprintf("Month %d closed", r.Month),
			Color: color,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Revenue", Value: money(r.Revenue), Inline: true},
				{Name: "Expenses", Value: money(r.TotalExpenses), Inline: true},
				{Name: "Net", Value: money(r.NetProfit), Inline: true},
				{Name: "Cash", Value: money(r.CashAfter), Inline: true},
				{Name: "Customers", Value: humanize.Comma(r.CustomerBase), Inline: true},
				{Name: "Staff", Value: fmt.Sprintf("%d", r.EmployeeCount), Inline: true},
			},
		}
	case sim.NoticeGameOver:
		desc := "The company ran out of cash."
		if n.Report != nil {
			desc = fmt.Sprintf("The company went bankrupt in month %d with %s in cash.", n.Report.Month, money(n.Report.CashAfter))
		}
		return &discordgo.MessageEmbed{Title: "Game over", Description: desc, Color: colorDanger}
	case sim.NoticeLevelUp, sim.NoticeAchievement:
		if n.Event == nil {
			return nil
		}
		return &discordgo.MessageEmbed{
			Title:       n.Event.Icon + " " + n.Event.Name,
			Description: n.Event.Description,
			Color:       colorInfo,
		}
	}
	return nil
}

func money(v int64) string {
	return humanize.Comma(v) + " €"
}
