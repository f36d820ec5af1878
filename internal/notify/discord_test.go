package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"bizdom/internal/game"
	"bizdom/internal/sim"
)

type fakePoster struct {
	mu     sync.Mutex
	posted []*discordgo.MessageEmbed
	fail   bool
}

func (f *fakePoster) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("discord unavailable")
	}
	f.posted = append(f.posted, embed)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakePoster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posted)
}

func quiet() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRender(t *testing.T) {
	report := &game.MonthlyReport{Month: 4, Revenue: 50_000, TotalExpenses: 60_000, NetProfit: -10_000, CashAfter: 12_000}
	embed := render(sim.Notice{Kind: sim.NoticeMonthClosed, Report: report})
	if embed == nil || embed.Title != "Month 4 closed" {
		t.Fatalf("unexpected embed %+v", embed)
	}
	if embed.Color != colorDanger {
		t.Fatalf("a loss should render in the danger color")
	}
	if embed.Fields[2].Value != "-10,000 €" {
		t.Fatalf("net field got=%q", embed.Fields[2].Value)
	}
	if embed.Fields[0].Value != "50,000 €" {
		t.Fatalf("revenue field got=%q", embed.Fields[0].Value)
	}

	over := render(sim.Notice{Kind: sim.NoticeGameOver, Report: report})
	if over == nil || !strings.Contains(over.Description, "month 4") || !strings.Contains(over.Description, "12,000 €") {
		t.Fatalf("unexpected game over embed %+v", over)
	}

	level := render(sim.Notice{Kind: sim.NoticeLevelUp, Event: &game.Event{Name: "Level Up", Icon: "⭐", Description: "Business reached level 2."}})
	if level == nil || level.Title != "⭐ Level Up" {
		t.Fatalf("unexpected level embed %+v", level)
	}

	if render(sim.Notice{Kind: sim.NoticeMonthClosed}) != nil {
		t.Fatalf("month notice without report should render nothing")
	}
}

func TestDiscordForwardsSelectedKinds(t *testing.T) {
	api := &fakePoster{}
	d := newDiscord(api, "chan-1", quiet())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Deliver(ctx, sim.Notice{Kind: sim.NoticeStrike, Event: &game.Event{Name: "Strike"}})
	d.Deliver(ctx, sim.Notice{Kind: sim.NoticeGameOver})

	deadline := time.Now().Add(2 * time.Second)
	for api.count() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	if got := api.count(); got != 1 {
		t.Fatalf("posted got=%d want=1", got)
	}
}

func TestDiscordDropsWhenQueueFull(t *testing.T) {
	api := &fakePoster{}
	d := newDiscord(api, "chan-1", quiet())
	for i := 0; i < queueSize+5; i++ {
		d.Deliver(context.Background(), sim.Notice{Kind: sim.NoticeGameOver})
	}
	if len(d.queue) != queueSize {
		t.Fatalf("queue length got=%d want=%d", len(d.queue), queueSize)
	}
}
