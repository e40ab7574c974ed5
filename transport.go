package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageEvent is one inbound message from a watched channel.
type MessageEvent struct {
	ChannelID int64
	MessageID int
	Text      string
	ChatTitle string // title captured with the update, may be empty
}

// ChatResolver resolves chat metadata. A lookup failure abandons the
// triggering event; the pipeline logs it and moves on.
type ChatResolver interface {
	ChatTitle(channelID int64) (string, error)
}

// Transport delivers message events from the chat network. Only events
// originating in the watched channel set reach the events channel.
type Transport interface {
	ChatResolver
	Listen(ctx context.Context, events chan<- MessageEvent)
}

// TelegramTransport long-polls the bot API and forwards channel posts from
// the watched channels. The bot must be a member of every channel it is
// supposed to watch.
type TelegramTransport struct {
	bot     *tgbotapi.BotAPI
	catalog *RuleCatalog

	titleMutex sync.RWMutex
	titles     map[int64]string
}

func NewTelegramTransport(botToken string, catalog *RuleCatalog) (*TelegramTransport, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramTransport{
		bot:     bot,
		catalog: catalog,
		titles:  map[int64]string{},
	}, nil
}

// Listen consumes updates until ctx is cancelled and closes events on exit.
func (t *TelegramTransport) Listen(ctx context.Context, events chan<- MessageEvent) {
	defer close(events)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 25
	u.AllowedUpdates = []string{"channel_post", "message"}
	updates := t.bot.GetUpdatesChan(u)

	log.Printf("Listening for messages in %d channels", len(t.catalog.AllChannels()))

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			msg := update.ChannelPost
			if msg == nil {
				msg = update.Message
			}
			if msg == nil || msg.Chat == nil {
				continue
			}
			if !t.catalog.Watches(msg.Chat.ID) {
				continue
			}

			t.rememberTitle(msg.Chat.ID, msg.Chat.Title)

			event := MessageEvent{
				ChannelID: msg.Chat.ID,
				MessageID: msg.MessageID,
				Text:      msg.Text,
				ChatTitle: msg.Chat.Title,
			}
			if event.Text == "" {
				event.Text = msg.Caption
			}

			select {
			case events <- event:
			case <-ctx.Done():
				t.bot.StopReceivingUpdates()
				return
			}
		}
	}
}

// ChatTitle returns the title of a watched channel, served from the title
// cache when a previous update already carried it.
func (t *TelegramTransport) ChatTitle(channelID int64) (string, error) {
	t.titleMutex.RLock()
	title, ok := t.titles[channelID]
	t.titleMutex.RUnlock()
	if ok && title != "" {
		return title, nil
	}

	chat, err := t.bot.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: channelID}})
	if err != nil {
		return "", fmt.Errorf("failed to resolve chat %d: %w", channelID, err)
	}

	t.rememberTitle(channelID, chat.Title)
	return chat.Title, nil
}

func (t *TelegramTransport) rememberTitle(channelID int64, title string) {
	if title == "" {
		return
	}
	t.titleMutex.Lock()
	t.titles[channelID] = title
	t.titleMutex.Unlock()
}
