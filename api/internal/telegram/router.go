// Package telegram is a chat front-end for the deck workflow: every chat owns its own
// draft deck and feed.
package telegram

import (
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"food-lens/api/internal/deck"
)

const (
	defaultDebounce = 1200 * time.Millisecond
	maxMessageLen   = 3900
)

// Bot is the subset of *tgbotapi.BotAPI the router uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

type Router struct {
	Bot     Bot
	Backend deck.Backend
	Log     *zap.Logger

	// Debounce is how long an album waits for more photos before validation.
	Debounce time.Duration
	// RequestTimeout bounds each backend call.
	RequestTimeout time.Duration
	// NewWorkspace overrides per-chat workspace construction in tests.
	NewWorkspace func(deck.Backend) *deck.Workspace

	httpc      *http.Client
	workspaces sync.Map // chatID -> *deck.Workspace
	batches    sync.Map // key -> *photoBatch
}

func NewRouter(bot Bot, backend deck.Backend, log *zap.Logger) *Router {
	return &Router{
		Bot:            bot,
		Backend:        backend,
		Log:            log,
		Debounce:       defaultDebounce,
		RequestTimeout: 3 * time.Minute,
		NewWorkspace:   deck.NewWorkspace,
		httpc:          &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *Router) workspace(chatID int64) *deck.Workspace {
	if v, ok := r.workspaces.Load(chatID); ok {
		return v.(*deck.Workspace)
	}
	v, _ := r.workspaces.LoadOrStore(chatID, r.NewWorkspace(r.Backend))
	return v.(*deck.Workspace)
}

// HandleUpdate dispatches one update. It never blocks on model calls for photos.
func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message

	switch {
	case msg.IsCommand():
		r.handleCommand(msg)
	case len(msg.Photo) > 0:
		r.acceptPhoto(msg)
	case msg.Text != "":
		r.send(msg.Chat.ID, "Send /help to see what I can do.")
	}
}

func (r *Router) send(chatID int64, text string) {
	if len([]rune(text)) > maxMessageLen {
		text = string([]rune(text)[:maxMessageLen]) + "…"
	}
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.Log.Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
