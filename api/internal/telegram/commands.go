package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (r *Router) handleCommand(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	ws := r.workspace(cid)
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		r.send(cid, helpText)

	case "name":
		if args == "" {
			r.send(cid, "Usage: /name <dish name>")
			return
		}
		r.send(cid, withNotices(ws.SetName(args), formatDraft(ws.Session.State())))

	case "desc":
		if args == "" {
			r.send(cid, "Usage: /desc <description>")
			return
		}
		r.send(cid, withNotices(ws.SetDescription(args), formatDraft(ws.Session.State())))

	case "deck":
		r.send(cid, formatDraft(ws.Session.State()))

	case "remove":
		n, ok := r.position(cid, args, ws.Session.State().Draft.Deck.Len(), "photo")
		if !ok {
			return
		}
		r.send(cid, withNotices(ws.Remove(n), formatDraft(ws.Session.State())))

	case "submit":
		go r.submit(cid)

	case "feed":
		r.send(cid, formatFeed(ws.Session.State().Feed))

	case "edit":
		cards := ws.Session.State().Feed.Cards()
		n, ok := r.position(cid, args, len(cards), "card")
		if !ok {
			return
		}
		notices := ws.Edit(cards[n].ID)
		r.send(cid, formatNotices(notices)+"\n\n"+formatDraft(ws.Session.State()))

	case "delete":
		cards := ws.Session.State().Feed.Cards()
		n, ok := r.position(cid, args, len(cards), "card")
		if !ok {
			return
		}
		m := tgbotapi.NewMessage(cid, "Are you sure you want to delete \""+cards[n].Name+"\"?")
		m.ReplyMarkup = makeDeleteConfirmKeyboard(cards[n].ID)
		if _, err := r.Bot.Send(m); err != nil {
			r.Log.Warn("telegram send failed", zap.Int64("chat_id", cid), zap.Error(err))
		}

	default:
		r.send(cid, "Unknown command. Send /help.")
	}
}

// position parses a 1-based argument into a 0-based index below n.
func (r *Router) position(chatID int64, arg string, n int, what string) (int, bool) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		if n == 0 {
			r.send(chatID, "There is no "+what+" yet.")
		} else {
			r.send(chatID, "Give a "+what+" number from 1 to "+strconv.Itoa(n)+".")
		}
		return 0, false
	}
	return i - 1, true
}

func (r *Router) submit(chatID int64) {
	ws := r.workspace(chatID)
	if !ws.Session.State().Draft.CanSubmit() {
		r.send(chatID, ws.Session.State().Draft.Status())
		return
	}
	r.send(chatID, "Processing...")

	ctx, cancel := context.WithTimeout(context.Background(), r.RequestTimeout)
	defer cancel()
	card, notices, err := ws.Submit(ctx)
	if err != nil {
		r.Log.Warn("submit failed", zap.Int64("chat_id", chatID), zap.Error(err))
		if len(notices) == 0 {
			r.send(chatID, "Submission Failed: "+err.Error())
			return
		}
		r.send(chatID, formatNotices(notices))
		return
	}
	r.send(chatID, formatNotices(notices)+"\n\n"+formatAnalysis(card))
}
