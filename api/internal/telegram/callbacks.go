package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	cid := cb.Message.Chat.ID
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack

	// drop the keyboard so the choice cannot be replayed
	_, _ = r.Bot.Request(tgbotapi.NewEditMessageReplyMarkup(cid, cb.Message.MessageID, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}))

	switch {
	case cb.Data == cbDeleteCancel:
		r.send(cid, "Kept.")
	case strings.HasPrefix(cb.Data, cbDeletePrefix):
		notices := r.workspace(cid).Delete(strings.TrimPrefix(cb.Data, cbDeletePrefix))
		if len(notices) == 0 {
			r.send(cid, "That card is already gone.")
			return
		}
		r.send(cid, formatNotices(notices))
	}
}
