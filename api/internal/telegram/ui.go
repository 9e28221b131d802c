package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"food-lens/api/internal/deck"
)

const helpText = `Build a dish card from 2 to 5 photos.
/name <dish name> sets the name (required before photos)
/desc <description> sets the description
Send photos (albums are validated together)
/deck shows the draft
/remove <n> removes photo n from the draft
/submit identifies the dish and adds it to your feed
/feed lists your cards
/edit <n> moves card n back into the draft
/delete <n> deletes card n`

const (
	cbDeletePrefix = "del:"
	cbDeleteCancel = "del_cancel"
)

func makeDeleteConfirmKeyboard(cardID string) tgbotapi.InlineKeyboardMarkup {
	yes := tgbotapi.NewInlineKeyboardButtonData("Delete", cbDeletePrefix+cardID)
	no := tgbotapi.NewInlineKeyboardButtonData("Cancel", cbDeleteCancel)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(yes, no))
}

func noticeIcon(l deck.Level) string {
	if l == deck.LevelError {
		return "❌"
	}
	return "✅"
}

func formatNotices(ns []deck.Notice) string {
	lines := make([]string, 0, len(ns))
	for _, n := range ns {
		lines = append(lines, noticeIcon(n.Level)+" "+n.Text)
	}
	return strings.Join(lines, "\n")
}

// withNotices puts the notices, if any, above body.
func withNotices(ns []deck.Notice, body string) string {
	if len(ns) == 0 {
		return body
	}
	return formatNotices(ns) + "\n\n" + body
}

func formatDraft(st deck.State) string {
	d := st.Draft
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", orDash(d.Name))
	fmt.Fprintf(&b, "Description: %s\n", orDash(d.Description))
	fmt.Fprintf(&b, "Photos: %d / %d\n", d.Deck.Len(), deck.MaxImages)
	b.WriteString(d.Status())
	return b.String()
}

func formatFeed(f deck.Feed) string {
	if f.Len() == 0 {
		return "Your feed is empty."
	}
	var b strings.Builder
	for i, c := range f.Cards() {
		fmt.Fprintf(&b, "%d. %s (%d photos)", i+1, c.Name, len(c.Images))
		if c.Analysis.Status != "" {
			verdict := "no match"
			if c.Analysis.Data.IsMatch {
				verdict = "match"
			}
			fmt.Fprintf(&b, ", %s %.0f%%", verdict, c.Analysis.Data.Confidence*100)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAnalysis(c deck.Card) string {
	a := c.Analysis.Data
	verdict := "Not a match"
	if a.IsMatch {
		verdict = "Match"
	}
	return fmt.Sprintf("%s: %s (confidence %.0f%%)\n%s", c.Name, verdict, a.Confidence*100, a.Analysis)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
