package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"food-lens/api/internal/foodcheck"
)

// photoBatch collects the photos of one album (or consecutive single photos) until the
// debounce timer fires.
type photoBatch struct {
	chatID int64

	mu     sync.Mutex
	images []foodcheck.Image
	timer  *time.Timer
}

func batchKey(msg *tgbotapi.Message) string {
	if msg.MediaGroupID != "" {
		return "grp:" + msg.MediaGroupID
	}
	return fmt.Sprintf("chat:%d", msg.Chat.ID)
}

func (r *Router) acceptPhoto(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	if strings.TrimSpace(r.workspace(cid).Session.State().Draft.Name) == "" {
		r.send(cid, "❌ Enter Item Name first! Use /name <dish name>.")
		return
	}

	ph := msg.Photo[len(msg.Photo)-1]
	url, err := r.Bot.GetFileDirectURL(ph.FileID)
	if err != nil {
		r.Log.Warn("telegram file url", zap.Int64("chat_id", cid), zap.Error(err))
		r.send(cid, "Could not fetch the photo, please send it again.")
		return
	}
	data, err := r.download(url)
	if err != nil {
		r.Log.Warn("telegram download", zap.Int64("chat_id", cid), zap.Error(err))
		r.send(cid, "Could not fetch the photo, please send it again.")
		return
	}

	r.enqueue(batchKey(msg), cid, foodcheck.Image{Name: ph.FileUniqueID + ".jpg", MIME: "image/jpeg", Data: data})
}

func (r *Router) enqueue(key string, chatID int64, img foodcheck.Image) {
	bi, _ := r.batches.LoadOrStore(key, &photoBatch{chatID: chatID})
	b := bi.(*photoBatch)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.images = append(b.images, img)
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(r.Debounce, func() { r.processBatch(key) })
}

func (r *Router) processBatch(key string) {
	bi, ok := r.batches.LoadAndDelete(key)
	if !ok {
		return
	}
	b := bi.(*photoBatch)

	b.mu.Lock()
	images := append([]foodcheck.Image(nil), b.images...)
	chatID := b.chatID
	b.mu.Unlock()

	if len(images) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.RequestTimeout)
	defer cancel()

	ws := r.workspace(chatID)
	notices, err := ws.Upload(ctx, images)
	if err != nil {
		r.Log.Warn("validation failed", zap.Int64("chat_id", chatID), zap.Int("photos", len(images)), zap.Error(err))
	}
	r.send(chatID, formatNotices(notices)+"\n\n"+formatDraft(ws.Session.State()))
}

func (r *Router) download(url string) ([]byte, error) {
	resp, err := r.httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
