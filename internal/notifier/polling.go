package notifier

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"
)

// CommandHandler answers a chat command; an empty reply sends nothing.
type CommandHandler func(ctx context.Context, command string) string

const pollTimeoutSeconds = 30

type command struct {
	updateID int64
	chatID   string
	text     string
}

// StartPolling long-polls getUpdates and answers commands from the configured
// chat. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	var offset int64
	client := &http.Client{Timeout: (pollTimeoutSeconds + 5) * time.Second, Transport: t.Client.Transport}

	for ctx.Err() == nil {
		cmds, err := t.getUpdates(ctx, client, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[WARN] polling request failed: %v", err)
			sleep(ctx, 5*time.Second)
			continue
		}

		for _, c := range cmds {
			offset = c.updateID + 1
			if c.text == "" {
				continue
			}
			if c.chatID != t.ChatID {
				log.Printf("[WARN] ignoring command from chat %s", c.chatID)
				continue
			}
			log.Printf("[INFO] received command: %s", c.text)
			if reply := handler(ctx, c.text); reply != "" {
				if err := t.Send(ctx, reply); err != nil {
					log.Printf("[ERROR] send reply: %v", err)
				}
			}
		}
	}
	log.Println("[INFO] Telegram polling stopped")
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, client *http.Client, offset int64) ([]command, error) {
	result, err := t.call(ctx, client, "getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         pollTimeoutSeconds,
		"allowed_updates": []string{"message"},
	})
	if err != nil {
		return nil, err
	}

	var cmds []command
	for _, u := range result.Array() {
		cmds = append(cmds, command{
			updateID: u.Get("update_id").Int(),
			chatID:   u.Get("message.chat.id").String(),
			text:     strings.TrimSpace(u.Get("message.text").String()),
		})
	}
	return cmds, nil
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
