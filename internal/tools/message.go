package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/picobot/picobot/internal/workspace"
)

const (
	defaultChannel = "local"
	defaultChatID  = "default"
	timestampFmt   = "2006-01-02T15:04:05"
)

// OutboxRecord is one line of the outbox log.
type OutboxRecord struct {
	Timestamp string `json:"timestamp"`
	Channel   string `json:"channel"`
	ChatID    string `json:"chat_id"`
	Content   string `json:"content"`
}

// MessageTool records outbound messages to an append-only JSON-lines log
// under the workspace. Delivery is left to whatever tails the log.
type MessageTool struct {
	outbox string
	now    func() time.Time
}

// OutboxPath returns <workspace>/messages/outbox.log.
func OutboxPath(ws *workspace.Resolver) string {
	return ws.Join("messages", "outbox.log")
}

// NewMessageTool creates a MessageTool writing to OutboxPath(ws).
func NewMessageTool(ws *workspace.Resolver) *MessageTool {
	return &MessageTool{outbox: OutboxPath(ws), now: time.Now}
}

func (t *MessageTool) Name() string { return string(ToolMessage) }
func (t *MessageTool) Description() string {
	return "Send a message to the user. Messages are recorded to the workspace outbox."
}
func (t *MessageTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"content": {
				"type": "string",
				"description": "The message content to send"
			},
			"channel": {
				"type": "string",
				"description": "Optional: target channel (default: local)"
			},
			"chat_id": {
				"type": "string",
				"description": "Optional: target chat/user ID (default: default)"
			}
		},
		"required": ["content"]
	}`)
}

func (t *MessageTool) Execute(_ context.Context, params map[string]any) *Result {
	content, ok := params["content"].(string)
	if !ok {
		return required("content")
	}
	channel := stringParam(params, "channel")
	if channel == "" {
		channel = defaultChannel
	}
	chatID := stringParam(params, "chat_id")
	if chatID == "" {
		chatID = defaultChatID
	}

	var line bytes.Buffer
	enc := json.NewEncoder(&line)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(OutboxRecord{
		Timestamp: t.now().Format(timestampFmt),
		Channel:   channel,
		ChatID:    chatID,
		Content:   content,
	}); err != nil {
		return Fail(KindInternal, "Error: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(t.outbox), 0o755); err != nil {
		return Fail(KindInternal, "Error writing message: %v", err)
	}
	f, err := os.OpenFile(t.outbox, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Fail(KindInternal, "Error writing message: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(line.Bytes()); err != nil {
		return Fail(KindInternal, "Error writing message: %v", err)
	}
	return OK(fmt.Sprintf("Message recorded to %s", t.outbox))
}
