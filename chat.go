package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type chatMessage struct {
	ID   string    `json:"id"`
	User string    `json:"user"`
	Text string    `json:"text"`
	TS   time.Time `json:"ts"`
}

// chatLog is the persisted message log: one JSON object per line, loaded on
// startup, appended on post, rewritten on delete. Lines that fail to parse
// are skipped rather than taking the whole log down.
type chatLog struct {
	mu       sync.RWMutex
	messages []chatMessage
	filePath string
}

func newChatLog(filePath string) *chatLog {
	cl := &chatLog{filePath: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[chat] no log file at %s, starting empty", filePath)
		} else {
			log.Printf("[chat] failed to read log file %s: %v", filePath, err)
		}
		return cl
	}

	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var msg chatMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			log.Printf("[chat] skipping malformed log line: %v", err)
			continue
		}
		cl.messages = append(cl.messages, msg)
	}

	log.Printf("[chat] loaded %d messages from %s", len(cl.messages), filePath)
	return cl
}

func (cl *chatLog) all() []chatMessage {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	out := make([]chatMessage, len(cl.messages))
	copy(out, cl.messages)
	return out
}

// append stores a new message and writes it to the end of the log file.
func (cl *chatLog) append(user, text string) chatMessage {
	msg := chatMessage{
		ID:   uuid.NewString(),
		User: user,
		Text: text,
		TS:   time.Now().UTC(),
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.messages = append(cl.messages, msg)

	f, err := os.OpenFile(cl.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[chat] failed to open log file for append: %v", err)
		return msg
	}
	defer f.Close()

	line, _ := json.Marshal(msg)
	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Printf("[chat] failed to append message: %v", err)
	}

	return msg
}

// remove deletes a message by ID and rewrites the log file. Returns false
// when no message has that ID.
func (cl *chatLog) remove(id string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	idx := -1
	for i, msg := range cl.messages {
		if msg.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	cl.messages = append(cl.messages[:idx], cl.messages[idx+1:]...)
	cl.rewriteFile()
	return true
}

// rewriteFile writes the current state to disk. Must be called with cl.mu held.
func (cl *chatLog) rewriteFile() {
	var buf bytes.Buffer
	for _, msg := range cl.messages {
		line, _ := json.Marshal(msg)
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(cl.filePath, buf.Bytes(), 0644); err != nil {
		log.Printf("[chat] failed to rewrite log file: %v", err)
	}
}

// handleChatMessages returns the full message log.
// GET /chat-messages
func (s *server) handleChatMessages(c fiber.Ctx) error {
	return c.JSON(s.chat.all())
}

// handleChatPost appends one message. Anyone may post; only text is required.
// POST /chat-message
func (s *server) handleChatPost(c fiber.Ctx) error {
	var body struct {
		User string `json:"user"`
		Text string `json:"text"`
	}
	if err := c.Bind().JSON(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text is required",
		})
	}

	user := strings.TrimSpace(body.User)
	if user == "" {
		user = "Anonymous"
	}

	msg := s.chat.append(user, strings.TrimSpace(body.Text))
	log.Printf("[chat] message %s from %s", msg.ID, msg.User)
	return c.JSON(msg)
}

// handleChatDelete removes one message by ID. Admin only.
// POST /chat-delete
func (s *server) handleChatDelete(c fiber.Ctx) error {
	if !s.requireAdmin(c) {
		return nil
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id is required",
		})
	}

	if !s.chat.remove(body.ID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "message not found",
		})
	}

	log.Printf("[chat] deleted message %s", body.ID)
	return c.JSON(fiber.Map{
		"success": true,
	})
}
