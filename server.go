package main

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/v3/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cache"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/utils/v2"
)

type server struct {
	cfg        *Config
	transcoder *transcoder
	chat       *chatLog
	hub        *wsHub
	mirror     *mirrorStore

	// precomputed expected Authorization header for the Basic credential
	basicCredential string
}

func newServer(cfg *Config, enc Encoder) *server {
	return &server{
		cfg:             cfg,
		transcoder:      newTranscoder(enc, cfg.MaxTranscodes, cfg.EncodeTimeout),
		chat:            newChatLog(cfg.ChatLogPath),
		hub:             newWSHub(),
		mirror:          newMirrorStore(cfg),
		basicCredential: expectedBasic(cfg.AdminUser, cfg.AdminPass),
	}
}

func (s *server) setupRoutes(app *fiber.App) {
	// request logging
	app.Use(func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Printf("[http] %s %s %d %s", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	// rate limiter
	app.Use(limiter.New(limiter.Config{
		Next: func(c fiber.Ctx) bool {
			return c.IP() == "127.0.0.1"
		},
		Max:        60,
		Expiration: 1 * time.Minute,
	}))

	// CORS
	app.Use(cors.New(cors.Config{
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	// HTTP cache for stored files only. Stored names are unique by
	// construction, so the bytes behind /uploads/<name> never change.
	app.Use(cache.New(cache.Config{
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return utils.CopyString(c.Path())
		},
		Next: func(c fiber.Ctx) bool {
			return !strings.HasPrefix(c.Path(), "/uploads/")
		},
	}))

	// gallery surface
	app.Get("/images", s.handleListImages)
	app.Get("/gallery/ws", websocket.New(s.handleWebSocket))

	// admin surface
	app.Get("/admin-check", s.handleAdminCheck)
	app.Get("/auth/token", s.handleAuthToken)
	app.Post("/upload", s.handleUpload)
	app.Post("/delete", s.handleDelete)

	// chat
	app.Get("/chat-messages", s.handleChatMessages)
	app.Post("/chat-message", s.handleChatPost)
	app.Post("/chat-delete", s.handleChatDelete)

	// stored files and the static UI
	app.Use("/uploads", static.New(s.cfg.UploadDir))
	app.Use("/", static.New(s.cfg.PublicDir))
}
