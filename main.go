package main

import (
	"log"
	"os"
	"os/exec"

	"github.com/gofiber/fiber/v3"
)

func main() {
	cfg := loadConfig()

	ffmpegPath, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		log.Fatalf("[config] %s not found on PATH, required for video transcoding", cfg.FFmpegPath)
	}
	log.Printf("[config] ffmpeg found at %s", ffmpegPath)

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatalf("[config] failed to create upload dir %s: %v", cfg.UploadDir, err)
	}

	srv := newServer(cfg, &ffmpegEncoder{binary: ffmpegPath})

	app := fiber.New(fiber.Config{
		BodyLimit: 1 << 30, // uploads can be large; ffmpeg shrinks them afterwards
	})
	srv.setupRoutes(app)

	log.Printf("[server] starting on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
