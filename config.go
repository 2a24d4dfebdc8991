package main

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs, built once in main and never
// mutated afterwards. Components receive it by reference instead of reading
// the environment themselves.
type Config struct {
	Addr      string
	UploadDir string
	PublicDir string

	AdminUser string // fixed "admin", kept here so tests can see it in one place
	AdminPass string

	FFmpegPath    string
	MaxTranscodes int
	EncodeTimeout time.Duration
	TokenLifetime time.Duration

	ChatLogPath string

	// Optional S3-compatible mirror. Mirroring is disabled when Bucket is empty.
	MirrorBucket    string
	MirrorEndpoint  string
	MirrorAccessKey string
	MirrorSecretKey string
}

// loadConfig reads the environment (after an optional .env file) and builds
// the Config. Missing ADMIN_PASS is fatal: the server refuses to start with
// an implicit default secret.
func loadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using system environment")
	} else {
		log.Println("[config] loaded .env file")
	}

	cfg := &Config{
		Addr:      ":" + getEnv("PORT", "3000"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		PublicDir: getEnv("PUBLIC_DIR", "public"),

		AdminUser: "admin",
		AdminPass: os.Getenv("ADMIN_PASS"),

		FFmpegPath:    getEnv("FFMPEG_PATH", "ffmpeg"),
		MaxTranscodes: getEnvInt("MAX_TRANSCODES", runtime.NumCPU()),
		EncodeTimeout: getEnvDuration("FFMPEG_TIMEOUT", 10*time.Minute),
		TokenLifetime: getEnvDuration("TOKEN_LIFETIME", 12*time.Hour),

		MirrorBucket:    os.Getenv("MIRROR_BUCKET"),
		MirrorEndpoint:  os.Getenv("MIRROR_ENDPOINT"),
		MirrorAccessKey: os.Getenv("MIRROR_ACCESS_KEY_ID"),
		MirrorSecretKey: os.Getenv("MIRROR_SECRET_ACCESS_KEY"),
	}
	cfg.ChatLogPath = getEnv("CHAT_LOG", filepath.Join(filepath.Dir(cfg.UploadDir), "chat.jsonl"))

	if cfg.AdminPass == "" {
		log.Fatal("[config] ADMIN_PASS is required, refusing to start without one")
	}

	if cfg.MaxTranscodes < 1 {
		log.Printf("[config] MAX_TRANSCODES %d invalid, using 1", cfg.MaxTranscodes)
		cfg.MaxTranscodes = 1
	}

	log.Printf("[config] addr=%s uploadDir=%s maxTranscodes=%d encodeTimeout=%s mirror=%v",
		cfg.Addr, cfg.UploadDir, cfg.MaxTranscodes, cfg.EncodeTimeout, cfg.MirrorBucket != "")
	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[config] invalid %s %q, using default %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("[config] invalid %s %q, using default %s", key, raw, fallback)
		return fallback
	}
	return d
}
