package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"time"
)

// Encoder turns a stored video file into a web-friendly copy at outputPath.
// The concrete implementation shells out to ffmpeg; tests inject a fake so
// the pipeline can be exercised without a real subprocess.
type Encoder interface {
	Encode(ctx context.Context, inputPath, outputPath string) error
}

// ffmpegEncoder invokes ffmpeg with a fixed argument template: rescale to
// 720p (even width, aspect preserved), ~1.5 Mbps video capped at 2 Mbps with
// a 3 Mbps buffer, 128 kbps AAC audio, and faststart so the moov atom sits at
// the front of the file. -y always overwrites: output names are derived
// deterministically and may pre-exist from a retried request.
type ffmpegEncoder struct {
	binary string
}

func ffmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vf", "scale=-2:720",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-b:v", "1500k",
		"-maxrate", "2000k",
		"-bufsize", "3000k",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		outputPath,
	}
}

func (e *ffmpegEncoder) Encode(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, e.binary, ffmpegArgs(inputPath, outputPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Printf("[transcode] running: %s -y -i %s ... %s", e.binary, inputPath, outputPath)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("ffmpeg failed: %s", stderr.String())
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	log.Printf("[transcode] done in %s: %s", time.Since(start), outputPath)
	return nil
}

// transcoder wraps an Encoder with a semaphore bounding the number of
// concurrent encode subprocesses, and a per-job timeout so a hung encoder
// cannot pin a request forever. Without the bound, a burst of video uploads
// would launch one CPU-heavy ffmpeg per request.
type transcoder struct {
	enc     Encoder
	slots   chan struct{}
	timeout time.Duration
}

func newTranscoder(enc Encoder, maxConcurrent int, timeout time.Duration) *transcoder {
	return &transcoder{
		enc:     enc,
		slots:   make(chan struct{}, maxConcurrent),
		timeout: timeout,
	}
}

// transcode blocks until a slot is free (or ctx is done), then runs a single
// encode job. No retries; the caller decides what a failure means.
func (t *transcoder) transcode(ctx context.Context, inputPath, outputPath string) error {
	select {
	case t.slots <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("waiting for transcode slot: %w", ctx.Err())
	}
	defer func() { <-t.slots }()

	jobCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return t.enc.Encode(jobCtx, inputPath, outputPath)
}
