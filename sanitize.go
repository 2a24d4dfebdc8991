package main

import (
	"strconv"
	"sync"
	"time"
)

var (
	stampMu   sync.Mutex
	lastStamp int64
)

// nextStamp returns a strictly increasing millisecond timestamp. Two uploads
// landing in the same millisecond get consecutive values, so stored names
// never collide even for identical original filenames.
func nextStamp() int64 {
	stampMu.Lock()
	defer stampMu.Unlock()
	now := time.Now().UnixMilli()
	if now <= lastStamp {
		now = lastStamp + 1
	}
	lastStamp = now
	return now
}

func allowedFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '-', r == '_':
		return true
	}
	return false
}

// sanitizeFilename derives the storage name for an untrusted original
// filename: a monotonic timestamp prefix, then the original with every
// character outside [a-zA-Z0-9.-_] replaced by an underscore. The extension
// survives the replacement, so downstream type detection keeps working.
// Never fails; an empty original produces "<stamp>-".
func sanitizeFilename(original string) string {
	stamp := strconv.FormatInt(nextStamp(), 10)

	cleaned := make([]rune, 0, len(original))
	for _, r := range original {
		if allowedFilenameRune(r) {
			cleaned = append(cleaned, r)
		} else {
			cleaned = append(cleaned, '_')
		}
	}

	return stamp + "-" + string(cleaned)
}
