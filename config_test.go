package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("MEDIA_TEST_STR", "value")
	assert.Equal(t, "value", getEnv("MEDIA_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getEnv("MEDIA_TEST_STR_UNSET", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("MEDIA_TEST_INT", "7")
	assert.Equal(t, 7, getEnvInt("MEDIA_TEST_INT", 3))

	t.Setenv("MEDIA_TEST_INT", "not-a-number")
	assert.Equal(t, 3, getEnvInt("MEDIA_TEST_INT", 3))

	assert.Equal(t, 3, getEnvInt("MEDIA_TEST_INT_UNSET", 3))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("MEDIA_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("MEDIA_TEST_DUR", time.Minute))

	t.Setenv("MEDIA_TEST_DUR", "ninety")
	assert.Equal(t, time.Minute, getEnvDuration("MEDIA_TEST_DUR", time.Minute))
}

func TestExpectedBasic(t *testing.T) {
	// base64("admin:secret")
	assert.Equal(t, "Basic YWRtaW46c2VjcmV0", expectedBasic("admin", "secret"))
}
