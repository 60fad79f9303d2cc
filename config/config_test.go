package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {

	t.Setenv("BUCKET", "uploads")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("BUCKET_PREFIX", "public/")
	t.Setenv("TRUSTED_ISSUER", "https://issuer.example.com")
	t.Setenv("ALLOWED_SUBJECTS", "alice, bob,,carol ")
	t.Setenv("MAX_AGE", "48h")

	cfg, err := FromEnv()
	require.Nil(t, err)

	assert.Equal(t, "uploads", cfg.Bucket)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "public/", cfg.Prefix)
	assert.Equal(t, "https://issuer.example.com", cfg.TrustedIssuer)
	assert.Equal(t, []string{"alice", "bob", "carol"}, cfg.AllowedSubjects)
	assert.Equal(t, 48*time.Hour, cfg.MaxAge)
	assert.True(t, cfg.AuthEnabled())
}

func TestFromEnvBucketRequired(t *testing.T) {
	t.Setenv("BUCKET", "")
	_, err := FromEnv()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "BUCKET")
}

func TestFromEnvUnauthenticatedMode(t *testing.T) {

	t.Setenv("BUCKET", "uploads")
	t.Setenv("TRUSTED_ISSUER", "")
	t.Setenv("ALLOWED_SUBJECTS", "")

	cfg, err := FromEnv()
	require.Nil(t, err)
	assert.False(t, cfg.AuthEnabled())
	assert.Zero(t, cfg.MaxAge)
}

func TestFromEnvAuthRequiresAllowList(t *testing.T) {

	t.Setenv("BUCKET", "uploads")
	t.Setenv("TRUSTED_ISSUER", "https://issuer.example.com")
	t.Setenv("ALLOWED_SUBJECTS", "")

	_, err := FromEnv()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "ALLOWED_SUBJECTS")
}

func TestFromEnvInvalidMaxAge(t *testing.T) {

	t.Setenv("BUCKET", "uploads")
	t.Setenv("MAX_AGE", "yesterday")

	_, err := FromEnv()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "MAX_AGE")
}
