package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPublic(t *testing.T) {
	for _, p := range []string{"/", "/auth", "/api/verify-email", "/health"} {
		assert.True(t, IsPublic(p), p)
	}
	for _, p := range []string{"/dashboard", "/auth/", "/api/session", "/api/verify-email/x", ""} {
		assert.False(t, IsPublic(p), p)
	}
}

func TestIsAuthRoute(t *testing.T) {
	assert.True(t, IsAuthRoute("/auth"))
	assert.True(t, IsAuthRoute("/auth/login"))
	assert.True(t, IsAuthRoute("/authors"), "prefix match")
	assert.False(t, IsAuthRoute("/dashboard"))
	assert.False(t, IsAuthRoute("/api/auth"))
}

func TestIsStaticAsset(t *testing.T) {
	for _, p := range []string{"/favicon.ico", "/static/app.css", "/static/", "/img/logo.PNG", "/bundle.js.map"} {
		assert.True(t, IsStaticAsset(p), p)
	}
	for _, p := range []string{"/", "/dashboard", "/api/session", "/auth/login"} {
		assert.False(t, IsStaticAsset(p), p)
	}
}
