// Package routes classifies request paths for the session guard.
package routes

import (
	"path"
	"strings"
)

const (
	Home                 = "/"
	AuthPage             = "/auth"
	DefaultLoginRedirect = "/dashboard"
	VerifyEmail          = "/api/verify-email"
	Health               = "/health"

	// AuthPrefix covers the sign-in page and the credential endpoints under it.
	AuthPrefix   = "/auth"
	StaticPrefix = "/static/"
)

// PublicRoutes are reachable without a session.
var PublicRoutes = []string{Home, AuthPage, VerifyEmail, Health}

var staticExtensions = map[string]bool{
	".ico": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".css": true, ".js": true, ".map": true,
	".txt": true, ".woff": true, ".woff2": true,
}

// IsPublic reports an exact allow-list match.
func IsPublic(p string) bool {
	for _, r := range PublicRoutes {
		if p == r {
			return true
		}
	}
	return false
}

// IsAuthRoute reports whether p belongs to the sign-in surface.
func IsAuthRoute(p string) bool {
	return strings.HasPrefix(p, AuthPrefix)
}

// IsStaticAsset reports paths the guard never intercepts.
func IsStaticAsset(p string) bool {
	if strings.HasPrefix(p, StaticPrefix) {
		return true
	}
	return staticExtensions[strings.ToLower(path.Ext(p))]
}
