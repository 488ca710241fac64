package server

import (
	"net/http"

	"github.com/nfrund/miniapp/internal/config"
)

// sameSiteMode picks the cookie SameSite mode. Production pages are framed
// by the chat app, which requires None (and therefore Secure) cookies.
func sameSiteMode(cfg *config.Config) http.SameSite {
	if cfg.IsDevelopment() {
		return http.SameSiteLaxMode
	}
	return http.SameSiteNoneMode
}
