package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/miniapp/internal/app"
	"github.com/nfrund/miniapp/web"
)

// RegisterRoutes sets up the application routes and boots the modules.
func (s *Server) RegisterRoutes() error {
	s.E.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, app.MiniAppPath)
	})
	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	return s.bootModules()
}
