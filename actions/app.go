package actions

import (
	"sync"

	"betonit/actions/rooms"
	"betonit/internal/realtime"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/buffalo/render"
	"github.com/gobuffalo/envy"
	"github.com/gobuffalo/middleware/contenttype"
	"github.com/gobuffalo/middleware/forcessl"
	"github.com/gobuffalo/middleware/paramlogger"
	"github.com/gobuffalo/x/sessions"
	"github.com/rs/cors"
	"github.com/unrolled/secure"
)

var ENV = envy.Get("GO_ENV", "development")

var (
	app     *buffalo.App
	appOnce sync.Once
	r       = render.New(render.Options{})
)

// App is the relay server. Peers of one session connect to /ws/{sessionID} and every frame one
// of them sends is forwarded to the others.
func App() *buffalo.App {
	appOnce.Do(func() {
		app = buffalo.New(buffalo.Options{
			Env:          ENV,
			Addr:         envy.Get("RELAY_ADDR", "0.0.0.0:3000"),
			SessionStore: sessions.Null{},
			PreWares: []buffalo.PreWare{
				cors.Default().Handler,
			},
			SessionName: "_betonit_relay_session",
		})

		app.Use(forceSSL())
		app.Use(paramlogger.ParameterLogger)
		app.Use(contenttype.Set("application/json"))

		app.GET("/healthz", HealthHandler)
		app.GET("/ws/{sessionID}", RelayWebSocketHandler)

		rooms.Register(app, rooms.NewRoomsController(realtime.Manager))
	})

	return app
}

func HealthHandler(c buffalo.Context) error {
	return c.Render(200, r.JSON(map[string]string{
		"status": "ok",
	}))
}

func forceSSL() buffalo.MiddlewareFunc {
	return forcessl.Middleware(secure.Options{
		SSLRedirect:     ENV == "production",
		SSLProxyHeaders: map[string]string{"X-Forwarded-Proto": "https"},
	})
}
