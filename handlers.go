package staticpress

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/staticpress/internal/logfields"
)

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/"+stylesheetPath, a.handleStylesheet)
	e.GET("/"+codeStylesheetPath, a.handleCodeStylesheet)
	e.GET("/healthz", a.handleHealth)
	if a.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(a.metricsHandler))
	}

	e.GET("/", a.handlePage)
	e.GET("/posts", a.handlePage)
	e.GET("/posts/*", a.handlePage)
	e.GET("/tags", a.handlePage)
	e.GET("/tags/*", a.handlePage)

	// Everything else comes from the processed static dir.
	e.GET("/*", a.handleStatic)
}

// current returns the build requests are answered from.
func (a *App) current() (*Build, error) {
	b := a.Cache.Current()
	if b == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "site not built yet")
	}
	return b, nil
}

func (a *App) handlePage(c echo.Context) error {
	b, err := a.current()
	if err != nil {
		return err
	}
	page, err := b.Site.Resolve(c.Request().URL.EscapedPath())
	if errors.Is(err, ErrNotFound) {
		return RenderPage(c, b.Site.NotFoundPage())
	}
	if err != nil {
		return err
	}
	return RenderPage(c, page)
}

func (a *App) handleFeed(c echo.Context) error {
	b, err := a.current()
	if err != nil {
		return err
	}
	data, err := b.Site.Feed()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", data)
}

func (a *App) handleSitemap(c echo.Context) error {
	b, err := a.current()
	if err != nil {
		return err
	}
	data, err := b.Site.Sitemap()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", data)
}

func (a *App) handleRobots(c echo.Context) error {
	b, err := a.current()
	if err != nil {
		return err
	}
	if f, ok := b.Assets.Get("robots.txt"); ok {
		return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, f.Data)
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, b.Site.Robots())
}

func (a *App) handleStylesheet(c echo.Context) error {
	data, err := stylesheet()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", data)
}

func (a *App) handleCodeStylesheet(c echo.Context) error {
	b, err := a.current()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(b.CodeCSS))
}

func (a *App) handleStatic(c echo.Context) error {
	b, err := a.current()
	if err != nil {
		return err
	}
	f, ok := b.Assets.Get(c.Request().URL.Path)
	if !ok {
		return echo.ErrNotFound
	}
	ctype := mime.TypeByExtension(path.Ext(f.Path))
	if ctype == "" {
		ctype = http.DetectContentType(f.Data)
	}
	return c.Blob(http.StatusOK, ctype, f.Data)
}

type healthResponse struct {
	Status    string    `json:"status"`
	Posts     int       `json:"posts"`
	Invalid   int       `json:"invalid"`
	LoadedAt  time.Time `json:"loaded_at"`
	LastError string    `json:"last_error,omitempty"`
}

func (a *App) handleHealth(c echo.Context) error {
	st := a.Cache.Status()
	resp := healthResponse{Status: "ok", LoadedAt: st.LoadedAt}
	if b := a.Cache.Current(); b != nil {
		resp.Posts = b.Site.Registry.Len()
		resp.Invalid = len(b.Invalid)
	} else {
		resp.Status = "starting"
	}
	if st.LastError != nil {
		resp.Status = "degraded"
		resp.LastError = st.LastError.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	code := http.StatusInternalServerError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code == http.StatusNotFound {
		if b := a.Cache.Current(); b != nil {
			_ = RenderPage(c, b.Site.NotFoundPage())
			return
		}
	}
	if code >= 500 {
		a.logger.Error("Server error",
			logfields.Method(c.Request().Method),
			logfields.Route(c.Request().URL.Path),
			logfields.Error(err))
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
