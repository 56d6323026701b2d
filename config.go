package staticpress

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/eringen/staticpress/internal/metrics"
	"github.com/eringen/staticpress/views"
)

// DefaultConfigFile is read by LoadConfig when no path is given.
const DefaultConfigFile = "site.yaml"

// SiteConfig holds all configuration for a staticpress site. Values come
// from the YAML file, then the environment, then defaults for anything
// still empty.
type SiteConfig struct {
	Name        string `yaml:"name" env:"SITE_NAME"`
	URL         string `yaml:"url" env:"SITE_URL"`
	Description string `yaml:"description" env:"SITE_DESCRIPTION"`
	Author      string `yaml:"author" env:"SITE_AUTHOR"`
	AuthorURL   string `yaml:"author_url" env:"SITE_AUTHOR_URL"`
	Language    string `yaml:"language" env:"SITE_LANGUAGE"`

	Favicon    string `yaml:"favicon"`     // emoji (default "🫧")
	ThemeColor string `yaml:"theme_color"` // default "#ede7f6"

	Heading      string       `yaml:"heading"`
	Subheading   string       `yaml:"subheading"`
	BioIntro     string       `yaml:"bio_intro"`
	Bio          []string     `yaml:"bio"`
	ProfileImage string       `yaml:"profile_image"` // site path under the static dir
	Socials      []views.Link `yaml:"socials"`
	MadeWith     []views.Link `yaml:"made_with"`

	ContentDir   string `yaml:"content_dir" env:"CONTENT_DIR"`     // default "posts"
	StaticDir    string `yaml:"static_dir" env:"STATIC_DIR"`       // default "public"
	OutputDir    string `yaml:"output_dir" env:"OUTPUT_DIR"`       // default "out"
	ManifestPath string `yaml:"manifest_path" env:"MANIFEST_PATH"` // default "data/build.db"
	Addr         string `yaml:"addr" env:"ADDR"`                   // default ":3000"

	WordsPerMinute int           `yaml:"words_per_minute" env:"WORDS_PER_MINUTE"` // default 200
	CodeTheme      string        `yaml:"code_theme" env:"CODE_THEME"`             // chroma style, default "github"
	IconBase       string        `yaml:"icon_base" env:"ICON_BASE"`               // default "/icons"
	MaxImageWidth  int           `yaml:"max_image_width" env:"MAX_IMAGE_WIDTH"`   // default 1000
	Concurrency    int           `yaml:"concurrency" env:"CONCURRENCY"`           // default NumCPU
	HomePostLimit  int           `yaml:"home_posts" env:"HOME_POSTS"`             // default 3; -1 hides the list
	WatchDebounce  time.Duration `yaml:"watch_debounce" env:"WATCH_DEBOUNCE"`     // default 200ms
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Favicon == "" {
		c.Favicon = "🫧"
	}
	if c.ThemeColor == "" {
		c.ThemeColor = "#ede7f6"
	}
	if c.BioIntro == "" {
		c.BioIntro = "Some things about me:"
	}
	if c.MadeWith == nil {
		c.MadeWith = []views.Link{
			{Label: "Go", URL: "https://go.dev/"},
			{Label: "goldmark", URL: "https://github.com/yuin/goldmark"},
			{Label: "templ", URL: "https://templ.guide/"},
		}
	}
	if c.ContentDir == "" {
		c.ContentDir = "posts"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.ManifestPath == "" {
		c.ManifestPath = "data/build.db"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.WordsPerMinute == 0 {
		c.WordsPerMinute = 200
	}
	if c.CodeTheme == "" {
		c.CodeTheme = "github"
	}
	if c.IconBase == "" {
		c.IconBase = "/icons"
	}
	if c.MaxImageWidth == 0 {
		c.MaxImageWidth = 1000
	}
	if c.Concurrency == 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if c.HomePostLimit == 0 {
		c.HomePostLimit = 3
	}
	if c.WatchDebounce == 0 {
		c.WatchDebounce = 200 * time.Millisecond
	}
}

// Validate checks the settings that cannot be defaulted.
func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.URL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.WordsPerMinute, validation.Min(1)),
		validation.Field(&c.MaxImageWidth, validation.Min(1)),
		validation.Field(&c.Concurrency, validation.Min(1)),
		validation.Field(&c.HomePostLimit, validation.Min(-1)),
		validation.Field(&c.Socials, validation.Each(validation.By(linkRule))),
		validation.Field(&c.MadeWith, validation.Each(validation.By(linkRule))),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http or https URL")
	}
	return nil
}

func linkRule(value interface{}) error {
	l, _ := value.(views.Link)
	return validation.ValidateStruct(&l,
		validation.Field(&l.Label, validation.Required),
		validation.Field(&l.URL, validation.Required),
	)
}

// LoadConfig reads path (a missing file is fine), applies environment
// overrides and defaults, and validates the result. Load a .env file before
// calling this to have it take part.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path == "" {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config environment: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the preview server.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the logger used by every component (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRecorder sets where build and preview metrics go.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *App) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithContentFS reads posts from fsys instead of Config.ContentDir.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithStaticFS reads static assets from fsys instead of Config.StaticDir.
func WithStaticFS(fsys fs.FS) Option {
	return func(a *App) {
		a.staticFS = fsys
	}
}

// WithClock overrides the time source used for the footer year and build
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithMetricsHandler exposes h at /metrics on the preview server.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *App) {
		a.metricsHandler = h
	}
}
