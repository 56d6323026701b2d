package views

// Link is a labelled URL shown in navigation, the footer or the home page.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Image describes a static image with its intrinsic size. Width and Height
// are zero when the size is unknown.
type Image struct {
	Src    string `yaml:"src"`
	Alt    string `yaml:"alt"`
	Width  int    `yaml:"-"`
	Height int    `yaml:"-"`
}

// SiteConfig holds everything the templates need about the site. Nothing
// in the views is hardcoded beyond markup.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
	AuthorURL   string
	Language    string

	// Favicon is a single emoji drawn into an inline SVG icon.
	Favicon    string
	ThemeColor string

	Heading    string
	Subheading string
	BioIntro   string
	Bio        []string
	Profile    Image

	Nav      []Link
	Socials  []Link
	MadeWith []Link

	Stylesheets []string
	FeedURL     string
	Year        int
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}
