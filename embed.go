package staticpress

import "embed"

// EmbeddedAssets contains the stock stylesheet shipped with the engine.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

const (
	stylesheetPath     = "assets/style.css"
	codeStylesheetPath = "assets/code.css"
)

func stylesheet() ([]byte, error) {
	return EmbeddedAssets.ReadFile("embedded/style.css")
}
