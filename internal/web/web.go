// Package web holds the browser front-end: the page template and the static
// assets it loads.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Static returns the asset tree with the static/ prefix stripped
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// static is embedded at build time, Sub cannot fail on it
		panic("web: " + err.Error())
	}
	return sub
}

// Templates parses the page templates
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFiles, "templates/*.html")
}

// Page is the data the index template renders
type Page struct {
	Title      string
	SongsAPI   string
	StaticBase string
	Version    string
}
