package service

import (
	"bytes"
	"embed"
	"io/fs"

	"github.com/airenas/hello-form/internal/dom"
)

//go:embed web
var webFS embed.FS

//go:embed web/index.html
var indexHTML []byte

func staticFS() (fs.FS, error) {
	return fs.Sub(webFS, "web/static")
}

// PageDocument parses the served page, sessions mirror it
func PageDocument() (*dom.Document, error) {
	return dom.Parse(bytes.NewReader(indexHTML))
}
