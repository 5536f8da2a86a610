// Package widgets keeps the static options of the timeline and category tree widgets.
// The widgets render in the browser; here they are only initialized.
package widgets

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/airenas/hello-form/internal/dom"
	"gopkg.in/yaml.v3"
)

const (
	Timeline = "timeline"
	Tree     = "tree"
)

//go:embed widgets.yaml
var defaults []byte

// Widget is one widget initialization
type Widget struct {
	Target  string         `yaml:"target"`
	Options map[string]any `yaml:"options"`
}

// Config holds all widgets of the page
type Config struct {
	Timeline *Widget `yaml:"timeline"`
	Tree     *Widget `yaml:"tree"`
}

// Load returns the embedded defaults
func Load() (*Config, error) {
	return Read(bytes.NewReader(defaults))
}

// LoadFile reads widgets from file, empty name returns the defaults
func LoadFile(name string) (*Config, error) {
	if name == "" {
		return Load()
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("can't open '%s': %w", name, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses widgets yaml
func Read(r io.Reader) (*Config, error) {
	res := &Config{}
	if err := yaml.NewDecoder(r).Decode(res); err != nil {
		return nil, fmt.Errorf("can't decode widgets: %w", err)
	}
	for name, w := range map[string]*Widget{Timeline: res.Timeline, Tree: res.Tree} {
		if w != nil && w.Target == "" {
			return nil, fmt.Errorf("no target for %s", name)
		}
	}
	return res, nil
}

// Hooks returns ready hooks initializing the configured widgets, timeline first
func (c *Config) Hooks() []dom.ReadyHook {
	var res []dom.ReadyHook
	add := func(name string, w *Widget) {
		if w == nil {
			return
		}
		res = append(res, func(p *dom.Page) error {
			return p.InitWidget(name, w.Target, w.Options)
		})
	}
	add(Timeline, c.Timeline)
	add(Tree, c.Tree)
	return res
}
