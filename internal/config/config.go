// Package config loads cardgraph settings from defaults, a YAML file,
// CARDGRAPH_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/cardgraph/pkg/layout"
	"github.com/matzehuels/cardgraph/pkg/route"
)

// EnvPrefix is the prefix of environment overrides. The first underscore
// after the prefix separates the section from the key, so
// CARDGRAPH_LAYOUT_CARD_WIDTH sets layout.card_width.
const EnvPrefix = "CARDGRAPH_"

// DefaultFiles are searched in the working directory when no explicit
// config file is given.
var DefaultFiles = []string{"cardgraph.yaml", "cardgraph.yml"}

// Config is the fully resolved configuration.
type Config struct {
	Layout layout.Config `koanf:"layout"`
	Route  route.Config  `koanf:"route"`
	Screen Screen        `koanf:"screen"`
	Server Server        `koanf:"server"`
}

// Screen is the initial viewport size in pixels.
type Screen struct {
	Width  float64 `koanf:"width"`
	Height float64 `koanf:"height"`
}

// Server configures the HTTP front end.
type Server struct {
	Addr string `koanf:"addr"`
	// Watch reloads the graph file when it changes on disk.
	Watch bool `koanf:"watch"`
}

// flagKeys maps flag names to config keys. Flags not listed here are not
// configuration and are ignored by the loader.
var flagKeys = map[string]string{
	"card-width":      "layout.card_width",
	"card-height":     "layout.card_height",
	"h-gap":           "layout.horizontal_gap",
	"v-gap":           "layout.vertical_gap",
	"center-children": "layout.center_children",
	"width":           "screen.width",
	"height":          "screen.height",
	"addr":            "server.addr",
	"watch":           "server.watch",
}

var (
	k        = koanf.New(".")
	fileUsed string
)

// Reset discards the loaded state. Used by tests.
func Reset() {
	k = koanf.New(".")
	fileUsed = ""
}

// FileUsed returns the config file read by the last [Load], or "".
func FileUsed() string { return fileUsed }

// Defaults returns the built-in configuration.
func Defaults() Config {
	rc := route.DefaultConfig()
	rc.BandGap = 0
	return Config{
		Layout: layout.DefaultConfig(),
		Route:  rc,
		Screen: Screen{Width: 1280, Height: 800},
		Server: Server{Addr: ":8080"},
	}
}

func defaultMap() map[string]interface{} {
	d := Defaults()
	return map[string]interface{}{
		"layout.card_width":       d.Layout.CardWidth,
		"layout.card_height":      d.Layout.CardHeight,
		"layout.horizontal_gap":   d.Layout.HorizontalGap,
		"layout.vertical_gap":     d.Layout.VerticalGap,
		"layout.root_x":           d.Layout.RootX,
		"layout.root_y":           d.Layout.RootY,
		"layout.center_children":  d.Layout.CenterChildren,
		"route.min_lane_spacing":  d.Route.MinLaneSpacing,
		"route.max_lane_spacing":  d.Route.MaxLaneSpacing,
		"route.lane_fraction":     d.Route.LaneFraction,
		"route.fan_step":          d.Route.FanStep,
		"route.max_fan_spread":    d.Route.MaxFanSpread,
		"route.align_tolerance":   d.Route.AlignTolerance,
		"route.min_segment":       d.Route.MinSegment,
		"route.collision_padding": d.Route.CollisionPadding,
		"route.band_gap":          d.Route.BandGap,
		"screen.width":            d.Screen.Width,
		"screen.height":           d.Screen.Height,
		"server.addr":             d.Server.Addr,
		"server.watch":            d.Server.Watch,
	}
}

func findFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey turns CARDGRAPH_LAYOUT_CARD_WIDTH into layout.card_width.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Load resolves the configuration. Precedence from highest to lowest:
// flags, environment, config file, defaults. Only flags that were
// explicitly set take part.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	fileUsed = findFile(cfgFile)
	if fileUsed != "" {
		if err := k.Load(file.Provider(fileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", fileUsed, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects geometry that would make layout or fitting meaningless.
func (c *Config) Validate() error {
	switch {
	case c.Layout.CardWidth <= 0 || c.Layout.CardHeight <= 0:
		return fmt.Errorf("layout: card size must be positive (got %gx%g)", c.Layout.CardWidth, c.Layout.CardHeight)
	case c.Layout.HorizontalGap < 0 || c.Layout.VerticalGap < 0:
		return fmt.Errorf("layout: gaps must not be negative")
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("screen: size must be positive (got %gx%g)", c.Screen.Width, c.Screen.Height)
	case c.Route.MinLaneSpacing > c.Route.MaxLaneSpacing:
		return fmt.Errorf("route: min_lane_spacing %g exceeds max_lane_spacing %g",
			c.Route.MinLaneSpacing, c.Route.MaxLaneSpacing)
	}
	return nil
}
