// Package config provides the gridwarp configuration loader.
// Config is loaded by merging factory defaults → the JSON config file → GRIDWARP_* env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/f9-o/gridwarp/pkg/errs"
)

// DefaultPath is used when no config path is given on the command line.
const DefaultPath = "config.json"

// Default bindings: regions under the left hand, cells under the right hand.
var (
	DefaultRegionKeys = []string{
		"1", "2", "3", "4",
		"q", "w", "e", "r",
		"a", "s", "d", "f",
		"z", "x", "c", "v",
	}
	DefaultGridKeys = []string{
		"y", "u", "i", "o", "p",
		"h", "j", "k", "l", "semicolon",
		"n", "m", "comma", "period", "slash",
	}
)

// Defaults contains factory-default values applied before any config file is loaded.
var Defaults = map[string]any{
	"bindings.region":                   DefaultRegionKeys,
	"bindings.grid":                     DefaultGridKeys,
	"bindings.prev_screen":              "minus",
	"bindings.next_screen":              "equal",
	"bindings.skip_to_cell":             "space",
	"bindings.back":                     "backspace",
	"bindings.confirm":                  "enter",
	"bindings.quit":                     "escape",
	"bindings.click.left":               "g",
	"bindings.click.left_and_exit":      "t",
	"bindings.click.middle":             "b",
	"bindings.click.right":              "5",
	"bindings.click.press_down":         "6",
	"bindings.click.press_up":           "7",
	"bindings.scroll.up":                "pageup",
	"bindings.scroll.down":              "pagedown",
	"bindings.scroll.left":              "home",
	"bindings.scroll.right":             "end",
	"bindings.move.up":                  "up",
	"bindings.move.down":                "down",
	"bindings.move.left":                "left",
	"bindings.move.right":               "right",
	"bindings.speed_modifier.quarter":   "lcontrol",
	"bindings.speed_modifier.half":      "lalt",
	"bindings.speed_modifier.double":    "lshift",
	"bindings.speed_modifier.quadruple": "rshift",
	"scroll_speed":                      3.0,
	"movement_speed":                    10.0,
	"primary_offset_x":                  0,
	"primary_offset_y":                  0,
	"frame_rate":                        60,
	"style.grid_color":                  "#C8C8C8",
	"style.region_color":                "#7B8CDE",
	"style.cell_color":                  "#FC766A",
	"style.pointer_color":               "#56E0C8",
	"style.label_color":                 "#E2E8F0",
	"log.level":                         "info",
	"log.format":                        "text",
}

// ─────────────────────────────────────────────────────────────────────────────
// Config types
// ─────────────────────────────────────────────────────────────────────────────

// Config is the fully-decoded configuration.
type Config struct {
	Bindings       Bindings    `mapstructure:"bindings"`
	ScrollSpeed    float64     `mapstructure:"scroll_speed"`
	MovementSpeed  float64     `mapstructure:"movement_speed"`
	PrimaryOffsetX int         `mapstructure:"primary_offset_x"`
	PrimaryOffsetY int         `mapstructure:"primary_offset_y"`
	FrameRate      int         `mapstructure:"frame_rate"`
	Style          StyleConfig `mapstructure:"style"`
	Log            LogConfig   `mapstructure:"log"`

	// Path is the file the config was read from.
	Path string `mapstructure:"-"`
}

// Bindings holds the raw key names of every semantic action.
type Bindings struct {
	Region        []string          `mapstructure:"region"`
	Grid          []string          `mapstructure:"grid"`
	PrevScreen    string            `mapstructure:"prev_screen"`
	NextScreen    string            `mapstructure:"next_screen"`
	SkipToCell    string            `mapstructure:"skip_to_cell"`
	Back          string            `mapstructure:"back"`
	Confirm       string            `mapstructure:"confirm"`
	Quit          string            `mapstructure:"quit"`
	Click         ClickBindings     `mapstructure:"click"`
	Scroll        DirectionBindings `mapstructure:"scroll"`
	Move          DirectionBindings `mapstructure:"move"`
	SpeedModifier SpeedBindings     `mapstructure:"speed_modifier"`
}

// ClickBindings names the pointer button keys.
type ClickBindings struct {
	Left        string `mapstructure:"left"`
	LeftAndExit string `mapstructure:"left_and_exit"`
	Middle      string `mapstructure:"middle"`
	Right       string `mapstructure:"right"`
	PressDown   string `mapstructure:"press_down"`
	PressUp     string `mapstructure:"press_up"`
}

// DirectionBindings names one key per direction (scroll and move groups).
type DirectionBindings struct {
	Up    string `mapstructure:"up"`
	Down  string `mapstructure:"down"`
	Left  string `mapstructure:"left"`
	Right string `mapstructure:"right"`
}

// SpeedBindings names the movement speed modifier keys.
type SpeedBindings struct {
	Quarter   string `mapstructure:"quarter"`
	Half      string `mapstructure:"half"`
	Double    string `mapstructure:"double"`
	Quadruple string `mapstructure:"quadruple"`
}

// StyleConfig is presentation only; the terminal simulator uses it for colours.
type StyleConfig struct {
	GridColor    string `mapstructure:"grid_color"`
	RegionColor  string `mapstructure:"region_color"`
	CellColor    string `mapstructure:"cell_color"`
	PointerColor string `mapstructure:"pointer_color"`
	LabelColor   string `mapstructure:"label_color"`
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `mapstructure:"level"` // debug | info | warn | error
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // json | text
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Load reads the JSON config at path (DefaultPath when empty), layered over
// Defaults and under GRIDWARP_* environment variables. Every failure is fatal
// to the caller: a missing file, a malformed document, or a semantic error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	// GRIDWARP_MOVEMENT_SPEED → movement_speed
	v.SetEnvPrefix("GRIDWARP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.New(errs.ErrConfigMissing, "config.load", err).
				WithTarget(path).
				WithAdvice("create one with 'gridwarp init' or pass the config path as the first argument")
		}
		return nil, errs.New(errs.ErrConfigMissing, "config.load", err).WithTarget(path)
	}

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, errs.New(errs.ErrConfigParse, "config.load", err).
			WithTarget(path).
			WithAdvice("the config file must be a JSON object; see 'gridwarp init' for the layout")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.New(errs.ErrConfigParse, "config.unmarshal", err).WithTarget(path)
	}
	cfg.Path = path

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the factory configuration without touching the filesystem.
func Default() *Config {
	v := viper.New()
	for k, val := range Defaults {
		v.SetDefault(k, val)
	}
	var cfg Config
	// Defaults are static; a decode failure here is a programming error.
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("gridwarp: default config: %v", err))
	}
	return &cfg
}

// validate performs semantic validation on the loaded config. Key names are
// resolved later by the keymap package.
func validate(cfg *Config) error {
	if n := len(cfg.Bindings.Region); n != 16 {
		return errs.Newf(errs.ErrValidation, "config.validate", "expected 16 region keys, got %d", n).
			WithTarget("bindings.region")
	}
	if n := len(cfg.Bindings.Grid); n != 15 {
		return errs.Newf(errs.ErrValidation, "config.validate", "expected 15 grid keys, got %d", n).
			WithTarget("bindings.grid")
	}
	if cfg.ScrollSpeed < 0 {
		return errs.Newf(errs.ErrValidation, "config.validate", "scroll_speed must not be negative").
			WithTarget("scroll_speed")
	}
	if cfg.MovementSpeed < 0 {
		return errs.Newf(errs.ErrValidation, "config.validate", "movement_speed must not be negative").
			WithTarget("movement_speed")
	}
	if cfg.FrameRate <= 0 || cfg.FrameRate > 1000 {
		return errs.Newf(errs.ErrValidation, "config.validate", "frame_rate must be in 1..1000, got %d", cfg.FrameRate).
			WithTarget("frame_rate")
	}
	return nil
}

// gridwarpHome returns the gridwarp home directory (~/.gridwarp).
func gridwarpHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gridwarp"
	}
	return filepath.Join(home, ".gridwarp")
}

// Home is the exported variant for use by other packages.
func Home() string {
	return gridwarpHome()
}

// DefaultConfigTemplate is the content written by `gridwarp init`.
const DefaultConfigTemplate = `{
  "bindings": {
    "region": ["1", "2", "3", "4",
               "q", "w", "e", "r",
               "a", "s", "d", "f",
               "z", "x", "c", "v"],
    "grid": ["y", "u", "i", "o", "p",
             "h", "j", "k", "l", "semicolon",
             "n", "m", "comma", "period", "slash"],
    "prev_screen": "minus",
    "next_screen": "equal",
    "skip_to_cell": "space",
    "back": "backspace",
    "confirm": "enter",
    "quit": "escape",
    "click": {
      "left": "g",
      "left_and_exit": "t",
      "middle": "b",
      "right": "5",
      "press_down": "6",
      "press_up": "7"
    },
    "scroll": { "up": "pageup", "down": "pagedown", "left": "home", "right": "end" },
    "move": { "up": "up", "down": "down", "left": "left", "right": "right" },
    "speed_modifier": {
      "quarter": "lcontrol",
      "half": "lalt",
      "double": "lshift",
      "quadruple": "rshift"
    }
  },
  "scroll_speed": 3,
  "movement_speed": 10,
  "primary_offset_x": 0,
  "primary_offset_y": 0,
  "frame_rate": 60,
  "style": {
    "grid_color": "#C8C8C8",
    "region_color": "#7B8CDE",
    "cell_color": "#FC766A",
    "pointer_color": "#56E0C8",
    "label_color": "#E2E8F0"
  },
  "log": { "level": "info", "format": "text" }
}
`
