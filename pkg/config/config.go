// Package config loads hydronet configuration from TOML.
//
// A configuration names the raw source tables and columns that the SQLite
// loader reads, the downstream-id sentinel, and the cache and log
// settings used by the CLI. [Default] returns the naming used by the Great
// Lakes barrier database; a TOML file only needs to list what differs:
//
//	[source]
//	sentinel = 0
//
//	[source.tables]
//	dams = "dams"
//
//	[source.fields.passability]
//	"04" = "PASS04"
//	"12" = "PASS12"
//
//	[cache]
//	ttl = "72h"
package config

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/hydronet/pkg/errors"
)

// Config is the complete configuration.
type Config struct {
	Source Source `toml:"source" json:"source"`
	Cache  Cache  `toml:"cache" json:"-"`
	Log    Log    `toml:"log" json:"-"`
}

// Source describes the raw tables read by the SQLite loader.
type Source struct {
	Tables Tables `toml:"tables" json:"tables"`
	Fields Fields `toml:"fields" json:"fields"`
	// Sentinel is the downstream-id value meaning "terminal".
	Sentinel int64 `toml:"sentinel" json:"sentinel"`
}

// Tables names the raw source tables.
type Tables struct {
	Barriers    string `toml:"barriers" json:"barriers"`
	Crossings   string `toml:"rsx" json:"rsx"`
	Dams        string `toml:"dams" json:"dams"`
	Flowlines   string `toml:"flowlines" json:"flowlines"`
	Catchments  string `toml:"catchments" json:"catchments"`
	Tributaries string `toml:"tributaries" json:"tributaries"`
}

// Fields names the raw source columns.
type Fields struct {
	// Barriers, crossings and dams
	BarrierID     string `toml:"barrier_id" json:"barrier_id"`
	BarrierDownID string `toml:"barrier_down_id" json:"barrier_down_id"`
	Country       string `toml:"country" json:"country"`
	FProp         string `toml:"fprop" json:"fprop"`
	Cost          string `toml:"cost" json:"cost"`
	// HabitatUp is optional; empty or absent from the table skips it.
	HabitatUp     string `toml:"habitat_up" json:"habitat_up"`
	BankfullWidth string `toml:"bankfull_width" json:"bankfull_width"`
	Drop          string `toml:"drop" json:"drop"`
	Height        string `toml:"height" json:"height"`
	// Passability maps a fish guild to its passability column.
	Passability map[string]string `toml:"passability" json:"passability"`

	// Flowlines
	ReachID     string `toml:"reach_id" json:"reach_id"`
	ReachDownID string `toml:"reach_down_id" json:"reach_down_id"`
	TributaryID string `toml:"tributary_id" json:"tributary_id"`
	Length      string `toml:"length" json:"length"`
	Order       string `toml:"order" json:"order"`

	// Catchments and tributaries
	CatchmentID     string `toml:"catchment_id" json:"catchment_id"`
	CatchmentDownID string `toml:"catchment_down_id" json:"catchment_down_id"`
	Area            string `toml:"area" json:"area"`
	Lake            string `toml:"lake" json:"lake"`
}

// Cache configures the record cache.
type Cache struct {
	Disabled bool          `toml:"disabled"`
	Dir      string        `toml:"dir"` // empty means the user cache directory
	TTL      time.Duration `toml:"ttl"`
}

// Log configures CLI logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Source: Source{
			Tables: Tables{
				Barriers:    "barriers",
				Crossings:   "RSX",
				Dams:        "dams_flowlines",
				Flowlines:   "flowlines",
				Catchments:  "catchments",
				Tributaries: "tributaries",
			},
			Fields: Fields{
				BarrierID:     "BID",
				BarrierDownID: "BID_DS",
				Country:       "NATION",
				FProp:         "F_PROP",
				Cost:          "COST",
				HabitatUp:     "HAB_UP",
				BankfullWidth: "BANKFULL",
				Drop:          "DROP",
				Height:        "HEIGHT",
				Passability: map[string]string{
					"04": "PASS04",
					"07": "PASS07",
					"10": "PASS10",
				},
				ReachID:         "RID",
				ReachDownID:     "RID_DS",
				TributaryID:     "TID",
				Length:          "Shape_Length",
				Order:           "STRAHLER",
				CatchmentID:     "HydroID",
				CatchmentDownID: "HydroID_DS",
				Area:            "WSAKM2",
				Lake:            "LAKE",
			},
			Sentinel: -1,
		},
		Cache: Cache{TTL: 7 * 24 * time.Hour},
		Log:   Log{Level: "info"},
	}
}

// Load reads the TOML file at path over the defaults and validates the
// result. Keys that do not belong to the configuration are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every table and column name is usable as a SQL
// identifier and that the cache and log settings are sane.
func (c *Config) Validate() error {
	t := c.Source.Tables
	for _, name := range []string{t.Barriers, t.Crossings, t.Dams, t.Flowlines, t.Catchments, t.Tributaries} {
		if err := errors.ValidateName("table", name); err != nil {
			return err
		}
	}
	f := c.Source.Fields
	for _, name := range []string{
		f.BarrierID, f.BarrierDownID, f.Country, f.FProp, f.Cost, f.BankfullWidth, f.Drop, f.Height,
		f.ReachID, f.ReachDownID, f.TributaryID, f.Length, f.Order,
		f.CatchmentID, f.CatchmentDownID, f.Area, f.Lake,
	} {
		if err := errors.ValidateName("field", name); err != nil {
			return err
		}
	}
	if f.HabitatUp != "" {
		if err := errors.ValidateName("field", f.HabitatUp); err != nil {
			return err
		}
	}
	for guild, column := range f.Passability {
		if err := errors.ValidateName("guild", guild); err != nil {
			return err
		}
		if err := errors.ValidateName("field", column); err != nil {
			return err
		}
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Guilds returns the configured passability guilds, sorted.
func (f Fields) Guilds() []string {
	guilds := make([]string, 0, len(f.Passability))
	for g := range f.Passability {
		guilds = append(guilds, g)
	}
	slices.Sort(guilds)
	return guilds
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "log level %q", c.Log.Level)
	}
	return lvl, nil
}
