package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	dc "geoeconomia/domain/config"

	"gopkg.in/yaml.v3"
)

type Config = dc.Config

// PathFromEnv returns CONFIG_PATH, defaulting to ./config.yml.
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config.yml"
}

// Load parses the YAML configuration file at path on top of the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	c := dc.Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("config.default", "path", path)
			return &c, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	fillDefaults(&c)
	slog.Info(fmt.Sprintf("Loaded config: %s", path))
	return &c, nil
}

// fillDefaults restores defaults for values explicitly blanked in the file.
func fillDefaults(c *Config) {
	d := dc.Default()
	setIfEmpty(&c.Data.Territorial, d.Data.Territorial)
	setIfEmpty(&c.Data.Activities, d.Data.Activities)
	setIfEmpty(&c.Data.GeoJSONKey, d.Data.GeoJSONKey)
	cols, dcols := &c.Data.Columns, d.Data.Columns
	setIfEmpty(&cols.Country, dcols.Country)
	setIfEmpty(&cols.Department, dcols.Department)
	setIfEmpty(&cols.District, dcols.District)
	setIfEmpty(&cols.Section, dcols.Section)
	setIfEmpty(&cols.Division, dcols.Division)
	setIfEmpty(&cols.Activity, dcols.Activity)
	setIfEmpty(&cols.MapKey, dcols.MapKey)
	setIfEmpty(&cols.Companies, dcols.Companies)
	setIfEmpty(&cols.Participation, dcols.Participation)
	setIfEmpty(&cols.Contribution, dcols.Contribution)
	setIfEmpty(&cols.Population, dcols.Population)
	setIfEmpty(&cols.PopulationPct, dcols.PopulationPct)
	if c.Dashboard.TopN <= 0 {
		c.Dashboard.TopN = d.Dashboard.TopN
	}
	setIfEmpty(&c.Dashboard.Country, d.Dashboard.Country)
	if len(c.Dashboard.Sentinels) == 0 {
		c.Dashboard.Sentinels = d.Dashboard.Sentinels
	}
	if c.Dashboard.Defaults == nil {
		c.Dashboard.Defaults = d.Dashboard.Defaults
	}
	setIfEmpty(&c.Web.Addr, d.Web.Addr)
	setIfEmpty(&c.Web.UI, d.Web.UI)
}

func setIfEmpty(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
