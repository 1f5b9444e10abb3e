package config

import "geoeconomia/domain/economy"

// Config represents the structure of config.yml used by the tool.
// Every field has a default (see Default), so an empty file is valid.
type Config struct {
	Data      Data      `yaml:"data"`
	Dashboard Dashboard `yaml:"dashboard"`
	Web       struct {
		Addr string `yaml:"addr"`
		UI   string `yaml:"ui"`
	} `yaml:"web"`
}

type Data struct {
	Territorial string `yaml:"territorial"`
	Activities  string `yaml:"activities"`
	GeoJSON     string `yaml:"geojson"`
	GeoJSONKey  string `yaml:"geojson_key"`
	// Columns holds the headers both tables share. The per-table mappings
	// only list where a table differs; their empty fields inherit Columns.
	Columns            Columns `yaml:"columns"`
	TerritorialColumns Columns `yaml:"territorial_columns"`
	ActivitiesColumns  Columns `yaml:"activities_columns"`
}

// ColumnsFor returns the header mapping of one table.
func (d Data) ColumnsFor(s economy.Source) Columns {
	switch s {
	case economy.Territorial:
		return d.TerritorialColumns.over(d.Columns)
	case economy.Activities:
		return d.ActivitiesColumns.over(d.Columns)
	}
	return d.Columns
}

// Columns maps CSV headers onto record fields. Header matching is case
// insensitive.
type Columns struct {
	Country       string `yaml:"country"`
	Department    string `yaml:"department"`
	District      string `yaml:"district"`
	Section       string `yaml:"section"`
	Division      string `yaml:"division"`
	Activity      string `yaml:"activity"`
	MapKey        string `yaml:"map_key"`
	Companies     string `yaml:"companies"`
	Participation string `yaml:"participation"`
	Contribution  string `yaml:"contribution"`
	Population    string `yaml:"population"`
	PopulationPct string `yaml:"population_pct"`
}

func (c Columns) over(base Columns) Columns {
	pick := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	return Columns{
		Country:       pick(c.Country, base.Country),
		Department:    pick(c.Department, base.Department),
		District:      pick(c.District, base.District),
		Section:       pick(c.Section, base.Section),
		Division:      pick(c.Division, base.Division),
		Activity:      pick(c.Activity, base.Activity),
		MapKey:        pick(c.MapKey, base.MapKey),
		Companies:     pick(c.Companies, base.Companies),
		Participation: pick(c.Participation, base.Participation),
		Contribution:  pick(c.Contribution, base.Contribution),
		Population:    pick(c.Population, base.Population),
		PopulationPct: pick(c.PopulationPct, base.PopulationPct),
	}
}

type Dashboard struct {
	TopN int `yaml:"top_n"`
	// Country labels the synthetic root of territorial trees and fills a
	// missing country column.
	Country   string   `yaml:"country"`
	Sentinels []string `yaml:"sentinels"`
	// Defaults is the initial selection per dimension.
	Defaults map[string][]string `yaml:"defaults"`
	// Explanations overrides the text of a view, keyed "<page>.<metric>".
	Explanations map[string]string `yaml:"explanations"`
}

// Default returns the configuration matching the published dataset.
func Default() Config {
	var c Config
	c.Data.Territorial = "./data/empresas.csv"
	c.Data.Activities = "./data/actividades.csv"
	c.Data.GeoJSON = "./assets/DEPARTAMENTOS_PY_CNPV2022.geojson"
	c.Data.GeoJSONKey = "DPTO_DESC"
	c.Data.Columns = Columns{
		Country:       "PAIS",
		Department:    "DEPARTAMENTO",
		District:      "DISTRITO",
		Section:       "Seccion",
		Division:      "Division",
		Activity:      "Actividad_principal",
		MapKey:        "DPTO_DESC",
		Companies:     "Cantidad_Empresas",
		Participation: "PARTICIPACION",
		Contribution:  "Aporte",
		Population:    "Poblacion",
		PopulationPct: "Porcentaje_Poblacion",
	}
	// empresas.csv carries the tax figure as Ganancias, actividades.csv as Aporte.
	c.Data.TerritorialColumns = Columns{Contribution: "Ganancias"}
	c.Dashboard.TopN = 20
	c.Dashboard.Country = "PARAGUAY"
	c.Dashboard.Sentinels = []string{"Desconocido", "Sin Datos"}
	c.Dashboard.Defaults = map[string][]string{
		"department": {"Alto Parana.", "Asuncion.", "Central.", "Itapua."},
		"district":   {"Ciudad Del Este", "Presidente Franco", "Hernandarias", "Minga Guazu"},
	}
	c.Web.Addr = ":8080"
	c.Web.UI = "./ui/dist"
	return c
}
