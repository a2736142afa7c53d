package main

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/raqtkosh/backend/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalog struct {
	Centers []struct {
		Name       string `yaml:"name"`
		Address    string `yaml:"address"`
		City       string `yaml:"city"`
		State      string `yaml:"state"`
		PostalCode string `yaml:"postalCode"`
		Phone      string `yaml:"phone"`
	} `yaml:"centers"`
	Rewards []struct {
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		PointsCost  int64   `yaml:"pointsCost"`
		ImageURL    *string `yaml:"imageUrl"`
	} `yaml:"rewards"`
	Stock []struct {
		Center    string          `yaml:"center"`
		BloodType model.BloodType `yaml:"bloodType"`
		Quantity  int             `yaml:"quantity"`
	} `yaml:"stock"`
}

func parseCatalog(b []byte) (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	centers := map[string]bool{}
	for _, ct := range c.Centers {
		if strings.TrimSpace(ct.Name) == "" {
			return nil, fmt.Errorf("center without name")
		}
		centers[ct.Name] = true
	}
	for _, r := range c.Rewards {
		if strings.TrimSpace(r.Name) == "" || r.PointsCost <= 0 {
			return nil, fmt.Errorf("reward %q needs a name and a positive cost", r.Name)
		}
	}
	for _, s := range c.Stock {
		if !centers[s.Center] {
			return nil, fmt.Errorf("stock references unknown center %q", s.Center)
		}
		if !s.BloodType.Valid() || s.Quantity <= 0 {
			return nil, fmt.Errorf("invalid stock row for %q", s.Center)
		}
	}
	return &c, nil
}
