// Package gazetteer provides the static city/state/ZIP lookup tables used by
// preference extraction and the property finder.
package gazetteer

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed data/city2zip.json
var dataFS embed.FS

// primaryZipCount is how many ZIP codes per city are treated as primary
const primaryZipCount = 5

// CityInfo is one city record from the embedded mapping
type CityInfo struct {
	City     string   `json:"city"`
	State    string   `json:"state"`
	ZipCodes []string `json:"zip_codes"`
	Aliases  []string `json:"aliases,omitempty"`
}

// Key returns the canonical "city|ST" lookup key
func (c *CityInfo) Key() string {
	return strings.ToLower(c.City) + "|" + strings.ToUpper(c.State)
}

// PrimaryZips returns the first few ZIP codes for faster searches
func (c *CityInfo) PrimaryZips() []string {
	if len(c.ZipCodes) <= primaryZipCount {
		return c.ZipCodes
	}
	return c.ZipCodes[:primaryZipCount]
}

type mappingFile struct {
	Metadata struct {
		Title   string `json:"title"`
		Version string `json:"version"`
	} `json:"metadata"`
	Records []CityInfo `json:"records"`
}

// Gazetteer holds the loaded city records plus alias and name indexes
type Gazetteer struct {
	cities    map[string]*CityInfo // "city|ST" -> record
	aliases   map[string]string    // lowercased alias -> canonical key
	cityNames []string             // lowercased names + aliases, longest first
}

// Load parses the embedded mapping data
func Load() (*Gazetteer, error) {
	raw, err := dataFS.ReadFile("data/city2zip.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded city mapping: %w", err)
	}

	var file mappingFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse city mapping: %w", err)
	}
	if len(file.Records) == 0 {
		return nil, fmt.Errorf("city mapping contains no records")
	}

	g := &Gazetteer{
		cities:  make(map[string]*CityInfo, len(file.Records)),
		aliases: make(map[string]string),
	}

	seen := make(map[string]bool)
	for i := range file.Records {
		rec := &file.Records[i]
		g.cities[rec.Key()] = rec

		name := strings.ToLower(rec.City)
		if !seen[name] {
			seen[name] = true
			g.cityNames = append(g.cityNames, name)
		}
		for _, alias := range rec.Aliases {
			alias = strings.ToLower(alias)
			g.aliases[alias] = rec.Key()
			if !seen[alias] {
				seen[alias] = true
				g.cityNames = append(g.cityNames, alias)
			}
		}
	}

	// Longest names first so "virginia beach" wins over shorter overlaps
	sort.Slice(g.cityNames, func(i, j int) bool {
		return len(g.cityNames[i]) > len(g.cityNames[j])
	})

	return g, nil
}

// CityNames returns all known city names and aliases, lowercased, longest first
func (g *Gazetteer) CityNames() []string {
	return g.cityNames
}

// Lookup resolves a city/state pair, following aliases, and reports whether it
// is known
func (g *Gazetteer) Lookup(city, state string) (*CityInfo, bool) {
	key := strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToUpper(strings.TrimSpace(state))
	if info, ok := g.cities[key]; ok {
		return info, true
	}
	if canonical, ok := g.aliases[strings.ToLower(strings.TrimSpace(city))]; ok {
		if info, ok := g.cities[canonical]; ok {
			return info, true
		}
	}
	return nil, false
}

// Resolve finds the canonical record for a bare city name (no state), if any
// single record or alias matches
func (g *Gazetteer) Resolve(city string) (*CityInfo, bool) {
	name := strings.ToLower(strings.TrimSpace(city))
	if canonical, ok := g.aliases[name]; ok {
		if info, ok := g.cities[canonical]; ok {
			return info, true
		}
	}
	for _, info := range g.cities {
		if strings.ToLower(info.City) == name {
			return info, true
		}
	}
	return nil, false
}

// ZipCodes returns the ZIP codes for a city/state; primaryOnly limits to the
// first few for faster fan-out searches
func (g *Gazetteer) ZipCodes(city, state string, primaryOnly bool) []string {
	info, ok := g.Lookup(city, state)
	if !ok {
		return nil
	}
	if primaryOnly {
		return info.PrimaryZips()
	}
	return info.ZipCodes
}

// Size returns the number of loaded city records
func (g *Gazetteer) Size() int {
	return len(g.cities)
}
