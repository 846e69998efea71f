package people

import (
	"strconv"
	"strings"
	"time"
)

// Person is a character returned by the people endpoint
type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Height    string    `json:"height"`
	Mass      string    `json:"mass"`
	HairColor string    `json:"hair_color"`
	SkinColor string    `json:"skin_color"`
	EyeColor  string    `json:"eye_color"`
	BirthYear string    `json:"birth_year"`
	Gender    string    `json:"gender"`
	Homeworld string    `json:"homeworld"`
	Films     []string  `json:"films,omitempty"`
	Created   time.Time `json:"created"`
	Edited    time.Time `json:"edited"`
}

// HeightCM returns the height in centimeters, or 0 when unknown
func (p Person) HeightCM() float64 {
	return parseMeasure(p.Height)
}

// MassKG returns the mass in kilograms, or 0 when unknown
func (p Person) MassKG() float64 {
	return parseMeasure(p.Mass)
}

// Record flattens a Person into the map that filter expressions run against
func (p Person) Record() map[string]any {
	return map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"height":     p.HeightCM(),
		"mass":       p.MassKG(),
		"hair_color": p.HairColor,
		"skin_color": p.SkinColor,
		"eye_color":  p.EyeColor,
		"birth_year": p.BirthYear,
		"gender":     p.Gender,
		"homeworld":  p.Homeworld,
		"films":      len(p.Films),
		"created":    p.Created,
		"edited":     p.Edited,
	}
}

// parseMeasure handles values like "172", "1,358" and "unknown"
func parseMeasure(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
