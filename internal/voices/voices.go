package voices

import (
	"strings"

	"github.com/schollz/closestmatch"
)

// Voice is one entry of the avatar voice catalog.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// Catalog lists the rendering-service voices exposed to the UI.
func Catalog() []Voice {
	return []Voice{
		{ID: "en-US-JennyNeural", Name: "Jenny", Language: "en-US"},
		{ID: "en-US-GuyNeural", Name: "Guy", Language: "en-US"},
		{ID: "en-US-AriaNeural", Name: "Aria", Language: "en-US"},
		{ID: "en-GB-SoniaNeural", Name: "Sonia", Language: "en-GB"},
		{ID: "en-GB-RyanNeural", Name: "Ryan", Language: "en-GB"},
		{ID: "fr-FR-DeniseNeural", Name: "Denise", Language: "fr-FR"},
		{ID: "de-DE-KatjaNeural", Name: "Katja", Language: "de-DE"},
		{ID: "es-ES-ElviraNeural", Name: "Elvira", Language: "es-ES"},
	}
}

// Resolver maps loose voice names ("jenny", "Ryan (UK)") to catalog
// voice IDs using fuzzy matching.
type Resolver struct {
	byID   map[string]Voice
	byName map[string]Voice
	cm     *closestmatch.ClosestMatch
}

func NewResolver() *Resolver {
	byID := make(map[string]Voice)
	byName := make(map[string]Voice)
	names := []string{}
	for _, v := range Catalog() {
		byID[strings.ToLower(v.ID)] = v
		byName[strings.ToLower(v.Name)] = v
		names = append(names, v.Name)
	}

	return &Resolver{
		byID:   byID,
		byName: byName,
		cm:     closestmatch.New(names, []int{2}),
	}
}

// Resolve returns the catalog voice ID for the given input: an exact
// ID, an exact display name, or the closest display-name match. The
// input is returned unchanged when nothing matches, so callers can
// pass through voice IDs the catalog does not know about.
func (r *Resolver) Resolve(input string) string {
	if input == "" {
		return ""
	}

	key := strings.ToLower(strings.TrimSpace(input))
	if v, ok := r.byID[key]; ok {
		return v.ID
	}
	if v, ok := r.byName[key]; ok {
		return v.ID
	}

	// Hyphenated inputs are provider voice IDs outside the catalog;
	// pass them through untouched.
	if strings.Contains(key, "-") {
		return input
	}

	if match := r.cm.Closest(key); match != "" {
		if v, ok := r.byName[strings.ToLower(match)]; ok {
			return v.ID
		}
	}

	return input
}
