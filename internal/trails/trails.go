// Package trails handles everything about hiking-trail data that isn't
// transit routing or spatial joining: color-tag parsing, desert/wadi
// season-warning detection, way-stitching, and trail-index persistence.
// Acquiring trail data over the network (the Overpass query) is an
// external collaborator's job — this package only consumes
// already-fetched relation/way/node data.
package trails

import (
	"sort"
	"strings"

	"github.com/paulmach/orb"
)

// KnownColors are the recognized ITC trail-marking colors; anything else
// found in an OSM tag is ignored rather than guessed at.
var KnownColors = map[string]bool{
	"red": true, "blue": true, "green": true,
	"black": true, "orange": true, "purple": true,
}

// ParseColors extracts trail marking colors from OSM tags: the
// osmc:symbol tag's leading color segment, plus the colour/color tags,
// deduplicated and sorted.
func ParseColors(tags map[string]string) []string {
	colors := map[string]bool{}

	if osmc := tags["osmc:symbol"]; osmc != "" {
		parts := strings.SplitN(osmc, ":", 2)
		candidate := strings.ToLower(strings.TrimSpace(parts[0]))
		if KnownColors[candidate] {
			colors[candidate] = true
		}
	}

	for _, key := range []string{"colour", "color"} {
		value := strings.ToLower(strings.TrimSpace(tags[key]))
		if KnownColors[value] {
			colors[value] = true
		}
	}

	out := make([]string, 0, len(colors))
	for c := range colors {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// DesertKeywords flags trail names indicating desert or wadi terrain —
// Hebrew and English spellings both appear in OSM name tags.
var DesertKeywords = []string{
	"wadi", "nahal", "נחל", "ein", "עין", "negev", "נגב", "ramon", "רמון",
	"arava", "ערבה", "zin", "צין", "paran", "פארן", "mitzpe",
}

// DeepNegevLat is the latitude below which a trail is assumed desert
// terrain regardless of its name.
const DeepNegevLat = 31.0

// FlashFloodWarning is the season warning attached to desert/wadi trails.
const FlashFloodWarning = "Flash flood danger during rainy season (Nov-Mar). Check IMS forecast."

// ParseSeasonInfo detects desert/wadi trails by name keyword, average
// latitude, and OSM description tags, and returns the recommended
// seasons and warnings to attach to the trail.
func ParseSeasonInfo(name string, tags map[string]string, coords []orb.Point) (recommendedSeasons, seasonWarnings []string) {
	isDesert := false

	nameLower := strings.ToLower(name)
	for _, kw := range DesertKeywords {
		if strings.Contains(nameLower, kw) {
			isDesert = true
			break
		}
	}

	if !isDesert && len(coords) > 0 {
		var sumLat float64
		for _, c := range coords {
			sumLat += c[1]
		}
		if sumLat/float64(len(coords)) < DeepNegevLat {
			isDesert = true
		}
	}

	if !isDesert {
		for _, tagKey := range []string{"seasonal", "description", "note"} {
			val := strings.ToLower(tags[tagKey])
			for _, kw := range []string{"flood", "wadi", "desert", "dry"} {
				if strings.Contains(val, kw) {
					isDesert = true
					break
				}
			}
			if isDesert {
				break
			}
		}
	}

	if isDesert {
		return []string{"spring", "autumn", "summer"}, []string{FlashFloodWarning}
	}
	return nil, nil
}
