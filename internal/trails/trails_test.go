package trails_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/gezmi/trailbus/internal/trails"
)

func TestParseColors_FromOsmcSymbol(t *testing.T) {
	colors := trails.ParseColors(map[string]string{"osmc:symbol": "red:white:red_stripe"})
	assert.Equal(t, []string{"red"}, colors)
}

func TestParseColors_FromColourTag(t *testing.T) {
	colors := trails.ParseColors(map[string]string{"colour": "Blue"})
	assert.Equal(t, []string{"blue"}, colors)
}

func TestParseColors_UnknownColorIgnored(t *testing.T) {
	colors := trails.ParseColors(map[string]string{"colour": "paisley"})
	assert.Empty(t, colors)
}

func TestParseColors_DeduplicatesAndSorts(t *testing.T) {
	colors := trails.ParseColors(map[string]string{
		"osmc:symbol": "green:white:green_stripe",
		"colour":      "green",
		"color":       "red",
	})
	assert.Equal(t, []string{"green", "red"}, colors)
}

func TestParseSeasonInfo_DesertByName(t *testing.T) {
	seasons, warnings := trails.ParseSeasonInfo("Nahal Zin Trail", nil, nil)
	assert.ElementsMatch(t, []string{"spring", "autumn", "summer"}, seasons)
	assert.Equal(t, []string{trails.FlashFloodWarning}, warnings)
}

func TestParseSeasonInfo_DesertByLatitude(t *testing.T) {
	coords := []orb.Point{{34.8, 30.5}, {34.9, 30.6}}
	seasons, warnings := trails.ParseSeasonInfo("Unnamed Trail", nil, coords)
	assert.NotEmpty(t, seasons)
	assert.NotEmpty(t, warnings)
}

func TestParseSeasonInfo_NonDesertTrailHasNoWarning(t *testing.T) {
	coords := []orb.Point{{35.2, 32.8}, {35.1, 32.9}} // Galilee, well north
	seasons, warnings := trails.ParseSeasonInfo("Yehudiya Forest Trail", nil, coords)
	assert.Nil(t, seasons)
	assert.Nil(t, warnings)
}

func TestStitchWays_JoinsTwoSegmentsHeadToTail(t *testing.T) {
	wayNodes := map[int64][]int64{
		1: {10, 11, 12},
		2: {12, 13, 14},
	}
	nodeCoords := map[int64]orb.Point{
		10: {34.80, 31.90}, 11: {34.81, 31.90}, 12: {34.82, 31.90},
		13: {34.83, 31.90}, 14: {34.84, 31.90},
	}

	line := trails.StitchWays([]int64{1, 2}, wayNodes, nodeCoords)
	assert.Len(t, line, 5)
	assert.Equal(t, nodeCoords[10], line[0])
	assert.Equal(t, nodeCoords[14], line[len(line)-1])
}

func TestStitchWays_ReversesMisorientedSegment(t *testing.T) {
	wayNodes := map[int64][]int64{
		1: {10, 11, 12},
		2: {14, 13, 12}, // shares endpoint 12 with segment 1's end, reversed
	}
	nodeCoords := map[int64]orb.Point{
		10: {34.80, 31.90}, 11: {34.81, 31.90}, 12: {34.82, 31.90},
		13: {34.83, 31.90}, 14: {34.84, 31.90},
	}

	line := trails.StitchWays([]int64{1, 2}, wayNodes, nodeCoords)
	assert.Len(t, line, 5)
	assert.Equal(t, nodeCoords[10], line[0])
	assert.Equal(t, nodeCoords[14], line[len(line)-1])
}

func TestStitchWays_KeepsLongestChainWhenDisjoint(t *testing.T) {
	wayNodes := map[int64][]int64{
		1: {10, 11, 12, 13}, // 4 nodes, disjoint from 2
		2: {20, 21},         // 2 nodes
	}
	nodeCoords := map[int64]orb.Point{
		10: {34.80, 31.90}, 11: {34.81, 31.90}, 12: {34.82, 31.90}, 13: {34.83, 31.90},
		20: {35.80, 32.90}, 21: {35.81, 32.90},
	}

	line := trails.StitchWays([]int64{1, 2}, wayNodes, nodeCoords)
	assert.Len(t, line, 4)
}
