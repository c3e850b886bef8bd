package geo_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/gezmi/trailbus/internal/geo"
)

func TestHaversine_ZeroForIdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, geo.Haversine(31.78, 35.22, 31.78, 35.22))
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Jerusalem to Tel Aviv, roughly 54km as the crow flies.
	d := geo.Haversine(31.7892, 35.2033, 32.0564, 34.7796)
	assert.InDelta(t, 54_000.0, d, 3_000.0)
}

func TestHaversine_Symmetric(t *testing.T) {
	a := geo.Haversine(31.0, 34.0, 32.0, 35.0)
	b := geo.Haversine(32.0, 35.0, 31.0, 34.0)
	assert.Equal(t, a, b)
}

func TestLineLengthKM_ShortLineAndDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, geo.LineLengthKM(orb.LineString{{34.8, 31.9}}))

	line := orb.LineString{{34.80, 31.90}, {34.81, 31.90}, {34.82, 31.90}}
	length := geo.LineLengthKM(line)
	assert.Greater(t, length, 0.0)
}

func TestIsLoop(t *testing.T) {
	loop := orb.LineString{{34.80, 31.90}, {34.81, 31.91}, {34.80, 31.90001}}
	assert.True(t, geo.IsLoop(loop))

	linear := orb.LineString{{34.80, 31.90}, {34.90, 32.00}}
	assert.False(t, geo.IsLoop(linear))

	assert.False(t, geo.IsLoop(orb.LineString{{34.80, 31.90}}))
}

func TestInterpolateAlong_Endpoints(t *testing.T) {
	line := orb.LineString{{34.80, 31.90}, {34.85, 31.95}, {34.90, 32.00}}

	assert.Equal(t, line[0], geo.InterpolateAlong(line, 0))
	assert.Equal(t, line[len(line)-1], geo.InterpolateAlong(line, 1))
}

func TestInterpolateAlong_Midpoint(t *testing.T) {
	line := orb.LineString{{34.80, 31.90}, {34.90, 31.90}}
	mid := geo.InterpolateAlong(line, 0.5)

	assert.InDelta(t, 34.85, mid[0], 0.01)
	assert.InDelta(t, 31.90, mid[1], 0.0001)
}

func TestInterpolateAlong_EmptyLine(t *testing.T) {
	assert.Equal(t, orb.Point{}, geo.InterpolateAlong(orb.LineString{}, 0.5))
}

func TestInterpolateAlong_MatchesHalfOfLineLength(t *testing.T) {
	line := orb.LineString{{34.80, 31.90}, {34.83, 31.92}, {34.90, 32.00}}
	half := geo.InterpolateAlong(line, 0.5)

	firstHalf := orb.LineString{line[0], half}
	wholeKM := geo.LineLengthKM(line)
	halfKM := geo.LineLengthKM(firstHalf)

	assert.InDelta(t, wholeKM/2, halfKM, math.Max(wholeKM*0.05, 0.05))
}
