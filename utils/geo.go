package utils

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
)

// serviceArea is the bounding box of the national territory. Installations
// are only ever sold inside it, so coordinates outside are almost certainly a
// typo (swapped lat/lng is the common one).
var serviceArea = orb.Bound{
	Min: orb.Point{-8.7, 18.9},
	Max: orb.Point{12.0, 37.2},
}

// ParsePoint parses submitted latitude/longitude strings into a point
// (lng, lat order, as orb expects).
func ParsePoint(lat, lng string) (orb.Point, error) {
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lngF, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid longitude %q: %w", lng, err)
	}
	if latF < -90 || latF > 90 {
		return orb.Point{}, fmt.Errorf("latitude %v out of range", latF)
	}
	if lngF < -180 || lngF > 180 {
		return orb.Point{}, fmt.Errorf("longitude %v out of range", lngF)
	}
	return orb.Point{lngF, latF}, nil
}

// InServiceArea reports whether the submitted coordinates fall inside the
// service territory. Unparsable coordinates count as outside.
func InServiceArea(lat, lng string) bool {
	p, err := ParsePoint(lat, lng)
	if err != nil {
		return false
	}
	return serviceArea.Contains(p)
}
