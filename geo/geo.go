package geo

import (
	"crypto/rand"
	"math"
	"math/big"
)

const earthRadiusKM = 6371.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BBox is an axis-aligned bounding box: [latMin, lngMin, latMax, lngMax].
type BBox [4]float64

// Distance returns the great-circle distance between a and b in kilometers,
// using the haversine formula.
func Distance(a, b Point) float64 {
	p1 := a.Lat * math.Pi / 180
	p2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlng := (b.Lng - a.Lng) * math.Pi / 180

	x := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(p1)*math.Cos(p2)*math.Sin(dlng/2)*math.Sin(dlng/2)

	// Floating-point error can push x slightly above 1 for antipodal points.
	return 2 * earthRadiusKM * math.Asin(math.Min(1.0, math.Sqrt(x)))
}

// ScoreFromDistance maps a distance in kilometers to a round score in
// [0, 5000]: full score at zero distance, decaying exponentially with a
// 2000km constant.
func ScoreFromDistance(d float64) int {
	s := 5000.0 * math.Exp(-d/2000.0)
	return int(math.Max(0, math.Min(5000, math.Round(s))))
}

const randomResolution = 10_000_000

// randomUnit returns a uniform value in [0, 1) from a cryptographically
// strong source, so clients cannot predict the next target by probing the
// RNG stream.
func randomUnit() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(randomResolution))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken.
		panic("geo: crypto/rand failed: " + err.Error())
	}
	return float64(n.Int64()) / randomResolution
}

// PickPoint samples a coordinate uniformly at random inside b.
func PickPoint(b BBox) Point {
	latMin, lngMin, latMax, lngMax := b[0], b[1], b[2], b[3]
	return Point{
		Lat: latMin + randomUnit()*(latMax-latMin),
		Lng: lngMin + randomUnit()*(lngMax-lngMin),
	}
}
