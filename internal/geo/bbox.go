package geo

import "math"

// kmPerDegreeLat is the arc length of one degree of latitude on the haversine sphere
const kmPerDegreeLat = EarthRadiusKm * math.Pi / 180

// polarCutoffLat is where longitude spans blow up and the box stops being useful
const polarCutoffLat = 89.0

// BoundingBox is a latitude/longitude rectangle that contains every point within a radius.
// HasLongitude is false when the longitude span is unbounded (near a pole or across the antimeridian),
// in which case only the latitude bounds apply.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	HasLongitude   bool
}

// BoundingBoxAround returns a box enclosing the circle of radiusKm around (lat, lng).
// The box is slightly generous; callers still filter with DistanceKm.
func BoundingBoxAround(lat, lng, radiusKm float64) BoundingBox {
	dLat := radiusKm / kmPerDegreeLat
	box := BoundingBox{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
	}

	if math.Abs(lat)+dLat >= polarCutoffLat {
		return box
	}

	// Widest longitude span is at the latitude edge closest to the pole
	edgeLat := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))
	dLng := radiusKm / (kmPerDegreeLat * math.Cos(toRadians(edgeLat)))

	minLng, maxLng := lng-dLng, lng+dLng
	if minLng < -180 || maxLng > 180 {
		return box
	}

	box.MinLng, box.MaxLng = minLng, maxLng
	box.HasLongitude = true
	return box
}

// Contains reports whether the point lies inside the box
func (b BoundingBox) Contains(lat, lng float64) bool {
	if lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	if !b.HasLongitude {
		return true
	}
	return lng >= b.MinLng && lng <= b.MaxLng
}
