package geo

import "math"

// EarthRadiusM is the mean Earth radius used for every distance in the app.
// The elevation chart re-derives distances with the same constant.
const EarthRadiusM = 6371000.0

// HaversineMeters returns the great-circle distance between two lat/lng points.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const rad = math.Pi / 180
	sinDLat := math.Sin((lat2 - lat1) * rad / 2)
	sinDLng := math.Sin((lng2 - lng1) * rad / 2)
	a := sinDLat*sinDLat + math.Cos(lat1*rad)*math.Cos(lat2*rad)*sinDLng*sinDLng
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusM * c
}

func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineMeters(lat1, lng1, lat2, lng2) / 1000
}
