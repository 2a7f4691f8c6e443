package helper

import (
	"math"

	"github.com/paulmach/orb"

	"Tabiji-App/internal/domain/model"
)

const earthRadiusKm = 6371.0

// HaversineDistance は2地点間の大円距離を計算する (km)
func HaversineDistance(p1, p2 model.LatLng) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// HaversineDistanceDestinations は2つの目的地間の距離を計算する (km)
func HaversineDistanceDestinations(d1, d2 *model.Destination) float64 {
	return HaversineDistance(d1.ToLatLng(), d2.ToLatLng())
}

// PathBounds は座標列を覆う境界ボックスを計算する。
// 空の座標列に対してはゼロ値のorb.Boundを返す。
func PathBounds(path []model.LatLng) orb.Bound {
	if len(path) == 0 {
		return orb.Bound{}
	}
	first := orb.Point{path[0].Lng, path[0].Lat}
	bound := orb.Bound{Min: first, Max: first}
	for _, p := range path[1:] {
		bound = bound.Extend(orb.Point{p.Lng, p.Lat})
	}
	return bound
}

// DestinationBounds は目的地リストを覆う境界ボックスを計算する
func DestinationBounds(destinations []model.Destination) orb.Bound {
	path := make([]model.LatLng, len(destinations))
	for i, d := range destinations {
		path[i] = d.ToLatLng()
	}
	return PathBounds(path)
}
