package helper

import (
	"math"
	"testing"

	"Tabiji-App/internal/domain/model"
)

func TestHaversineDistance(t *testing.T) {
	tokyo := model.LatLng{Lat: 35.6812, Lng: 139.7671}  // 東京駅
	osaka := model.LatLng{Lat: 34.7024, Lng: 135.4959}  // 大阪駅
	kyoto := model.LatLng{Lat: 34.9858, Lng: 135.7588}  // 京都駅

	t.Run("既知の2地点間の距離", func(t *testing.T) {
		distance := HaversineDistance(tokyo, osaka)
		// 東京駅〜大阪駅は約400km
		if distance < 390 || distance > 410 {
			t.Errorf("東京〜大阪の距離が期待範囲外です: %.1fkm", distance)
		}
	})

	t.Run("同一地点の距離は0", func(t *testing.T) {
		if distance := HaversineDistance(tokyo, tokyo); distance != 0 {
			t.Errorf("同一地点の距離が0ではありません: %f", distance)
		}
	})

	t.Run("距離は対称", func(t *testing.T) {
		forward := HaversineDistance(tokyo, kyoto)
		backward := HaversineDistance(kyoto, tokyo)
		if math.Abs(forward-backward) > 1e-9 {
			t.Errorf("距離が対称ではありません: %f != %f", forward, backward)
		}
	})

	t.Run("近い地点ほど距離が短い", func(t *testing.T) {
		if HaversineDistance(osaka, kyoto) >= HaversineDistance(osaka, tokyo) {
			t.Error("大阪〜京都が大阪〜東京より遠くなっています")
		}
	})
}

func TestDestinationBounds(t *testing.T) {
	t.Run("全目的地を覆う境界ボックス", func(t *testing.T) {
		destinations := []model.Destination{
			{ID: "d1", Lat: 35.0, Lng: 135.0},
			{ID: "d2", Lat: 36.0, Lng: 134.0},
			{ID: "d3", Lat: 34.5, Lng: 136.5},
		}
		bound := DestinationBounds(destinations)

		if bound.Min[0] != 134.0 || bound.Max[0] != 136.5 {
			t.Errorf("経度の範囲が不正です: min=%f max=%f", bound.Min[0], bound.Max[0])
		}
		if bound.Min[1] != 34.5 || bound.Max[1] != 36.0 {
			t.Errorf("緯度の範囲が不正です: min=%f max=%f", bound.Min[1], bound.Max[1])
		}
	})

	t.Run("1件の場合は退化した境界", func(t *testing.T) {
		bound := DestinationBounds([]model.Destination{{ID: "d1", Lat: 35.0, Lng: 135.0}})
		if bound.Min != bound.Max {
			t.Errorf("1点の境界ボックスはMin==Maxであるべきです: %v", bound)
		}
	})

	t.Run("空リストはゼロ値", func(t *testing.T) {
		bound := PathBounds(nil)
		if bound.Min[0] != 0 || bound.Max[1] != 0 {
			t.Errorf("空の座標列はゼロ値のBoundを返すべきです: %v", bound)
		}
	})
}
