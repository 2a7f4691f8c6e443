package service

import (
	"context"
	"log"

	"Tabiji-App/internal/domain/helper"
	"Tabiji-App/internal/domain/model"
)

// RouteOptimizer は目的地リストの訪問順を並べ替える。
// 先頭と末尾の目的地は固定し、中間のみを並べ替える。
// 3件未満、または最適化が利用できない場合はok=falseを返し、呼び出し側は元の順序を維持する。
type RouteOptimizer interface {
	Optimize(ctx context.Context, destinations []model.Destination, mode model.TransportMode) ([]model.Destination, bool)
}

// NearestNeighborOptimizer は最近傍法による簡易的な経路最適化。
// 貪欲法であり厳密なTSP解ではない。距離が等しい場合は入力順で先の要素が選ばれる。
type NearestNeighborOptimizer struct{}

// NewNearestNeighborOptimizer は新しいNearestNeighborOptimizerを生成する
func NewNearestNeighborOptimizer() *NearestNeighborOptimizer {
	return &NearestNeighborOptimizer{}
}

// Optimize は最近傍法で中間の目的地を並べ替える
func (o *NearestNeighborOptimizer) Optimize(_ context.Context, destinations []model.Destination, _ model.TransportMode) ([]model.Destination, bool) {
	if len(destinations) < 3 {
		return nil, false
	}

	start := destinations[0]
	end := destinations[len(destinations)-1]
	remaining := make([]model.Destination, len(destinations)-2)
	copy(remaining, destinations[1:len(destinations)-1])

	optimized := make([]model.Destination, 0, len(destinations))
	optimized = append(optimized, start)

	current := start
	for len(remaining) > 0 {
		nearestIdx := 0
		minDistance := helper.HaversineDistanceDestinations(&current, &remaining[0])
		for i := 1; i < len(remaining); i++ {
			distance := helper.HaversineDistanceDestinations(&current, &remaining[i])
			if distance < minDistance {
				minDistance = distance
				nearestIdx = i
			}
		}
		nearest := remaining[nearestIdx]
		optimized = append(optimized, nearest)
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
		current = nearest
	}

	optimized = append(optimized, end)
	return optimized, true
}

// FallbackOptimizer は主の最適化を試し、適用できなければ代替にフォールバックする。
// 外部APIの経由地最適化を優先しつつ、失敗時は最近傍法で結果を返すために使う。
type FallbackOptimizer struct {
	primary   RouteOptimizer
	secondary RouteOptimizer
}

// NewFallbackOptimizer は新しいFallbackOptimizerを生成する
func NewFallbackOptimizer(primary, secondary RouteOptimizer) *FallbackOptimizer {
	return &FallbackOptimizer{primary: primary, secondary: secondary}
}

// Optimize は主の最適化の結果を返し、ok=falseの場合のみ代替を試す
func (o *FallbackOptimizer) Optimize(ctx context.Context, destinations []model.Destination, mode model.TransportMode) ([]model.Destination, bool) {
	if optimized, ok := o.primary.Optimize(ctx, destinations, mode); ok {
		return optimized, true
	}
	return o.secondary.Optimize(ctx, destinations, mode)
}

// DirectionsOptimizer は外部経路検索APIの経由地最適化を利用する移動手段対応の最適化。
// プロバイダ呼び出しが失敗した場合や順序が返らなかった場合はok=falseを返す（エラーにはしない）。
type DirectionsOptimizer struct {
	provider DirectionsProvider
}

// NewDirectionsOptimizer は新しいDirectionsOptimizerを生成する
func NewDirectionsOptimizer(provider DirectionsProvider) *DirectionsOptimizer {
	return &DirectionsOptimizer{provider: provider}
}

// Optimize は外部APIのwaypoint_orderに基づいて中間の目的地を並べ替える
func (o *DirectionsOptimizer) Optimize(ctx context.Context, destinations []model.Destination, mode model.TransportMode) ([]model.Destination, bool) {
	if len(destinations) < 3 {
		return nil, false
	}

	waypoints := make([]model.LatLng, 0, len(destinations)-1)
	for _, d := range destinations[1:] {
		waypoints = append(waypoints, d.ToLatLng())
	}

	details, err := o.provider.GetRoute(ctx, mode, destinations[0].ToLatLng(), waypoints...)
	if err != nil {
		log.Printf("⚠️  経由地最適化に失敗したため元の順序を維持します: %v", err)
		return nil, false
	}
	if len(details.WaypointOrder) != len(destinations)-2 {
		return nil, false
	}

	// waypoint_orderが順列でなければ目的地の重複・欠落が起きるため破棄する
	optimized := make([]model.Destination, 0, len(destinations))
	optimized = append(optimized, destinations[0])
	seen := make(map[int]struct{}, len(details.WaypointOrder))
	for _, idx := range details.WaypointOrder {
		if idx < 0 || idx >= len(destinations)-2 {
			return nil, false
		}
		if _, dup := seen[idx]; dup {
			return nil, false
		}
		seen[idx] = struct{}{}
		optimized = append(optimized, destinations[idx+1])
	}
	optimized = append(optimized, destinations[len(destinations)-1])
	return optimized, true
}
