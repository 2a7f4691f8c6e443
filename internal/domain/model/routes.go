package model

import "time"

// RouteDetails 経路検索プロバイダが返す経路情報
type RouteDetails struct {
	TotalDuration time.Duration   // 経路全体の所要時間
	LegDurations  []time.Duration // 区間ごとの所要時間（出発地→経由地→目的地の順）
	Path          []LatLng        // 経路のジオメトリ（座標列）
	WaypointOrder []int           // 経由地の最適化順序（未対応プロバイダでは空）
}

// HasPath 描画可能な経路ジオメトリが存在するかチェック
func (r *RouteDetails) HasPath() bool {
	return len(r.Path) >= 2
}

// OptimizeRouteRequest 経路最適化リクエスト
type OptimizeRouteRequest struct {
	Destinations []Destination `json:"destinations"`
	Mode         TransportMode `json:"mode"`
}

// OptimizeRouteResponse 経路最適化レスポンス。
// 最適化が適用できない場合（目的地3件未満・外部最適化失敗）はOptimizedがfalseとなり、
// Destinationsには入力順がそのまま入る。
type OptimizeRouteResponse struct {
	Optimized    bool          `json:"optimized"`
	Destinations []Destination `json:"destinations"`
}

// RouteDurationsRequest 区間所要時間リクエスト
type RouteDurationsRequest struct {
	Destinations []Destination `json:"destinations"`
	Mode         TransportMode `json:"mode"`
}

// RouteDurationsResponse 区間所要時間レスポンス。
// Durationsは常にlen(Destinations)-1件で、取得できなかった区間はプレースホルダが入る。
type RouteDurationsResponse struct {
	Durations []string `json:"durations"`
}
