package service

import (
	"context"

	"Tabiji-App/internal/domain/model"
)

// DirectionsProvider は外部経路検索APIの抽象。
// 最後のwaypointが目的地として扱われる（先頭が出発地）。
// NaverクラウドAPI実装とGoogle Maps実装が設定により選択される。
type DirectionsProvider interface {
	GetRoute(ctx context.Context, mode model.TransportMode, origin model.LatLng, waypoints ...model.LatLng) (*model.RouteDetails, error)
}
