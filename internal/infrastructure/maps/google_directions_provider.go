package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Tabiji-App/internal/domain/model"
)

// GoogleDirectionsProvider はGoogle Maps Directions APIを使用した経路検索の実装
type GoogleDirectionsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleDirectionsProvider は新しいプロバイダを生成する
func NewGoogleDirectionsProvider(apiKey string) *GoogleDirectionsProvider {
	return &GoogleDirectionsProvider{
		apiKey:     apiKey,
		baseURL:    "https://maps.googleapis.com/maps/api/directions/json",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetRoute はGoogle Maps Directions APIを呼び出して経路情報を取得する。
// 最後のwaypointが目的地、それ以外は経由地として扱われる。
// 経由地が2件以上ある場合はoptimize:trueを付与し、waypoint_orderを結果に含める。
func (g *GoogleDirectionsProvider) GetRoute(ctx context.Context, mode model.TransportMode, origin model.LatLng, waypoints ...model.LatLng) (*model.RouteDetails, error) {
	if len(waypoints) == 0 {
		return nil, errors.New("目的地が指定されていません")
	}

	reqURL, err := g.buildURL(mode, origin, waypoints...)
	if err != nil {
		return nil, fmt.Errorf("URLの構築に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	var apiResp googleRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if len(apiResp.Routes) == 0 {
		return nil, errors.New("APIから有効なルートが返されませんでした")
	}

	firstRoute := apiResp.Routes[0]
	legDurations := make([]time.Duration, 0, len(firstRoute.Legs))
	var totalDurationSec int
	for _, leg := range firstRoute.Legs {
		totalDurationSec += leg.Duration.Value
		legDurations = append(legDurations, time.Duration(leg.Duration.Value)*time.Second)
	}

	return &model.RouteDetails{
		TotalDuration: time.Duration(totalDurationSec) * time.Second,
		LegDurations:  legDurations,
		Path:          decodePolyline(firstRoute.OverviewPolyline.Points),
		WaypointOrder: firstRoute.WaypointOrder,
	}, nil
}

func (g *GoogleDirectionsProvider) buildURL(mode model.TransportMode, origin model.LatLng, waypoints ...model.LatLng) (string, error) {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	// 最後の地点がdestinationになる
	destination := waypoints[len(waypoints)-1]
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Lat, destination.Lng))

	// 経由地を設定（2件以上ある場合は最適化を依頼する）
	if len(waypoints) > 1 {
		viaPoints := make([]string, 0, len(waypoints)-1)
		for _, wp := range waypoints[:len(waypoints)-1] {
			viaPoints = append(viaPoints, fmt.Sprintf("%f,%f", wp.Lat, wp.Lng))
		}
		params.Set("waypoints", "optimize:true|"+strings.Join(viaPoints, "|"))
	}

	params.Set("mode", strings.ToLower(string(mode)))
	params.Set("key", g.apiKey)

	return fmt.Sprintf("%s?%s", g.baseURL, params.Encode()), nil
}

// decodePolyline はGoogleのエンコード済みポリラインを座標列に展開する
func decodePolyline(encoded string) []model.LatLng {
	var path []model.LatLng
	var lat, lng int
	index := 0

	next := func() (int, bool) {
		result, shift := 0, 0
		for {
			if index >= len(encoded) {
				return 0, false
			}
			b := int(encoded[index]) - 63
			index++
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}
		if result&1 != 0 {
			return ^(result >> 1), true
		}
		return result >> 1, true
	}

	for index < len(encoded) {
		dLat, ok := next()
		if !ok {
			break
		}
		dLng, ok := next()
		if !ok {
			break
		}
		lat += dLat
		lng += dLng
		path = append(path, model.LatLng{Lat: float64(lat) / 1e5, Lng: float64(lng) / 1e5})
	}
	return path
}

// --- Google Maps APIのレスポンスをパースするための構造体 ---

type googleRouteResponse struct {
	Routes       []googleRoute `json:"routes"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
}
type googleRoute struct {
	Legs             []googleLeg      `json:"legs"`
	OverviewPolyline overviewPolyline `json:"overview_polyline"`
	WaypointOrder    []int            `json:"waypoint_order"`
}
type googleLeg struct {
	Duration googleDuration `json:"duration"`
}
type googleDuration struct {
	Value int `json:"value"` // seconds
}
type overviewPolyline struct {
	Points string `json:"points"`
}
