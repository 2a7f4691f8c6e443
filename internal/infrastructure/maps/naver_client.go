package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"Tabiji-App/internal/domain/model"
)

const (
	naverDirectionsURL = "https://maps.apigw.ntruss.com/map-direction/v1/driving"
	naverGeocodeURL    = "https://maps.apigw.ntruss.com/map-geocode/v2/geocode"
	naverSearchURL     = "https://openapi.naver.com/v1/search/local.json"
)

// UpstreamError は上流プロバイダの失敗（非2xx）を表す。
// 診断のため上流のステータスとレスポンス本文を保持する。
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("上流APIがエラーを返しました: status=%d body=%s", e.StatusCode, e.Body)
}

// NaverClient はNaverクラウド（経路・ジオコーディング）と
// Naverオープン検索APIのクライアント。認証情報はカスタムヘッダで送信する。
type NaverClient struct {
	clientID      string
	clientSecret  string
	directionsURL string
	geocodeURL    string
	searchURL     string
	httpClient    *http.Client
}

// NewNaverClient は新しいNaverClientを生成する
func NewNaverClient(clientID, clientSecret string) *NaverClient {
	return &NaverClient{
		clientID:      clientID,
		clientSecret:  clientSecret,
		directionsURL: naverDirectionsURL,
		geocodeURL:    naverGeocodeURL,
		searchURL:     naverSearchURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchDirections は経路APIの生のJSONレスポンスを取得する（プロキシ中継用）。
// waypointsは"lng,lat|lng,lat"形式、空文字列なら省略される。
func (c *NaverClient) FetchDirections(ctx context.Context, start, goal, waypoints string) ([]byte, error) {
	params := url.Values{}
	params.Set("start", start)
	params.Set("goal", goal)
	if waypoints != "" {
		params.Set("waypoints", waypoints)
	}
	params.Set("option", "traoptimal")
	return c.fetchRaw(ctx, c.directionsURL, params, c.cloudHeaders())
}

// FetchGeocode はジオコーディングAPIの生のJSONレスポンスを取得する（プロキシ中継用）
func (c *NaverClient) FetchGeocode(ctx context.Context, address string) ([]byte, error) {
	params := url.Values{}
	params.Set("query", address)
	return c.fetchRaw(ctx, c.geocodeURL, params, c.cloudHeaders())
}

// FetchLocalSearch はローカル検索APIの生のJSONレスポンスを取得する（プロキシ中継用）
func (c *NaverClient) FetchLocalSearch(ctx context.Context, query string) ([]byte, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("display", "10")
	return c.fetchRaw(ctx, c.searchURL, params, map[string]string{
		"X-Naver-Client-Id":     c.clientID,
		"X-Naver-Client-Secret": c.clientSecret,
	})
}

func (c *NaverClient) cloudHeaders() map[string]string {
	return map[string]string{
		"X-NCP-APIGW-API-KEY-ID": c.clientID,
		"X-NCP-APIGW-API-KEY":    c.clientSecret,
	}
}

func (c *NaverClient) fetchRaw(ctx context.Context, base string, params url.Values, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// GetRoute はNaver経路APIを呼び出して経路情報を取得する。
// Naverの経路APIは自動車ルートのみ対応のため、他の移動手段ではエラーを返し、
// 呼び出し側（地図レンダラー）が直線フォールバックへ解決する。
func (c *NaverClient) GetRoute(ctx context.Context, mode model.TransportMode, origin model.LatLng, waypoints ...model.LatLng) (*model.RouteDetails, error) {
	if mode != model.TransportDriving {
		return nil, fmt.Errorf("Naver経路APIは%sに対応していません", mode)
	}
	if len(waypoints) == 0 {
		return nil, errors.New("目的地が指定されていません")
	}

	goal := waypoints[len(waypoints)-1]
	// 経由地は最大5件（API制限）。超過分は先頭5件に切り詰めて警告する
	via := waypoints[:len(waypoints)-1]
	if len(via) > 5 {
		log.Printf("⚠️  Naver経路APIの経由地上限(5件)を超えたため%d件を無視します", len(via)-5)
		via = via[:5]
	}
	viaStrs := make([]string, 0, len(via))
	for _, wp := range via {
		viaStrs = append(viaStrs, coordString(wp))
	}

	body, err := c.FetchDirections(ctx, coordString(origin), coordString(goal), strings.Join(viaStrs, "|"))
	if err != nil {
		return nil, err
	}

	var apiResp naverDirectionsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	if len(apiResp.Route.Traoptimal) == 0 {
		return nil, errors.New("APIから有効なルートが返されませんでした")
	}

	best := apiResp.Route.Traoptimal[0]
	path := make([]model.LatLng, 0, len(best.Path))
	for _, p := range best.Path {
		if len(p) >= 2 {
			// Naverのpathは [lng, lat] 順
			path = append(path, model.LatLng{Lat: p[1], Lng: p[0]})
		}
	}

	return &model.RouteDetails{
		TotalDuration: time.Duration(best.Summary.Duration) * time.Millisecond,
		Path:          path,
	}, nil
}

// Geocode は住所を座標に変換する。結果が0件の場合はエラーを返す。
func (c *NaverClient) Geocode(ctx context.Context, address string) (*model.GeocodeResult, error) {
	body, err := c.FetchGeocode(ctx, address)
	if err != nil {
		return nil, err
	}

	var apiResp naverGeocodeResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	if len(apiResp.Addresses) == 0 {
		return nil, errors.New("住所に一致する座標が見つかりませんでした")
	}

	lat, err := strconv.ParseFloat(apiResp.Addresses[0].Y, 64)
	if err != nil {
		return nil, fmt.Errorf("緯度のパースに失敗: %w", err)
	}
	lng, err := strconv.ParseFloat(apiResp.Addresses[0].X, 64)
	if err != nil {
		return nil, fmt.Errorf("経度のパースに失敗: %w", err)
	}
	return &model.GeocodeResult{Lat: lat, Lng: lng}, nil
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// SearchPlaces はローカル検索APIで場所を検索する。
// タイトルのHTMLタグは除去し、カテック座標(mapx/mapy)は度に変換して返す。
// 上流の失敗は空の結果として扱わず、エラーのまま返す（握りつぶしは呼び出し側の責務）。
func (c *NaverClient) SearchPlaces(ctx context.Context, query string) ([]model.Place, error) {
	body, err := c.FetchLocalSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	var apiResp naverSearchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	places := make([]model.Place, 0, len(apiResp.Items))
	for _, item := range apiResp.Items {
		place := model.Place{
			Name:     htmlTagPattern.ReplaceAllString(item.Title, ""),
			Address:  item.RoadAddress,
			Category: item.Category,
		}
		if place.Address == "" {
			place.Address = item.Address
		}
		// ローカル検索APIはmapx/mapyで座標を提供する（1e7倍の度）
		if x, err := strconv.ParseFloat(item.MapX, 64); err == nil {
			place.Lng = x / 1e7
		}
		if y, err := strconv.ParseFloat(item.MapY, 64); err == nil {
			place.Lat = y / 1e7
		}
		places = append(places, place)
	}
	return places, nil
}

func coordString(p model.LatLng) string {
	// Naver APIの座標は "経度,緯度" 順
	return fmt.Sprintf("%f,%f", p.Lng, p.Lat)
}

// --- Naver APIのレスポンスをパースするための構造体 ---

type naverDirectionsResponse struct {
	Route struct {
		Traoptimal []naverRoute `json:"traoptimal"`
	} `json:"route"`
}

type naverRoute struct {
	Summary struct {
		Duration int64 `json:"duration"` // milliseconds
		Distance int64 `json:"distance"` // meters
	} `json:"summary"`
	Path [][]float64 `json:"path"` // [lng, lat]
}

type naverGeocodeResponse struct {
	Addresses []struct {
		X string `json:"x"` // longitude
		Y string `json:"y"` // latitude
	} `json:"addresses"`
}

type naverSearchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Category    string `json:"category"`
		Address     string `json:"address"`
		RoadAddress string `json:"roadAddress"`
		MapX        string `json:"mapx"`
		MapY        string `json:"mapy"`
	} `json:"items"`
}
