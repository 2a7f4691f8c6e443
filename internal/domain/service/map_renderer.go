package service

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"Tabiji-App/internal/domain/helper"
	"Tabiji-App/internal/domain/model"
)

// RendererState は地図レンダラーのライフサイクル状態
type RendererState int

const (
	RendererUninitialized RendererState = iota // マウント前
	RendererLoading                            // 地図エンジン読み込み中
	RendererReady                              // 同期可能
)

// RenderResult は描画ステップごとの結果。
// エラーを握りつぶす代わりに明示的な結果として表し、テストで経路を検証できるようにする。
type RenderResult string

const (
	RenderDrawn    RenderResult = "drawn"     // 要求どおり描画された
	RenderFellBack RenderResult = "fell_back" // 直線フォールバックで描画された
	RenderSkipped  RenderResult = "skipped"   // 描画対象がなくスキップされた
)

// RenderStep は再同期中に実行された1ステップの記録
type RenderStep struct {
	Kind   string       // "markers" / "bounds" / "zoom" / "route" / "segment"
	Result RenderResult
}

// PathStyle はポリラインの描画スタイル
type PathStyle struct {
	Color    string
	Weight   int
	Opacity  float64
	Geodesic bool
}

// 移動手段ごとの経路色とフォールバック色
const (
	ColorDriving   = "#4285F4"
	ColorTransit   = "#34A853"
	ColorWalking   = "#EA4335"
	ColorBicycling = "#FBBC04"
	ColorFallback  = "#9CA3AF"
)

// 目的地が1件だけの場合のクローズアップズームレベル
const singleDestinationZoom = 14

// MapEngine は地図エンジン（マーカー・ポリライン・ビューポート操作）の抽象
type MapEngine interface {
	Load(ctx context.Context) error
	ClearOverlays()
	AddMarker(position model.LatLng, label, title string)
	FitBounds(bound orb.Bound)
	SetZoom(level int)
	DrawPath(path []model.LatLng, style PathStyle)
}

// MapRenderer は選択中の日の目的地リストと移動手段を地図表示へ同期する。
// 変更は末尾500msのデバウンスで畳み込まれ、連続した変更は1回の再同期にまとまる。
// 経路プロバイダのエラーはこの層で必ず視覚的フォールバックに解決され、
// 呼び出し側へは伝播しない。
type MapRenderer struct {
	engine   MapEngine
	provider DirectionsProvider

	mu      sync.Mutex
	state   RendererState
	pending syncInput

	debouncer *Debouncer
}

type syncInput struct {
	destinations []model.Destination
	mode         model.TransportMode
}

// MapRendererOption はMapRendererの生成オプション
type MapRendererOption func(*mapRendererConfig)

type mapRendererConfig struct {
	debounceWindow time.Duration
}

// WithDebounceWindow はデバウンス窓を変更する（テスト用）
func WithDebounceWindow(window time.Duration) MapRendererOption {
	return func(c *mapRendererConfig) {
		c.debounceWindow = window
	}
}

// NewMapRenderer は新しいMapRendererを生成する
func NewMapRenderer(engine MapEngine, provider DirectionsProvider, opts ...MapRendererOption) *MapRenderer {
	cfg := mapRendererConfig{debounceWindow: 500 * time.Millisecond}
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &MapRenderer{
		engine:   engine,
		provider: provider,
		state:    RendererUninitialized,
	}
	r.debouncer = NewDebouncer(cfg.debounceWindow, r.syncLatest)
	return r
}

// State は現在のライフサイクル状態を返す
func (r *MapRenderer) State() RendererState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Mount は地図エンジンを読み込む。読み込みに失敗してもUIを固めないため
// ベストエフォートでreadyへ遷移する（失敗はログのみ）。
func (r *MapRenderer) Mount(ctx context.Context) {
	r.mu.Lock()
	if r.state != RendererUninitialized {
		r.mu.Unlock()
		return
	}
	r.state = RendererLoading
	r.mu.Unlock()

	if err := r.engine.Load(ctx); err != nil {
		log.Printf("⚠️  地図エンジンの読み込みに失敗しましたが続行します: %v", err)
	}

	r.mu.Lock()
	r.state = RendererReady
	r.mu.Unlock()
}

// Unmount はデバウンスタイマーを取り消す
func (r *MapRenderer) Unmount() {
	r.debouncer.Stop()
}

// Notify は選択中の日の変更を通知する。500msの静止期間の後に再同期が走る。
func (r *MapRenderer) Notify(destinations []model.Destination, mode model.TransportMode) {
	r.mu.Lock()
	r.pending = syncInput{destinations: destinations, mode: mode}
	r.mu.Unlock()
	r.debouncer.Trigger()
}

func (r *MapRenderer) syncLatest() {
	r.mu.Lock()
	if r.state != RendererReady {
		r.mu.Unlock()
		return
	}
	input := r.pending
	r.mu.Unlock()
	r.Sync(context.Background(), input.destinations, input.mode)
}

// Sync は目的地リストと移動手段を地図へ再同期し、実行したステップを返す。
//  1. 既存のマーカー・経路をすべて消去（冪等）
//  2. 目的地が空なら終了
//  3. 訪問順に番号付きマーカーを描画
//  4. 全目的地を覆う範囲へビューポートをフィット
//  5. 1件だけならクローズアップズームで上書き
//  6. 2件以上なら経路線の描画を試行
func (r *MapRenderer) Sync(ctx context.Context, destinations []model.Destination, mode model.TransportMode) []RenderStep {
	var steps []RenderStep

	r.engine.ClearOverlays()

	if len(destinations) == 0 {
		return append(steps, RenderStep{Kind: "markers", Result: RenderSkipped})
	}

	for i, dest := range destinations {
		r.engine.AddMarker(dest.ToLatLng(), markerLabel(i+1), dest.Name)
	}
	steps = append(steps, RenderStep{Kind: "markers", Result: RenderDrawn})

	r.engine.FitBounds(helper.DestinationBounds(destinations))
	steps = append(steps, RenderStep{Kind: "bounds", Result: RenderDrawn})

	// 1点のみの場合はbounds-fitが退化するためズームで上書きする
	if len(destinations) == 1 {
		r.engine.SetZoom(singleDestinationZoom)
		return append(steps, RenderStep{Kind: "zoom", Result: RenderDrawn})
	}

	if mode == model.TransportDriving {
		steps = append(steps, r.syncDrivingRoute(ctx, destinations))
	} else {
		steps = append(steps, r.syncSegmentedRoute(ctx, destinations, mode)...)
	}
	return steps
}

// syncDrivingRoute は全目的地を経由地として1本の経路で描画する。
// 失敗時は全区間を結ぶ直線（中立色）にフォールバックする。
func (r *MapRenderer) syncDrivingRoute(ctx context.Context, destinations []model.Destination) RenderStep {
	waypoints := make([]model.LatLng, 0, len(destinations)-1)
	for _, d := range destinations[1:] {
		waypoints = append(waypoints, d.ToLatLng())
	}

	details, err := r.provider.GetRoute(ctx, model.TransportDriving, destinations[0].ToLatLng(), waypoints...)
	if err != nil || !details.HasPath() {
		if err != nil {
			log.Printf("⚠️  経路取得に失敗したため直線で表示します: %v", err)
		}
		r.drawStraightLine(destinationPath(destinations))
		return RenderStep{Kind: "route", Result: RenderFellBack}
	}

	r.engine.DrawPath(details.Path, PathStyle{Color: ColorDriving, Weight: 6, Opacity: 0.7})
	// 実際の経路ジオメトリに合わせてビューポートを再フィット
	r.engine.FitBounds(helper.PathBounds(details.Path))
	return RenderStep{Kind: "route", Result: RenderDrawn}
}

// syncSegmentedRoute は隣接ペアごとに独立した経路を直列で描画する。
// 失敗した区間だけが直線にフォールバックし、他の区間には影響しない。
func (r *MapRenderer) syncSegmentedRoute(ctx context.Context, destinations []model.Destination, mode model.TransportMode) []RenderStep {
	steps := make([]RenderStep, 0, len(destinations)-1)
	color := modeColor(mode)

	for i := 0; i < len(destinations)-1; i++ {
		details, err := r.provider.GetRoute(ctx, mode, destinations[i].ToLatLng(), destinations[i+1].ToLatLng())
		if err != nil || !details.HasPath() {
			if err != nil {
				log.Printf("⚠️  区間%d→%dの経路取得に失敗したため直線で表示します: %v", i+1, i+2, err)
			}
			r.drawStraightLine([]model.LatLng{destinations[i].ToLatLng(), destinations[i+1].ToLatLng()})
			steps = append(steps, RenderStep{Kind: "segment", Result: RenderFellBack})
			continue
		}
		r.engine.DrawPath(details.Path, PathStyle{Color: color, Weight: 5, Opacity: 0.7})
		steps = append(steps, RenderStep{Kind: "segment", Result: RenderDrawn})
	}
	return steps
}

func (r *MapRenderer) drawStraightLine(path []model.LatLng) {
	r.engine.DrawPath(path, PathStyle{Color: ColorFallback, Weight: 3, Opacity: 0.6, Geodesic: true})
}

func destinationPath(destinations []model.Destination) []model.LatLng {
	path := make([]model.LatLng, len(destinations))
	for i, d := range destinations {
		path[i] = d.ToLatLng()
	}
	return path
}

func modeColor(mode model.TransportMode) string {
	switch mode {
	case model.TransportTransit:
		return ColorTransit
	case model.TransportWalking:
		return ColorWalking
	case model.TransportBicycling:
		return ColorBicycling
	default:
		return ColorDriving
	}
}

// markerLabel はマーカーのラベル（訪問順の1始まり連番）を返す
func markerLabel(n int) string {
	return strconv.Itoa(n)
}
