package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"Tabiji-App/internal/domain/model"
)

// fakeMapEngine は地図エンジンへの呼び出しを記録するテスト用実装
type fakeMapEngine struct {
	mu          sync.Mutex
	loadErr     error
	clearCount  int
	markers     []string // 追加順のラベル
	bounds      []orb.Bound
	zooms       []int
	drawnPaths  []fakeDrawnPath
}

type fakeDrawnPath struct {
	path  []model.LatLng
	style PathStyle
}

func (e *fakeMapEngine) Load(_ context.Context) error { return e.loadErr }

func (e *fakeMapEngine) ClearOverlays() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearCount++
}

func (e *fakeMapEngine) AddMarker(_ model.LatLng, label, _ string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markers = append(e.markers, label)
}

func (e *fakeMapEngine) FitBounds(bound orb.Bound) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bounds = append(e.bounds, bound)
}

func (e *fakeMapEngine) SetZoom(level int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zooms = append(e.zooms, level)
}

func (e *fakeMapEngine) DrawPath(path []model.LatLng, style PathStyle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drawnPaths = append(e.drawnPaths, fakeDrawnPath{path: path, style: style})
}

func (e *fakeMapEngine) snapshotClearCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clearCount
}

func testDestinations(n int) []model.Destination {
	all := []model.Destination{
		{ID: "dest-1", Name: "清水寺", Lat: 34.9949, Lng: 135.7850},
		{ID: "dest-2", Name: "金閣寺", Lat: 35.0394, Lng: 135.7292},
		{ID: "dest-3", Name: "伏見稲荷大社", Lat: 34.9671, Lng: 135.7727},
	}
	return all[:n]
}

func TestMapRenderer_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("目的地が空のときは消去だけ行う", func(t *testing.T) {
		engine := &fakeMapEngine{}
		renderer := NewMapRenderer(engine, &fakeDirectionsProvider{})

		steps := renderer.Sync(ctx, nil, model.TransportDriving)

		if engine.clearCount != 1 {
			t.Errorf("消去回数が不正です: %d", engine.clearCount)
		}
		if len(steps) != 1 || steps[0].Result != RenderSkipped {
			t.Errorf("ステップが不正です: %+v", steps)
		}
		if len(engine.markers) != 0 || len(engine.drawnPaths) != 0 {
			t.Error("空リストで描画が行われました")
		}
	})

	t.Run("目的地1件はクローズアップズームで表示する", func(t *testing.T) {
		engine := &fakeMapEngine{}
		renderer := NewMapRenderer(engine, &fakeDirectionsProvider{})

		steps := renderer.Sync(ctx, testDestinations(1), model.TransportDriving)

		if len(engine.markers) != 1 || engine.markers[0] != "1" {
			t.Errorf("マーカーが不正です: %v", engine.markers)
		}
		if len(engine.zooms) != 1 || engine.zooms[0] != 14 {
			t.Errorf("ズームレベルが不正です: %v", engine.zooms)
		}
		if len(engine.drawnPaths) != 0 {
			t.Error("1件の目的地で経路が描画されました")
		}
		last := steps[len(steps)-1]
		if last.Kind != "zoom" || last.Result != RenderDrawn {
			t.Errorf("最終ステップが不正です: %+v", last)
		}
	})

	t.Run("マーカーは訪問順の連番ラベルを持つ", func(t *testing.T) {
		engine := &fakeMapEngine{}
		provider := &fakeDirectionsProvider{
			getRoute: func(_ context.Context, _ model.TransportMode, _ model.LatLng, _ ...model.LatLng) (*model.RouteDetails, error) {
				return nil, errors.New("経路なし")
			},
		}
		renderer := NewMapRenderer(engine, provider)

		renderer.Sync(ctx, testDestinations(3), model.TransportDriving)

		want := []string{"1", "2", "3"}
		for i := range want {
			if engine.markers[i] != want[i] {
				t.Errorf("マーカーラベルが不正です: %v", engine.markers)
			}
		}
	})

	t.Run("自動車は1本の経路として描画する", func(t *testing.T) {
		engine := &fakeMapEngine{}
		routePath := []model.LatLng{
			{Lat: 34.9949, Lng: 135.7850},
			{Lat: 35.0100, Lng: 135.7500},
			{Lat: 35.0394, Lng: 135.7292},
		}
		var gotWaypoints int
		provider := &fakeDirectionsProvider{
			getRoute: func(_ context.Context, mode model.TransportMode, _ model.LatLng, waypoints ...model.LatLng) (*model.RouteDetails, error) {
				if mode != model.TransportDriving {
					t.Errorf("移動手段が不正です: %s", mode)
				}
				gotWaypoints = len(waypoints)
				return &model.RouteDetails{Path: routePath}, nil
			},
		}
		renderer := NewMapRenderer(engine, provider)

		steps := renderer.Sync(ctx, testDestinations(3), model.TransportDriving)

		if provider.calls != 1 {
			t.Errorf("プロバイダ呼び出し回数が不正です: %d", provider.calls)
		}
		if gotWaypoints != 2 {
			t.Errorf("経由地数が不正です: %d", gotWaypoints)
		}
		if len(engine.drawnPaths) != 1 {
			t.Fatalf("描画された経路数が不正です: %d", len(engine.drawnPaths))
		}
		if engine.drawnPaths[0].style.Color != ColorDriving {
			t.Errorf("経路色が不正です: %s", engine.drawnPaths[0].style.Color)
		}
		// 経路ジオメトリへの再フィットで2回になる
		if len(engine.bounds) != 2 {
			t.Errorf("FitBoundsの回数が不正です: %d", len(engine.bounds))
		}
		last := steps[len(steps)-1]
		if last.Kind != "route" || last.Result != RenderDrawn {
			t.Errorf("最終ステップが不正です: %+v", last)
		}
	})

	t.Run("経路取得に失敗したら直線にフォールバックする", func(t *testing.T) {
		engine := &fakeMapEngine{}
		provider := &fakeDirectionsProvider{
			getRoute: func(_ context.Context, _ model.TransportMode, _ model.LatLng, _ ...model.LatLng) (*model.RouteDetails, error) {
				return nil, errors.New("上流エラー")
			},
		}
		renderer := NewMapRenderer(engine, provider)

		steps := renderer.Sync(ctx, testDestinations(2), model.TransportDriving)

		if len(engine.drawnPaths) != 1 {
			t.Fatalf("描画された経路数が不正です: %d", len(engine.drawnPaths))
		}
		fallback := engine.drawnPaths[0]
		if fallback.style.Color != ColorFallback || !fallback.style.Geodesic {
			t.Errorf("フォールバックのスタイルが不正です: %+v", fallback.style)
		}
		if len(fallback.path) != 2 {
			t.Errorf("フォールバック経路の座標数が不正です: %d", len(fallback.path))
		}
		last := steps[len(steps)-1]
		if last.Kind != "route" || last.Result != RenderFellBack {
			t.Errorf("最終ステップが不正です: %+v", last)
		}
	})

	t.Run("自動車以外は区間ごとに独立して描画する", func(t *testing.T) {
		engine := &fakeMapEngine{}
		call := 0
		provider := &fakeDirectionsProvider{
			getRoute: func(_ context.Context, _ model.TransportMode, origin model.LatLng, waypoints ...model.LatLng) (*model.RouteDetails, error) {
				call++
				if call == 2 {
					return nil, errors.New("区間エラー")
				}
				return &model.RouteDetails{Path: []model.LatLng{origin, waypoints[0]}}, nil
			},
		}
		renderer := NewMapRenderer(engine, provider)

		steps := renderer.Sync(ctx, testDestinations(3), model.TransportWalking)

		if provider.calls != 2 {
			t.Errorf("プロバイダ呼び出し回数が不正です: %d", provider.calls)
		}
		segments := steps[2:]
		if len(segments) != 2 {
			t.Fatalf("区間ステップ数が不正です: %+v", steps)
		}
		if segments[0].Result != RenderDrawn {
			t.Errorf("成功した区間の結果が不正です: %+v", segments[0])
		}
		if segments[1].Result != RenderFellBack {
			t.Errorf("失敗した区間の結果が不正です: %+v", segments[1])
		}
		if engine.drawnPaths[0].style.Color != ColorWalking {
			t.Errorf("徒歩の経路色が不正です: %s", engine.drawnPaths[0].style.Color)
		}
		if engine.drawnPaths[1].style.Color != ColorFallback {
			t.Errorf("フォールバック区間の色が不正です: %s", engine.drawnPaths[1].style.Color)
		}
	})
}

func TestMapRenderer_Lifecycle(t *testing.T) {
	t.Run("読み込みに失敗してもreadyに遷移する", func(t *testing.T) {
		engine := &fakeMapEngine{loadErr: errors.New("スクリプトの読み込み失敗")}
		renderer := NewMapRenderer(engine, &fakeDirectionsProvider{})

		renderer.Mount(context.Background())

		if renderer.State() != RendererReady {
			t.Errorf("Mount後の状態が不正です: %d", renderer.State())
		}
	})

	t.Run("マウント前の通知は同期されない", func(t *testing.T) {
		engine := &fakeMapEngine{}
		renderer := NewMapRenderer(engine, &fakeDirectionsProvider{}, WithDebounceWindow(20*time.Millisecond))

		renderer.Notify(testDestinations(1), model.TransportDriving)
		time.Sleep(100 * time.Millisecond)

		if engine.snapshotClearCount() != 0 {
			t.Error("マウント前に同期が実行されました")
		}
	})

	t.Run("連続した通知は1回の再同期にまとまる", func(t *testing.T) {
		engine := &fakeMapEngine{}
		renderer := NewMapRenderer(engine, &fakeDirectionsProvider{}, WithDebounceWindow(50*time.Millisecond))
		renderer.Mount(context.Background())

		renderer.Notify(testDestinations(1), model.TransportDriving)
		renderer.Notify(nil, model.TransportDriving)
		renderer.Notify(testDestinations(1), model.TransportDriving)

		time.Sleep(200 * time.Millisecond)
		if got := engine.snapshotClearCount(); got != 1 {
			t.Errorf("再同期回数が不正です: got=%d want=1", got)
		}
	})

	t.Run("アンマウント後は同期されない", func(t *testing.T) {
		engine := &fakeMapEngine{}
		renderer := NewMapRenderer(engine, &fakeDirectionsProvider{}, WithDebounceWindow(50*time.Millisecond))
		renderer.Mount(context.Background())

		renderer.Notify(testDestinations(1), model.TransportDriving)
		renderer.Unmount()

		time.Sleep(150 * time.Millisecond)
		if engine.snapshotClearCount() != 0 {
			t.Error("アンマウント後に同期が実行されました")
		}
	})
}
