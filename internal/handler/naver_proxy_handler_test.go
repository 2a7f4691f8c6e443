package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"Tabiji-App/internal/infrastructure/maps"
)

// fakeNaverRelay は上流呼び出しを記録するテスト用のNaverRelay実装
type fakeNaverRelay struct {
	body  []byte
	err   error
	calls int
}

func (f *fakeNaverRelay) FetchDirections(_ context.Context, _, _, _ string) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

func (f *fakeNaverRelay) FetchGeocode(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

func (f *fakeNaverRelay) FetchLocalSearch(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

func newProxyRouter(relay *fakeNaverRelay) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNaverProxyHandler(relay)
	r := gin.New()
	r.GET("/api/naver/directions5", h.GetDirections)
	r.GET("/api/naver/geocode", h.GetGeocode)
	r.GET("/api/naver/search", h.GetSearch)
	return r
}

func TestNaverProxyHandler_GetDirections(t *testing.T) {
	t.Run("必須パラメータ欠落時は上流を呼ばずに400", func(t *testing.T) {
		relay := &fakeNaverRelay{}
		router := newProxyRouter(relay)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/naver/directions5?start=127.1,37.4", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコードが不正です: %d", w.Code)
		}
		if relay.calls != 0 {
			t.Error("パラメータ欠落時に上流が呼ばれました")
		}
	})

	t.Run("成功時は上流のJSONをそのまま返す", func(t *testing.T) {
		upstream := []byte(`{"route":{"traoptimal":[]}}`)
		relay := &fakeNaverRelay{body: upstream}
		router := newProxyRouter(relay)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/naver/directions5?start=127.1,37.4&goal=127.2,37.5", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコードが不正です: %d", w.Code)
		}
		if w.Body.String() != string(upstream) {
			t.Errorf("上流のレスポンスが変形されています: %s", w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Typeが不正です: %s", ct)
		}
	})

	t.Run("上流の失敗は502でステータスを引き継ぐ", func(t *testing.T) {
		relay := &fakeNaverRelay{
			err: &maps.UpstreamError{StatusCode: 429, Body: "rate limited"},
		}
		router := newProxyRouter(relay)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/naver/directions5?start=127.1,37.4&goal=127.2,37.5", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("ステータスコードが不正です: %d", w.Code)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスのパースに失敗: %v", err)
		}
		if body["upstream_status"] != float64(429) {
			t.Errorf("上流ステータスが引き継がれていません: %v", body["upstream_status"])
		}
	})

	t.Run("上流エラー以外の失敗は500", func(t *testing.T) {
		relay := &fakeNaverRelay{err: errors.New("接続失敗")}
		router := newProxyRouter(relay)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/naver/directions5?start=127.1,37.4&goal=127.2,37.5", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ステータスコードが不正です: %d", w.Code)
		}
	})
}

func TestNaverProxyHandler_GetGeocode(t *testing.T) {
	t.Run("addressは必須", func(t *testing.T) {
		relay := &fakeNaverRelay{}
		router := newProxyRouter(relay)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/naver/geocode", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコードが不正です: %d", w.Code)
		}
		if relay.calls != 0 {
			t.Error("パラメータ欠落時に上流が呼ばれました")
		}
	})

	t.Run("成功時は上流のJSONをそのまま返す", func(t *testing.T) {
		upstream := []byte(`{"addresses":[{"x":"135.7681","y":"35.0116"}]}`)
		relay := &fakeNaverRelay{body: upstream}
		router := newProxyRouter(relay)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/naver/geocode?address=%E4%BA%AC%E9%83%BD", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK || w.Body.String() != string(upstream) {
			t.Errorf("レスポンスが不正です: code=%d body=%s", w.Code, w.Body.String())
		}
	})
}

func TestNaverProxyHandler_GetSearch(t *testing.T) {
	t.Run("queryは必須", func(t *testing.T) {
		relay := &fakeNaverRelay{}
		router := newProxyRouter(relay)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/naver/search", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコードが不正です: %d", w.Code)
		}
		if relay.calls != 0 {
			t.Error("パラメータ欠落時に上流が呼ばれました")
		}
	})
}
