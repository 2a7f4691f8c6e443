package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"Tabiji-App/internal/infrastructure/maps"
)

// NaverRelay はNaver APIの生レスポンス中継に必要な操作の抽象
type NaverRelay interface {
	FetchDirections(ctx context.Context, start, goal, waypoints string) ([]byte, error)
	FetchGeocode(ctx context.Context, address string) ([]byte, error)
	FetchLocalSearch(ctx context.Context, query string) ([]byte, error)
}

// NaverProxyHandler はブラウザからのNaver API呼び出しを中継するプロキシ。
// 認証ヘッダをサーバー側で付与し、プロバイダのJSONレスポンスを構造変換なしで返す。
type NaverProxyHandler struct {
	relay NaverRelay
}

// NewNaverProxyHandler は新しいNaverProxyHandlerインスタンスを作成
func NewNaverProxyHandler(relay NaverRelay) *NaverProxyHandler {
	return &NaverProxyHandler{relay: relay}
}

// GetDirections は経路APIを中継するエンドポイント
// GET /api/naver/directions5?start=lng,lat&goal=lng,lat&waypoints=...
func (h *NaverProxyHandler) GetDirections(c *gin.Context) {
	start := c.Query("start")
	goal := c.Query("goal")
	if start == "" || goal == "" {
		// 必須パラメータ欠落時は上流を呼ばずに即時エラー
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "startとgoalパラメータは必須です",
		})
		return
	}

	body, err := h.relay.FetchDirections(c.Request.Context(), start, goal, c.Query("waypoints"))
	if err != nil {
		h.relayError(c, "経路の取得に失敗しました", err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// GetGeocode はジオコーディングAPIを中継するエンドポイント
// GET /api/naver/geocode?address=...
func (h *NaverProxyHandler) GetGeocode(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "addressパラメータは必須です",
		})
		return
	}

	body, err := h.relay.FetchGeocode(c.Request.Context(), address)
	if err != nil {
		h.relayError(c, "ジオコーディングに失敗しました", err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// GetSearch はローカル検索APIを中継するエンドポイント
// GET /api/naver/search?query=...
func (h *NaverProxyHandler) GetSearch(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "queryパラメータは必須です",
		})
		return
	}

	body, err := h.relay.FetchLocalSearch(c.Request.Context(), query)
	if err != nil {
		h.relayError(c, "場所検索に失敗しました", err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// relayError は上流の失敗をサーバーエラーとして返す。
// 診断のため上流のステータスと本文をそのまま詳細に含める。
func (h *NaverProxyHandler) relayError(c *gin.Context, message string, err error) {
	log.Printf("❌ Naverプロキシエラー: %v", err)

	var upstream *maps.UpstreamError
	if errors.As(err, &upstream) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           message,
			"upstream_status": upstream.StatusCode,
			"details":         upstream.Body,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
