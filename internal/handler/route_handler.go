package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Tabiji-App/internal/domain/model"
	"Tabiji-App/internal/domain/service"
)

// RouteHandler は経路最適化・所要時間APIのハンドラー
type RouteHandler struct {
	optimizer       service.RouteOptimizer
	durationService *service.RouteDurationService
}

// NewRouteHandler は新しいRouteHandlerインスタンスを作成
func NewRouteHandler(optimizer service.RouteOptimizer, durationService *service.RouteDurationService) *RouteHandler {
	return &RouteHandler{
		optimizer:       optimizer,
		durationService: durationService,
	}
}

// PostOptimize は目的地の訪問順を最適化するエンドポイント
// POST /api/routes/optimize
// 最適化が適用できない場合はoptimized=falseで入力順をそのまま返す。
func (h *RouteHandler) PostOptimize(c *gin.Context) {
	var req model.OptimizeRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}
	if !req.Mode.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "移動手段はDRIVING/TRANSIT/WALKING/BICYCLINGのいずれかを指定してください",
		})
		return
	}

	optimized, ok := h.optimizer.Optimize(c.Request.Context(), req.Destinations, req.Mode)
	if !ok {
		c.JSON(http.StatusOK, model.OptimizeRouteResponse{
			Optimized:    false,
			Destinations: req.Destinations,
		})
		return
	}
	c.JSON(http.StatusOK, model.OptimizeRouteResponse{
		Optimized:    true,
		Destinations: optimized,
	})
}

// PostDurations は隣接する目的地間の所要時間を取得するエンドポイント
// POST /api/routes/durations
// 目的地N件に対してちょうどN-1件の所要時間文字列を返す。
func (h *RouteHandler) PostDurations(c *gin.Context) {
	var req model.RouteDurationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}
	if !req.Mode.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "移動手段はDRIVING/TRANSIT/WALKING/BICYCLINGのいずれかを指定してください",
		})
		return
	}

	durations := h.durationService.Durations(c.Request.Context(), req.Destinations, req.Mode)
	c.JSON(http.StatusOK, model.RouteDurationsResponse{Durations: durations})
}
