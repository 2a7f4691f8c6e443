package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"Tabiji-App/internal/usecase"
)

// PlaceHandler は場所検索・ジオコーディングAPIのハンドラー
type PlaceHandler struct {
	places *usecase.PlaceUseCase
}

// NewPlaceHandler は新しいPlaceHandlerインスタンスを作成
func NewPlaceHandler(places *usecase.PlaceUseCase) *PlaceHandler {
	return &PlaceHandler{places: places}
}

// GetSearch は場所を検索するエンドポイント
// GET /api/places/search?query=...
func (h *PlaceHandler) GetSearch(c *gin.Context) {
	results, err := h.places.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		if errors.Is(err, usecase.ErrQueryRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, usecase.ErrSuperseded) {
			// 古いリクエストの結果は返さない
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "場所検索に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": results})
}

// GetGeocode は住所を座標に変換するエンドポイント
// GET /api/places/geocode?address=...
func (h *PlaceHandler) GetGeocode(c *gin.Context) {
	result, err := h.places.Geocode(c.Request.Context(), c.Query("address"))
	if err != nil {
		if errors.Is(err, usecase.ErrAddressRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, usecase.ErrSuperseded) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "座標が見つかりませんでした",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
