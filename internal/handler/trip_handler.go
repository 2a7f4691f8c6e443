package handler

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"Tabiji-App/internal/domain/model"
	"Tabiji-App/internal/infrastructure/auth"
	"Tabiji-App/internal/repository"
)

// TripHandler は旅行計画APIのハンドラー
type TripHandler struct {
	repo repository.TripsRepository
}

// NewTripHandler は新しいTripHandlerインスタンスを作成
func NewTripHandler(repo repository.TripsRepository) *TripHandler {
	return &TripHandler{repo: repo}
}

// PostTrip は新しい旅行計画を保存するエンドポイント
// POST /api/trips
func (h *TripHandler) PostTrip(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証されていません"})
		return
	}

	var trip model.TripPlan
	if err := c.ShouldBindJSON(&trip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if err := validateTripPlan(&trip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": err.Error(),
		})
		return
	}

	newID, err := h.repo.Save(c.Request.Context(), userID, &trip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "旅行計画の保存に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": newID})
}

// validateTripPlan はリクエストの詳細バリデーションを行う
func validateTripPlan(trip *model.TripPlan) error {
	if trip.Title == "" {
		return &ValidationError{Field: "title", Message: "タイトルは必須です"}
	}
	if len(trip.Days) == 0 {
		return &ValidationError{Field: "days", Message: "少なくとも1日分の日程が必要です"}
	}
	for i, day := range trip.Days {
		if day.Day != i+1 {
			return &ValidationError{Field: "days", Message: "日番号は1始まりの連番で指定してください"}
		}
		if !day.TransportMode.IsValid() {
			return &ValidationError{Field: "days.transport_mode", Message: "移動手段はDRIVING/TRANSIT/WALKING/BICYCLINGのいずれかを指定してください"}
		}
		seen := make(map[string]struct{}, len(day.Destinations))
		for _, dest := range day.Destinations {
			if _, dup := seen[dest.ID]; dup {
				return &ValidationError{Field: "days.destinations", Message: "同じ日程内で目的地IDが重複しています"}
			}
			seen[dest.ID] = struct{}{}
			if dest.Lat < -90 || dest.Lat > 90 {
				return &ValidationError{Field: "days.destinations.lat", Message: "緯度は-90から90の範囲で指定してください"}
			}
			if dest.Lng < -180 || dest.Lng > 180 {
				return &ValidationError{Field: "days.destinations.lng", Message: "経度は-180から180の範囲で指定してください"}
			}
		}
	}
	return nil
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// GetTrip は旅行計画を1件取得するエンドポイント
// GET /api/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	userID, _ := auth.UserID(c)

	trip, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "旅行計画が見つかりません",
			"details": err.Error(),
		})
		return
	}

	// 公開計画・所有者・共有先のいずれでもなければ閲覧不可
	if !trip.IsPublic && trip.UserID != userID && !slices.Contains(trip.SharedWith, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "この旅行計画を閲覧する権限がありません"})
		return
	}
	c.JSON(http.StatusOK, trip)
}

// ListTrips は自分の旅行計画の一覧を取得するエンドポイント
// GET /api/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証されていません"})
		return
	}

	trips, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "旅行計画の一覧取得に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// ListSharedTrips は自分に共有された旅行計画の一覧を取得するエンドポイント
// GET /api/trips/shared
func (h *TripHandler) ListSharedTrips(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証されていません"})
		return
	}

	trips, err := h.repo.ListSharedWith(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "共有された旅行計画の取得に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// ListPublicTrips は公開されている旅行計画の一覧を取得するエンドポイント
// GET /api/trips/public
func (h *TripHandler) ListPublicTrips(c *gin.Context) {
	trips, err := h.repo.ListPublic(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "公開旅行計画の取得に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// PutTrip は旅行計画を部分更新するエンドポイント
// PUT /api/trips/:id
func (h *TripHandler) PutTrip(c *gin.Context) {
	trip, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var updates model.TripPlanUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if err := h.repo.Update(c.Request.Context(), trip.ID, &updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "旅行計画の更新に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteTrip は旅行計画を削除するエンドポイント
// DELETE /api/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	trip, ok := h.requireOwner(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), trip.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "旅行計画の削除に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ShareTripRequest は共有設定リクエスト
type ShareTripRequest struct {
	UserIDs []string `json:"user_ids"`
}

// PutTripShare は共有先ユーザーIDリストを差し替えるエンドポイント
// PUT /api/trips/:id/share
func (h *TripHandler) PutTripShare(c *gin.Context) {
	trip, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req ShareTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if err := h.repo.Share(c.Request.Context(), trip.ID, req.UserIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "旅行計画の共有設定に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "shared"})
}

// requireOwner は対象の旅行計画を取得し、リクエストユーザーが所有者であることを確認する
func (h *TripHandler) requireOwner(c *gin.Context) (*model.TripPlan, bool) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証されていません"})
		return nil, false
	}

	trip, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "旅行計画が見つかりません",
			"details": err.Error(),
		})
		return nil, false
	}
	if trip.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "この旅行計画を変更する権限がありません"})
		return nil, false
	}
	return trip, true
}
