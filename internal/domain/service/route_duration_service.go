package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"Tabiji-App/internal/domain/model"
)

// UnknownDuration は所要時間が取得できなかった区間のプレースホルダ
const UnknownDuration = "不明"

// RouteDurationService は隣接する目的地ペアごとの所要時間を取得する。
// リクエストは区間順に直列で発行され、ある区間の失敗は他の区間に影響しない。
type RouteDurationService struct {
	provider DirectionsProvider
}

// NewRouteDurationService は新しいRouteDurationServiceを生成する
func NewRouteDurationService(provider DirectionsProvider) *RouteDurationService {
	return &RouteDurationService{provider: provider}
}

// Durations は目的地N件に対してちょうどN-1件の所要時間文字列を返す。
// 取得できなかった区間にはUnknownDurationが入る。エラーは返さない。
func (s *RouteDurationService) Durations(ctx context.Context, destinations []model.Destination, mode model.TransportMode) []string {
	if len(destinations) < 2 {
		return []string{}
	}

	durations := make([]string, 0, len(destinations)-1)
	for i := 0; i < len(destinations)-1; i++ {
		details, err := s.provider.GetRoute(ctx, mode, destinations[i].ToLatLng(), destinations[i+1].ToLatLng())
		if err != nil {
			log.Printf("⚠️  区間%d→%dの所要時間取得に失敗: %v", i+1, i+2, err)
			durations = append(durations, UnknownDuration)
			continue
		}
		durations = append(durations, FormatDuration(details.TotalDuration))
	}
	return durations
}

// FormatDuration は所要時間を表示用文字列に変換する（分単位に丸め）
func FormatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d分", minutes)
}
