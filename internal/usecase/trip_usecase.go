package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"Tabiji-App/internal/domain/model"
	"Tabiji-App/internal/domain/service"
	"Tabiji-App/internal/repository"
)

// ErrNoActiveTrip はアクティブな旅行計画が存在しない場合のエラー
var ErrNoActiveTrip = errors.New("アクティブな旅行計画がありません")

// 新規作成時のデフォルト日数
const defaultDayCount = 3

// TripUseCase は旅行計画のライフサイクルを調整する。
// ストアの変更は2秒のデバウンス付き自動保存でベストエフォート永続化され、
// 自動保存の失敗は編集を妨げないよう黙って握りつぶす。
// 明示的な保存の失敗は必ず呼び出し側へ伝播する。
type TripUseCase struct {
	store    *service.TripStore
	repo     repository.TripsRepository
	autosave *service.Debouncer
}

// TripUseCaseOption はTripUseCaseの生成オプション
type TripUseCaseOption func(*tripUseCaseConfig)

type tripUseCaseConfig struct {
	autosaveWindow time.Duration
}

// WithAutosaveWindow は自動保存のデバウンス窓を変更する（テスト用）
func WithAutosaveWindow(window time.Duration) TripUseCaseOption {
	return func(c *tripUseCaseConfig) {
		c.autosaveWindow = window
	}
}

// NewTripUseCase は新しいTripUseCaseを生成し、ストアの変更を購読する
func NewTripUseCase(store *service.TripStore, repo repository.TripsRepository, opts ...TripUseCaseOption) *TripUseCase {
	cfg := tripUseCaseConfig{autosaveWindow: 2 * time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}

	uc := &TripUseCase{store: store, repo: repo}
	uc.autosave = service.NewDebouncer(cfg.autosaveWindow, uc.autosaveFire)

	store.Subscribe(func(trip *model.TripPlan) {
		// 一度も永続化されていない計画は自動保存の対象外
		if trip != nil && trip.ID != "" {
			uc.autosave.Trigger()
		}
	})
	return uc
}

// Store はこのユースケースが調整するTripStoreを返す
func (uc *TripUseCase) Store() *service.TripStore {
	return uc.store
}

// LoadOrCreate は指定IDの旅行計画を読み込んでアクティブにする。
// IDが空、または読み込みに失敗した場合は新規の計画（3日分・移動手段DRIVING）を
// ローカルに作成する。新規計画のIDは最初の保存まで空文字列のまま。
func (uc *TripUseCase) LoadOrCreate(ctx context.Context, userID, tripID string) *model.TripPlan {
	if tripID != "" {
		trip, err := uc.repo.Get(ctx, tripID)
		if err == nil {
			uc.store.SetCurrentTrip(trip)
			return trip
		}
		log.Printf("⚠️  旅行計画の読み込みに失敗したため新規作成します: %v", err)
	}

	trip := NewDefaultTripPlan(userID)
	uc.store.SetCurrentTrip(trip)
	return trip
}

// NewDefaultTripPlan は新規作成時のデフォルト旅行計画を組み立てる
func NewDefaultTripPlan(userID string) *model.TripPlan {
	now := time.Now()
	trip := &model.TripPlan{
		ID:        "", // 最初の保存でIDが採番される
		UserID:    userID,
		Title:     "新しい旅行計画",
		StartDate: now,
		EndDate:   now.AddDate(0, 0, defaultDayCount-1),
		CreatedAt: now,
		UpdatedAt: now,
		IsPublic:  false,
	}
	for i := 1; i <= defaultDayCount; i++ {
		date := now.AddDate(0, 0, i-1)
		trip.Days = append(trip.Days, model.DayPlan{
			ID:            "day-" + uuid.New().String(),
			Day:           i,
			Date:          &date,
			Destinations:  []model.Destination{},
			TransportMode: model.TransportDriving,
		})
	}
	return trip
}

// Save はアクティブな旅行計画を明示的に保存する。
// 未永続化の計画には新しいIDが採番され、スナップショットへ反映される。
// 失敗はそのまま呼び出し側へ伝播する（ユーザーへの通知は呼び出し側の責務）。
func (uc *TripUseCase) Save(ctx context.Context) (*model.TripPlan, error) {
	trip := uc.store.CurrentTrip()
	if trip == nil {
		return nil, ErrNoActiveTrip
	}

	if trip.ID == "" {
		newID, err := uc.repo.Save(ctx, trip.UserID, trip)
		if err != nil {
			return nil, err
		}
		saved := *trip
		saved.ID = newID
		uc.store.SetCurrentTrip(&saved)
		return &saved, nil
	}

	if err := uc.repo.Update(ctx, trip.ID, fullUpdate(trip)); err != nil {
		return nil, err
	}
	return trip, nil
}

// autosaveFire はデバウンス満了時に呼ばれるベストエフォート保存。
// 失敗は編集の妨げにならないようログのみで握りつぶす。
func (uc *TripUseCase) autosaveFire() {
	trip := uc.store.CurrentTrip()
	if trip == nil || trip.ID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.repo.Update(ctx, trip.ID, fullUpdate(trip)); err != nil {
		log.Printf("⚠️  自動保存に失敗しました（続行します）: %v", err)
	}
}

// Share は共有先ユーザーIDリストを差し替える
func (uc *TripUseCase) Share(ctx context.Context, tripID string, userIDs []string) error {
	return uc.repo.Share(ctx, tripID, userIDs)
}

// Delete は旅行計画を削除する
func (uc *TripUseCase) Delete(ctx context.Context, tripID string) error {
	return uc.repo.Delete(ctx, tripID)
}

// Close は自動保存タイマーを停止する
func (uc *TripUseCase) Close() {
	uc.autosave.Stop()
}

// fullUpdate はスナップショット全体を部分更新の形に変換する。
// ID・所有者はTripPlanUpdateに含まれないため変更されない。
func fullUpdate(trip *model.TripPlan) *model.TripPlanUpdate {
	days := make([]model.DayPlan, len(trip.Days))
	copy(days, trip.Days)
	return &model.TripPlanUpdate{
		Title:       &trip.Title,
		Description: &trip.Description,
		StartDate:   &trip.StartDate,
		EndDate:     &trip.EndDate,
		Days:        &days,
		IsPublic:    &trip.IsPublic,
		SharedWith:  &trip.SharedWith,
	}
}
