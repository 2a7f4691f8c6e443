package repository

import (
	"context"

	"Tabiji-App/internal/domain/model"
)

// TripsRepository は旅行計画の永続化を担うリポジトリのインターフェース。
// ストア由来のエラーは変換せずそのまま呼び出し側へ伝播する（リトライなし）。
type TripsRepository interface {
	// Save は新しいドキュメントIDを採番して全体を保存し、そのIDを返す
	Save(ctx context.Context, userID string, trip *model.TripPlan) (string, error)
	// Update は部分更新を適用する。ID・所有者は変更されず、更新日時は常に現在時刻になる
	Update(ctx context.Context, tripID string, updates *model.TripPlanUpdate) error
	// Get は1件取得する
	Get(ctx context.Context, tripID string) (*model.TripPlan, error)
	// ListByUser は所有者のユーザーIDで絞り込み、作成日時の降順で返す
	ListByUser(ctx context.Context, userID string) ([]*model.TripPlan, error)
	// ListSharedWith は共有先にユーザーIDを含む計画を作成日時の降順で返す
	ListSharedWith(ctx context.Context, userID string) ([]*model.TripPlan, error)
	// ListPublic は公開フラグの立った計画を作成日時の降順で返す
	ListPublic(ctx context.Context) ([]*model.TripPlan, error)
	// Delete は1件削除する
	Delete(ctx context.Context, tripID string) error
	// Share は共有先ユーザーIDリストを差し替える
	Share(ctx context.Context, tripID string, userIDs []string) error
}
