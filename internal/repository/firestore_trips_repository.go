package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"Tabiji-App/internal/domain/model"
)

const tripsCollection = "trips"

// FirestoreTripsRepository はFirestoreを使用した旅行計画リポジトリ
type FirestoreTripsRepository struct {
	client *firestore.Client
}

// NewFirestoreTripsRepository は新しいFirestoreTripsRepositoryインスタンスを作成
func NewFirestoreTripsRepository(client *firestore.Client) *FirestoreTripsRepository {
	return &FirestoreTripsRepository{client: client}
}

// Save は新しいドキュメントIDを採番して旅行計画を保存し、IDを返す。
// 作成日時・更新日時は保存時点の現在時刻でスタンプされる。
func (r *FirestoreTripsRepository) Save(ctx context.Context, userID string, trip *model.TripPlan) (string, error) {
	docRef := r.client.Collection(tripsCollection).NewDoc()

	now := time.Now()
	stamped := *trip
	stamped.UserID = userID
	stamped.CreatedAt = now
	stamped.UpdatedAt = now

	if _, err := docRef.Set(ctx, stamped.ToFirestoreTripPlan()); err != nil {
		return "", fmt.Errorf("旅行計画の保存に失敗しました: %w", err)
	}

	log.Printf("✅ Trip plan saved: %s (user: %s)", docRef.ID, userID)
	return docRef.ID, nil
}

// Update は部分更新を適用する。含まれないフィールドはストア側で据え置かれる（マージ）。
// ID・所有者フィールドは更新対象に含められず、更新日時は常に現在時刻になる。
func (r *FirestoreTripsRepository) Update(ctx context.Context, tripID string, updates *model.TripPlanUpdate) error {
	fsUpdates := buildFirestoreUpdates(updates)

	_, err := r.client.Collection(tripsCollection).Doc(tripID).Update(ctx, fsUpdates)
	if err != nil {
		return fmt.Errorf("旅行計画の更新に失敗しました: %w", err)
	}
	return nil
}

// buildFirestoreUpdates はTripPlanUpdateから更新パスのリストを構築する。
// nilのフィールドはパスに含めない。日付類はここでワイヤー形式へ変換される。
func buildFirestoreUpdates(updates *model.TripPlanUpdate) []firestore.Update {
	fsUpdates := []firestore.Update{
		{Path: "updatedAt", Value: time.Now()},
	}
	if updates == nil {
		return fsUpdates
	}
	if updates.Title != nil {
		fsUpdates = append(fsUpdates, firestore.Update{Path: "title", Value: *updates.Title})
	}
	if updates.Description != nil {
		fsUpdates = append(fsUpdates, firestore.Update{Path: "description", Value: *updates.Description})
	}
	if updates.StartDate != nil {
		fsUpdates = append(fsUpdates, firestore.Update{Path: "startDate", Value: *updates.StartDate})
	}
	if updates.EndDate != nil {
		fsUpdates = append(fsUpdates, firestore.Update{Path: "endDate", Value: *updates.EndDate})
	}
	if updates.Days != nil {
		days := make([]model.FirestoreDayPlan, len(*updates.Days))
		for i, d := range *updates.Days {
			days[i] = model.ToFirestoreDayPlan(d)
		}
		fsUpdates = append(fsUpdates, firestore.Update{Path: "days", Value: days})
	}
	if updates.IsPublic != nil {
		fsUpdates = append(fsUpdates, firestore.Update{Path: "isPublic", Value: *updates.IsPublic})
	}
	if updates.SharedWith != nil {
		fsUpdates = append(fsUpdates, firestore.Update{Path: "sharedWith", Value: *updates.SharedWith})
	}
	return fsUpdates
}

// Get は指定されたIDの旅行計画を取得する
func (r *FirestoreTripsRepository) Get(ctx context.Context, tripID string) (*model.TripPlan, error) {
	doc, err := r.client.Collection(tripsCollection).Doc(tripID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("旅行計画の取得に失敗しました: %w", err)
	}

	var data model.FirestoreTripPlan
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	return data.ToTripPlan(doc.Ref.ID), nil
}

// ListByUser は所有者のユーザーIDで絞り込み、作成日時の降順で返す
func (r *FirestoreTripsRepository) ListByUser(ctx context.Context, userID string) ([]*model.TripPlan, error) {
	query := r.client.Collection(tripsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	return r.listByQuery(ctx, query)
}

// ListSharedWith は共有先にユーザーIDを含む計画を作成日時の降順で返す
func (r *FirestoreTripsRepository) ListSharedWith(ctx context.Context, userID string) ([]*model.TripPlan, error) {
	query := r.client.Collection(tripsCollection).
		Where("sharedWith", "array-contains", userID).
		OrderBy("createdAt", firestore.Desc)
	return r.listByQuery(ctx, query)
}

// ListPublic は公開フラグの立った計画を作成日時の降順で返す
func (r *FirestoreTripsRepository) ListPublic(ctx context.Context) ([]*model.TripPlan, error) {
	query := r.client.Collection(tripsCollection).
		Where("isPublic", "==", true).
		OrderBy("createdAt", firestore.Desc)
	return r.listByQuery(ctx, query)
}

func (r *FirestoreTripsRepository) listByQuery(ctx context.Context, query firestore.Query) ([]*model.TripPlan, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var trips []*model.TripPlan
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("旅行計画の一覧取得に失敗しました: %w", err)
		}

		var data model.FirestoreTripPlan
		if err := doc.DataTo(&data); err != nil {
			return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
		}
		trips = append(trips, data.ToTripPlan(doc.Ref.ID))
	}
	return trips, nil
}

// Delete は指定されたIDの旅行計画を削除する
func (r *FirestoreTripsRepository) Delete(ctx context.Context, tripID string) error {
	if _, err := r.client.Collection(tripsCollection).Doc(tripID).Delete(ctx); err != nil {
		return fmt.Errorf("旅行計画の削除に失敗しました: %w", err)
	}
	log.Printf("✅ Trip plan deleted: %s", tripID)
	return nil
}

// Share は共有先ユーザーIDリストを差し替える（更新日時もスタンプ）
func (r *FirestoreTripsRepository) Share(ctx context.Context, tripID string, userIDs []string) error {
	_, err := r.client.Collection(tripsCollection).Doc(tripID).Update(ctx, []firestore.Update{
		{Path: "sharedWith", Value: userIDs},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("旅行計画の共有設定に失敗しました: %w", err)
	}
	return nil
}
