package repository

import (
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"Tabiji-App/internal/domain/model"
)

func updatePaths(updates []firestore.Update) map[string]interface{} {
	paths := make(map[string]interface{}, len(updates))
	for _, u := range updates {
		paths[u.Path] = u.Value
	}
	return paths
}

func TestBuildFirestoreUpdates(t *testing.T) {
	t.Run("nilの更新でも更新日時はスタンプされる", func(t *testing.T) {
		updates := buildFirestoreUpdates(nil)
		if len(updates) != 1 || updates[0].Path != "updatedAt" {
			t.Errorf("更新パスが不正です: %+v", updates)
		}
	})

	t.Run("nilのフィールドはパスに含めない", func(t *testing.T) {
		title := "新しいタイトル"
		updates := buildFirestoreUpdates(&model.TripPlanUpdate{Title: &title})

		paths := updatePaths(updates)
		if len(paths) != 2 {
			t.Fatalf("更新パス数が不正です: %+v", paths)
		}
		if paths["title"] != title {
			t.Errorf("タイトルが不正です: %v", paths["title"])
		}
		if _, ok := paths["startDate"]; ok {
			t.Error("指定していないstartDateが更新パスに含まれています")
		}
		if _, ok := paths["isPublic"]; ok {
			t.Error("指定していないisPublicが更新パスに含まれています")
		}
	})

	t.Run("日程はワイヤー形式に変換される", func(t *testing.T) {
		date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		days := []model.DayPlan{
			{
				ID:            "day-1",
				Day:           1,
				Date:          &date,
				TransportMode: model.TransportWalking,
				Destinations:  []model.Destination{{ID: "dest-1", Name: "清水寺"}},
			},
		}
		updates := buildFirestoreUpdates(&model.TripPlanUpdate{Days: &days})

		paths := updatePaths(updates)
		converted, ok := paths["days"].([]model.FirestoreDayPlan)
		if !ok {
			t.Fatalf("daysがワイヤー形式に変換されていません: %T", paths["days"])
		}
		if len(converted) != 1 || converted[0].ID != "day-1" {
			t.Errorf("変換結果が不正です: %+v", converted)
		}
		if converted[0].TransportMode != string(model.TransportWalking) {
			t.Errorf("移動手段の変換が不正です: %s", converted[0].TransportMode)
		}
	})

	t.Run("ID・所有者は更新対象に含められない", func(t *testing.T) {
		isPublic := true
		shared := []string{"user-2"}
		updates := buildFirestoreUpdates(&model.TripPlanUpdate{
			IsPublic:   &isPublic,
			SharedWith: &shared,
		})

		paths := updatePaths(updates)
		for path := range paths {
			if path == "userId" || path == "id" {
				t.Errorf("保護されたフィールドが更新パスに含まれています: %s", path)
			}
		}
		if paths["isPublic"] != true {
			t.Errorf("isPublicが不正です: %v", paths["isPublic"])
		}
	})
}
