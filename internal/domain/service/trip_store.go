package service

import (
	"sync"

	"github.com/google/uuid"

	"Tabiji-App/internal/domain/model"
)

// TripStore はアクティブな旅行計画の唯一のインメモリ所有者。
// すべての変更は名前付き操作を通して行い、フィールドへの直接代入は許可しない。
// 各操作は新しいスナップショットを生成するため、購読者はポインタ比較だけで
// 「変更があった」ことを検出できる。
type TripStore struct {
	mu          sync.RWMutex
	currentTrip *model.TripPlan
	selectedDay int
	subscribers []func(*model.TripPlan)
}

// NewTripStore は新しいTripStoreを生成する（選択日はDay 1）
func NewTripStore() *TripStore {
	return &TripStore{selectedDay: 1}
}

// Subscribe はスナップショット確定後に呼ばれる購読者を登録する
func (s *TripStore) Subscribe(fn func(*model.TripPlan)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// CurrentTrip は最後に確定したスナップショットを返す（未設定ならnil）
func (s *TripStore) CurrentTrip() *model.TripPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTrip
}

// SelectedDay は現在選択中の日番号を返す
func (s *TripStore) SelectedDay() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedDay
}

// CurrentDayPlan は選択中の日のDayPlanを返す。
// 旅行が未設定、または選択中の日番号が存在しない場合はnil。
func (s *TripStore) CurrentDayPlan() *model.DayPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentTrip == nil {
		return nil
	}
	return s.currentTrip.FindDayByNumber(s.selectedDay)
}

// SetCurrentTrip はアクティブな旅行計画を丸ごと差し替える（nilでクリア）
func (s *TripStore) SetCurrentTrip(trip *model.TripPlan) {
	s.mu.Lock()
	s.currentTrip = trip
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs, trip)
}

// SetSelectedDay は選択中の日番号を変更する。
// 存在しない日番号も受け付け、依存する読み取りは「選択日なし」として扱われる。
func (s *TripStore) SetSelectedDay(day int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedDay = day
}

// AddDestination は指定した日の末尾に目的地を追加する
func (s *TripStore) AddDestination(dayID string, destination model.Destination) {
	s.mutate(func(trip *model.TripPlan) {
		day := trip.FindDayByID(dayID)
		if day == nil {
			return
		}
		day.Destinations = append(day.Destinations, destination)
	})
}

// RemoveDestination は指定した日からIDで目的地を削除する（存在しなければ何もしない）
func (s *TripStore) RemoveDestination(dayID, destinationID string) {
	s.mutate(func(trip *model.TripPlan) {
		day := trip.FindDayByID(dayID)
		if day == nil {
			return
		}
		filtered := make([]model.Destination, 0, len(day.Destinations))
		for _, d := range day.Destinations {
			if d.ID != destinationID {
				filtered = append(filtered, d)
			}
		}
		day.Destinations = filtered
	})
}

// UpdateDestination は目的地のフィールドを部分更新する（存在しなければ何もしない）
func (s *TripStore) UpdateDestination(dayID, destinationID string, updates model.DestinationUpdate) {
	s.mutate(func(trip *model.TripPlan) {
		day := trip.FindDayByID(dayID)
		if day == nil {
			return
		}
		for i := range day.Destinations {
			if day.Destinations[i].ID != destinationID {
				continue
			}
			applyDestinationUpdate(&day.Destinations[i], updates)
			return
		}
	})
}

// ReorderDestinations は指定した日の目的地リストを丸ごと差し替える。
// 最適化結果や手動の並べ替えの反映に使用する。
func (s *TripStore) ReorderDestinations(dayID string, destinations []model.Destination) {
	s.mutate(func(trip *model.TripPlan) {
		day := trip.FindDayByID(dayID)
		if day == nil {
			return
		}
		day.Destinations = destinations
	})
}

// UpdateDayPlan は日程のフィールドを部分更新する（移動手段・日付・メモなど）
func (s *TripStore) UpdateDayPlan(dayID string, updates model.DayPlanUpdate) {
	s.mutate(func(trip *model.TripPlan) {
		day := trip.FindDayByID(dayID)
		if day == nil {
			return
		}
		if updates.Date != nil {
			day.Date = updates.Date
		}
		if updates.TransportMode != nil {
			day.TransportMode = *updates.TransportMode
		}
		if updates.Notes != nil {
			day.Notes = *updates.Notes
		}
	})
}

// AddDay は次の連番で新しい日を末尾に追加する。
// 目的地は空、移動手段はDRIVING、日付は開始日からのオフセットで導出する。
func (s *TripStore) AddDay() {
	s.mutate(func(trip *model.TripPlan) {
		newDayNumber := len(trip.Days) + 1
		newDay := model.DayPlan{
			ID:            "day-" + uuid.New().String(),
			Day:           newDayNumber,
			Destinations:  []model.Destination{},
			TransportMode: model.TransportDriving,
		}
		if !trip.StartDate.IsZero() {
			date := trip.StartDate.AddDate(0, 0, newDayNumber-1)
			newDay.Date = &date
		}
		trip.Days = append(trip.Days, newDay)
	})
}

// RemoveDay は指定した日を削除し、後続の日番号を連番に振り直す。
// 最後の1日は削除できない（何もしない）。選択中の日番号が新しい日数を
// 超える場合は日数まで切り詰める。
func (s *TripStore) RemoveDay(dayID string) {
	s.mu.Lock()
	if s.currentTrip == nil || len(s.currentTrip.Days) <= 1 {
		s.mu.Unlock()
		return
	}
	trip := cloneTrip(s.currentTrip)
	filtered := make([]model.DayPlan, 0, len(trip.Days))
	for _, day := range trip.Days {
		if day.ID != dayID {
			filtered = append(filtered, day)
		}
	}
	if len(filtered) == len(trip.Days) {
		s.mu.Unlock()
		return
	}
	for i := range filtered {
		filtered[i].Day = i + 1
	}
	trip.Days = filtered
	if s.selectedDay > len(filtered) {
		s.selectedDay = len(filtered)
	}
	s.currentTrip = trip
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs, trip)
}

// mutate はスナップショットを複製してから変更を適用し、確定後に購読者へ通知する
func (s *TripStore) mutate(apply func(trip *model.TripPlan)) {
	s.mu.Lock()
	if s.currentTrip == nil {
		s.mu.Unlock()
		return
	}
	trip := cloneTrip(s.currentTrip)
	apply(trip)
	s.currentTrip = trip
	subs := s.subscribers
	s.mu.Unlock()
	s.notify(subs, trip)
}

func (s *TripStore) notify(subscribers []func(*model.TripPlan), trip *model.TripPlan) {
	for _, fn := range subscribers {
		fn(trip)
	}
}

func applyDestinationUpdate(dest *model.Destination, updates model.DestinationUpdate) {
	if updates.Name != nil {
		dest.Name = *updates.Name
	}
	if updates.Address != nil {
		dest.Address = *updates.Address
	}
	if updates.PlaceID != nil {
		dest.PlaceID = *updates.PlaceID
	}
	if updates.Lat != nil {
		dest.Lat = *updates.Lat
	}
	if updates.Lng != nil {
		dest.Lng = *updates.Lng
	}
	if updates.Description != nil {
		dest.Description = *updates.Description
	}
	if updates.Photos != nil {
		dest.Photos = *updates.Photos
	}
	if updates.Rating != nil {
		dest.Rating = *updates.Rating
	}
	if updates.VisitDuration != nil {
		dest.VisitDuration = *updates.VisitDuration
	}
}

// cloneTrip は日程と目的地リストを複製した新しいスナップショットを作る
func cloneTrip(trip *model.TripPlan) *model.TripPlan {
	clone := *trip
	clone.Days = make([]model.DayPlan, len(trip.Days))
	for i, day := range trip.Days {
		dayClone := day
		dayClone.Destinations = make([]model.Destination, len(day.Destinations))
		copy(dayClone.Destinations, day.Destinations)
		if day.Date != nil {
			date := *day.Date
			dayClone.Date = &date
		}
		clone.Days[i] = dayClone
	}
	if trip.SharedWith != nil {
		clone.SharedWith = make([]string, len(trip.SharedWith))
		copy(clone.SharedWith, trip.SharedWith)
	}
	return &clone
}
