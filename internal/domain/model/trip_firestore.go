package model

import "time"

// FirestoreTripPlan Firestoreのtripsコレクションに保存するワイヤー形式。
// 日付類はストア側でTimestamp型として保持されるため、境界で必ず変換を通す。
// ドキュメントIDはフィールドとして持たない。
type FirestoreTripPlan struct {
	UserID      string             `firestore:"userId"`
	Title       string             `firestore:"title"`
	Description string             `firestore:"description"`
	StartDate   time.Time          `firestore:"startDate"`
	EndDate     time.Time          `firestore:"endDate"`
	Days        []FirestoreDayPlan `firestore:"days"`
	CreatedAt   time.Time          `firestore:"createdAt"`
	UpdatedAt   time.Time          `firestore:"updatedAt"`
	IsPublic    bool               `firestore:"isPublic"`
	SharedWith  []string           `firestore:"sharedWith"`
}

// FirestoreDayPlan 日程のワイヤー形式。日付未設定はnullとして保存する。
type FirestoreDayPlan struct {
	ID            string        `firestore:"id"`
	Day           int           `firestore:"day"`
	Date          *time.Time    `firestore:"date"`
	Destinations  []Destination `firestore:"destinations"`
	TransportMode string        `firestore:"transportMode"`
	Notes         string        `firestore:"notes"`
}

// ToFirestoreTripPlan TripPlanをFirestore保存用に変換する
func (t *TripPlan) ToFirestoreTripPlan() *FirestoreTripPlan {
	days := make([]FirestoreDayPlan, len(t.Days))
	for i, d := range t.Days {
		days[i] = ToFirestoreDayPlan(d)
	}
	return &FirestoreTripPlan{
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Days:        days,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		IsPublic:    t.IsPublic,
		SharedWith:  t.SharedWith,
	}
}

// ToFirestoreDayPlan DayPlanをFirestore保存用に変換する
func ToFirestoreDayPlan(d DayPlan) FirestoreDayPlan {
	return FirestoreDayPlan{
		ID:            d.ID,
		Day:           d.Day,
		Date:          d.Date,
		Destinations:  d.Destinations,
		TransportMode: string(d.TransportMode),
		Notes:         d.Notes,
	}
}

// ToTripPlan Firestoreから読み出したデータをドメインモデルに戻す。
// ドキュメントIDは引数で注入する。
func (f *FirestoreTripPlan) ToTripPlan(tripID string) *TripPlan {
	days := make([]DayPlan, len(f.Days))
	for i, d := range f.Days {
		days[i] = d.ToDayPlan()
	}
	return &TripPlan{
		ID:          tripID,
		UserID:      f.UserID,
		Title:       f.Title,
		Description: f.Description,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		Days:        days,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		IsPublic:    f.IsPublic,
		SharedWith:  f.SharedWith,
	}
}

// ToDayPlan FirestoreDayPlanをドメインモデルに戻す
func (f FirestoreDayPlan) ToDayPlan() DayPlan {
	return DayPlan{
		ID:            f.ID,
		Day:           f.Day,
		Date:          f.Date,
		Destinations:  f.Destinations,
		TransportMode: TransportMode(f.TransportMode),
		Notes:         f.Notes,
	}
}
