package model

import "time"

// TransportMode 1日の移動手段（目的地ごとではなく日ごとに1つ）
type TransportMode string

const (
	TransportDriving   TransportMode = "DRIVING"
	TransportTransit   TransportMode = "TRANSIT"
	TransportWalking   TransportMode = "WALKING"
	TransportBicycling TransportMode = "BICYCLING"
)

// IsValid 定義済みの移動手段かチェック
func (m TransportMode) IsValid() bool {
	switch m {
	case TransportDriving, TransportTransit, TransportWalking, TransportBicycling:
		return true
	}
	return false
}

// Destination 1日の旅程に含まれる目的地
type Destination struct {
	ID            string   `json:"id"`                      // ユニークな目的地ID
	Name          string   `json:"name"`                    // 目的地名
	Address       string   `json:"address"`                 // 住所
	PlaceID       string   `json:"place_id,omitempty"`      // 外部プロバイダのプレイスID（任意）
	Lat           float64  `json:"lat"`                     // 緯度（度）
	Lng           float64  `json:"lng"`                     // 経度（度）
	Description   string   `json:"description,omitempty"`   // 説明（任意）
	Photos        []string `json:"photos,omitempty"`        // 写真URL（任意）
	Rating        float64  `json:"rating,omitempty"`        // 評価（任意）
	VisitDuration int      `json:"visit_duration,omitempty"` // 滞在時間（分、任意）
}

// ToLatLng 目的地の座標をLatLng型に変換
func (d *Destination) ToLatLng() LatLng {
	return LatLng{Lat: d.Lat, Lng: d.Lng}
}

// DayPlan 1日分の旅程（訪問順に並んだ目的地と移動手段）
type DayPlan struct {
	ID            string        `json:"id"`              // ユニークな日程ID
	Day           int           `json:"day"`             // 日番号（1始まり・連番）
	Date          *time.Time    `json:"date,omitempty"`  // 明示的な日付（未設定なら開始日から導出）
	Destinations  []Destination `json:"destinations"`    // 訪問順の目的地リスト
	TransportMode TransportMode `json:"transport_mode"`  // その日の移動手段
	Notes         string        `json:"notes,omitempty"` // メモ（任意）
}

// TripPlan 旅行計画全体
type TripPlan struct {
	ID          string    `json:"id"`                    // 永続化されるまで空文字列
	UserID      string    `json:"user_id"`               // 所有者のユーザーID
	Title       string    `json:"title"`                 // タイトル
	Description string    `json:"description,omitempty"` // 説明（任意）
	StartDate   time.Time `json:"start_date"`            // 開始日
	EndDate     time.Time `json:"end_date"`              // 終了日
	Days        []DayPlan `json:"days"`                  // 日程リスト（順序が意味を持つ）
	CreatedAt   time.Time `json:"created_at"`            // 作成日時
	UpdatedAt   time.Time `json:"updated_at"`            // 更新日時
	IsPublic    bool      `json:"is_public"`             // 公開フラグ
	SharedWith  []string  `json:"shared_with,omitempty"` // 共有先ユーザーID（任意）
}

// FindDayByNumber 日番号でDayPlanを検索する（存在しない場合はnil）
func (t *TripPlan) FindDayByNumber(day int) *DayPlan {
	for i := range t.Days {
		if t.Days[i].Day == day {
			return &t.Days[i]
		}
	}
	return nil
}

// FindDayByID 日程IDでDayPlanを検索する（存在しない場合はnil）
func (t *TripPlan) FindDayByID(dayID string) *DayPlan {
	for i := range t.Days {
		if t.Days[i].ID == dayID {
			return &t.Days[i]
		}
	}
	return nil
}

// DestinationUpdate 目的地の部分更新（nilのフィールドは変更しない）
type DestinationUpdate struct {
	Name          *string   `json:"name,omitempty"`
	Address       *string   `json:"address,omitempty"`
	PlaceID       *string   `json:"place_id,omitempty"`
	Lat           *float64  `json:"lat,omitempty"`
	Lng           *float64  `json:"lng,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Photos        *[]string `json:"photos,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	VisitDuration *int      `json:"visit_duration,omitempty"`
}

// DayPlanUpdate 日程の部分更新（nilのフィールドは変更しない）
type DayPlanUpdate struct {
	Date          *time.Time     `json:"date,omitempty"`
	TransportMode *TransportMode `json:"transport_mode,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

// TripPlanUpdate 旅行計画の部分更新。
// ID・UserIDは変更不可のため含めない。nilのフィールドはストア側で据え置かれる。
type TripPlanUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Days        *[]DayPlan `json:"days,omitempty"`
	IsPublic    *bool      `json:"is_public,omitempty"`
	SharedWith  *[]string  `json:"shared_with,omitempty"`
}
