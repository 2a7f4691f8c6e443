package model

// Place 場所検索の1件分の結果
type Place struct {
	Name     string   `json:"name"`               // 場所名（HTMLタグ除去済み）
	Address  string   `json:"address"`            // 住所（道路名住所を優先）
	Category string   `json:"category,omitempty"` // カテゴリ（任意）
	PlaceID  string   `json:"place_id,omitempty"` // プロバイダのプレイスID（任意）
	Lat      float64  `json:"lat,omitempty"`      // 緯度（取得できた場合）
	Lng      float64  `json:"lng,omitempty"`      // 経度（取得できた場合）
	Photos   []string `json:"photos,omitempty"`   // 写真URL（任意）
	Rating   float64  `json:"rating,omitempty"`   // 評価（任意）
}

// GeocodeResult 住所→座標変換の結果
type GeocodeResult struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
