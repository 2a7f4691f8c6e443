package maps

import (
	"fmt"

	"Tabiji-App/internal/domain/service"
)

// ProviderConfig は経路検索プロバイダの選択設定。
// どちらを使うかはデプロイ時の設定であり、呼び出し側のロジックでは分岐しない。
type ProviderConfig struct {
	Provider          string // "naver" または "google"
	NaverClientID     string
	NaverClientSecret string
	GoogleAPIKey      string
}

// NewDirectionsProvider は設定に応じた経路検索プロバイダを生成する。
// 未指定の場合は利用可能な認証情報から自動選択する（Naver優先）。
func NewDirectionsProvider(cfg ProviderConfig) (service.DirectionsProvider, error) {
	switch cfg.Provider {
	case "naver":
		if cfg.NaverClientID == "" || cfg.NaverClientSecret == "" {
			return nil, fmt.Errorf("naverプロバイダにはNAVER_CLIENT_IDとNAVER_CLIENT_SECRETが必要です")
		}
		return NewNaverClient(cfg.NaverClientID, cfg.NaverClientSecret), nil
	case "google":
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("googleプロバイダにはGOOGLE_MAPS_API_KEYが必要です")
		}
		return NewGoogleDirectionsProvider(cfg.GoogleAPIKey), nil
	case "":
		if cfg.NaverClientID != "" && cfg.NaverClientSecret != "" {
			return NewNaverClient(cfg.NaverClientID, cfg.NaverClientSecret), nil
		}
		if cfg.GoogleAPIKey != "" {
			return NewGoogleDirectionsProvider(cfg.GoogleAPIKey), nil
		}
		return nil, fmt.Errorf("経路検索プロバイダの認証情報が設定されていません")
	default:
		return nil, fmt.Errorf("未知のプロバイダです: %s", cfg.Provider)
	}
}
