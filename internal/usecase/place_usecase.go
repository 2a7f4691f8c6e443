package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"Tabiji-App/internal/domain/model"
)

// ErrSuperseded は完了前により新しいリクエストが発行されたことを表す。
// 古いレスポンスが新しいレスポンスを上書きしないよう、呼び出し側は結果を破棄する。
var ErrSuperseded = errors.New("より新しいリクエストに置き換えられました")

// ErrQueryRequired は必須の検索キーワードが欠けている場合のエラー
var ErrQueryRequired = errors.New("検索キーワードが指定されていません")

// ErrAddressRequired は必須の住所が欠けている場合のエラー
var ErrAddressRequired = errors.New("住所が指定されていません")

// ErrGeocodeFailed は座標がどの手段でも取得できなかった場合のエラー
var ErrGeocodeFailed = errors.New("座標の変換に失敗しました")

// PlaceProvider は場所検索・ジオコーディングの外部プロバイダの抽象
type PlaceProvider interface {
	SearchPlaces(ctx context.Context, query string) ([]model.Place, error)
	Geocode(ctx context.Context, address string) (*model.GeocodeResult, error)
}

// PlaceUseCase は場所検索とジオコーディングを提供する。
// レスポンスはTTLキャッシュされ、連続入力による検索では各呼び出しに
// シーケンストークンを振り、最新の呼び出しの結果だけが有効になる
// （遅い古いレスポンスが後から届いても破棄される）。
// トークンはキーワード・住所ごとに独立しており、無関係なリクエストの
// 完了が他のリクエストを破棄することはない。
type PlaceUseCase struct {
	provider PlaceProvider
	cache    *gocache.Cache

	mu   sync.Mutex
	seqs map[string]int64
}

// NewPlaceUseCase は新しいPlaceUseCaseを生成する
func NewPlaceUseCase(provider PlaceProvider) *PlaceUseCase {
	return &PlaceUseCase{
		provider: provider,
		cache:    gocache.New(5*time.Minute, 10*time.Minute),
		seqs:     map[string]int64{},
	}
}

// beginRequest はキーごとのシーケンストークンを進めて発行する
func (uc *PlaceUseCase) beginRequest(key string) int64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.seqs[key]++
	return uc.seqs[key]
}

// isLatest は発行済みトークンがそのキーの最新かどうかを返す
func (uc *PlaceUseCase) isLatest(key string, seq int64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.seqs[key] == seq
}

// Search は場所を検索する。キーワードは必須。
// プロバイダの失敗は致命的エラーとして扱わず、空の結果に解決する。
// より新しい検索が発行されていた場合はErrSupersededを返す。
func (uc *PlaceUseCase) Search(ctx context.Context, query string) ([]model.Place, error) {
	if query == "" {
		return nil, ErrQueryRequired
	}

	key := "search:" + query
	if cached, ok := uc.cache.Get(key); ok {
		return cached.([]model.Place), nil
	}

	seq := uc.beginRequest(key)
	places, err := uc.provider.SearchPlaces(ctx, query)
	if !uc.isLatest(key, seq) {
		return nil, ErrSuperseded
	}
	if err != nil {
		log.Printf("⚠️  場所検索に失敗したため空の結果を返します: %v", err)
		return []model.Place{}, nil
	}

	uc.cache.Set(key, places, gocache.DefaultExpiration)
	return places, nil
}

// Geocode は住所を座標に変換する。住所は必須。
// クラウドAPIが失敗した場合はローカル検索結果の座標にフォールバックし、
// それでも取得できなければErrGeocodeFailedを返す。
// より新しい変換が発行されていた場合はErrSupersededを返す。
func (uc *PlaceUseCase) Geocode(ctx context.Context, address string) (*model.GeocodeResult, error) {
	if address == "" {
		return nil, ErrAddressRequired
	}

	key := "geocode:" + address
	if cached, ok := uc.cache.Get(key); ok {
		result := cached.(model.GeocodeResult)
		return &result, nil
	}

	seq := uc.beginRequest(key)
	result, err := uc.provider.Geocode(ctx, address)
	if !uc.isLatest(key, seq) {
		return nil, ErrSuperseded
	}
	if err != nil {
		log.Printf("⚠️  ジオコーディングに失敗したため検索結果の座標を使用します: %v", err)
		result = uc.geocodeViaSearch(ctx, address)
	}
	if result == nil {
		return nil, ErrGeocodeFailed
	}

	uc.cache.Set(key, *result, gocache.DefaultExpiration)
	return result, nil
}

// geocodeViaSearch はローカル検索結果の座標からジオコーディングを代替する
func (uc *PlaceUseCase) geocodeViaSearch(ctx context.Context, address string) *model.GeocodeResult {
	places, err := uc.provider.SearchPlaces(ctx, address)
	if err != nil || len(places) == 0 {
		return nil
	}
	first := places[0]
	if first.Lat == 0 && first.Lng == 0 {
		return nil
	}
	return &model.GeocodeResult{Lat: first.Lat, Lng: first.Lng}
}
