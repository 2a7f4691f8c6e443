package service

import (
	"sync"
	"time"
)

// DebounceState はデバウンサーの状態
type DebounceState int

const (
	DebounceIdle    DebounceState = iota // 待機中
	DebouncePending                      // タイマー作動中
	DebounceFiring                       // コールバック実行中
)

// Debouncer は末尾デバウンス付きのタイマータスク。
// Triggerのたびにタイマーを取り消して再スタートするため、静止期間が
// 経過するまでコールバックは1回も実行されない。地図同期（500ms）と
// 自動保存（2秒）で使用する。
type Debouncer struct {
	mu       sync.Mutex
	window   time.Duration
	timer    *time.Timer
	state    DebounceState
	gen      uint64
	callback func()
}

// NewDebouncer は新しいDebouncerを生成する
func NewDebouncer(window time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		window:   window,
		state:    DebounceIdle,
		callback: callback,
	}
}

// Trigger はデバウンス窓を（再）スタートする。
// 作動中のタイマーがあれば取り消して最初からやり直す。
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.state = DebouncePending
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// Stop は作動中のタイマーを取り消す（アンマウント時に呼ぶ）。
// 発火直前のタイマーと競合しても、世代を進めることでコールバックは実行されない。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.state = DebounceIdle
}

// State は現在の状態を返す
func (d *Debouncer) State() DebounceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// 発火後にStopや再トリガーで世代が進んでいたら何もしない
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.state = DebounceFiring
	d.mu.Unlock()

	d.callback()

	d.mu.Lock()
	// 実行中に再トリガーされた場合はpendingのまま維持する
	if d.state == DebounceFiring {
		d.state = DebounceIdle
	}
	d.mu.Unlock()
}
