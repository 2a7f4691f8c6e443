package service

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	t.Run("連続したトリガーは1回の実行にまとまる", func(t *testing.T) {
		var fired atomic.Int32
		debouncer := NewDebouncer(50*time.Millisecond, func() {
			fired.Add(1)
		})

		debouncer.Trigger()
		debouncer.Trigger()
		debouncer.Trigger()

		time.Sleep(200 * time.Millisecond)
		if got := fired.Load(); got != 1 {
			t.Errorf("実行回数が不正です: got=%d want=1", got)
		}
	})

	t.Run("静止期間が経過するまで実行されない", func(t *testing.T) {
		var fired atomic.Int32
		debouncer := NewDebouncer(100*time.Millisecond, func() {
			fired.Add(1)
		})

		debouncer.Trigger()
		time.Sleep(30 * time.Millisecond)
		if got := fired.Load(); got != 0 {
			t.Errorf("静止期間前に実行されました: %d回", got)
		}

		time.Sleep(200 * time.Millisecond)
		if got := fired.Load(); got != 1 {
			t.Errorf("静止期間後に実行されていません: %d回", got)
		}
	})

	t.Run("トリガーのたびに窓が最初からやり直される", func(t *testing.T) {
		var fired atomic.Int32
		debouncer := NewDebouncer(80*time.Millisecond, func() {
			fired.Add(1)
		})

		// 窓の半分ごとに再トリガーしている間は実行されない
		for i := 0; i < 4; i++ {
			debouncer.Trigger()
			time.Sleep(40 * time.Millisecond)
		}
		if got := fired.Load(); got != 0 {
			t.Errorf("再トリガー中に実行されました: %d回", got)
		}

		time.Sleep(200 * time.Millisecond)
		if got := fired.Load(); got != 1 {
			t.Errorf("最終的な実行回数が不正です: got=%d want=1", got)
		}
	})

	t.Run("Stopは作動中のタイマーを取り消す", func(t *testing.T) {
		var fired atomic.Int32
		debouncer := NewDebouncer(50*time.Millisecond, func() {
			fired.Add(1)
		})

		debouncer.Trigger()
		debouncer.Stop()

		time.Sleep(150 * time.Millisecond)
		if got := fired.Load(); got != 0 {
			t.Errorf("Stop後に実行されました: %d回", got)
		}
		if debouncer.State() != DebounceIdle {
			t.Errorf("Stop後の状態が不正です: %d", debouncer.State())
		}
	})

	t.Run("発火直前のタイマーとStopが競合してもコールバックは実行されない", func(t *testing.T) {
		var fired atomic.Int32
		debouncer := NewDebouncer(time.Hour, func() {
			fired.Add(1)
		})

		debouncer.Trigger()
		debouncer.Stop()
		// Stopより先にタイマーが発火済みだった状況を再現する
		debouncer.fire(1)

		if got := fired.Load(); got != 0 {
			t.Errorf("Stop後に古い世代のコールバックが実行されました: %d回", got)
		}
	})

	t.Run("状態遷移", func(t *testing.T) {
		done := make(chan struct{})
		debouncer := NewDebouncer(30*time.Millisecond, func() {
			close(done)
		})

		if debouncer.State() != DebounceIdle {
			t.Errorf("初期状態が不正です: %d", debouncer.State())
		}

		debouncer.Trigger()
		if debouncer.State() != DebouncePending {
			t.Errorf("トリガー後の状態が不正です: %d", debouncer.State())
		}

		<-done
		time.Sleep(50 * time.Millisecond)
		if debouncer.State() != DebounceIdle {
			t.Errorf("実行完了後の状態が不正です: %d", debouncer.State())
		}
	})
}
