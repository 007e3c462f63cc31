package dedup

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProber struct {
	latest    time.Time
	hasLatest bool
	err       error
}

func (f *fakeProber) LatestActiveCreatedAt(ctx context.Context) (time.Time, bool, error) {
	return f.latest, f.hasLatest, f.err
}

func testOptions() Options {
	return Options{
		StandardThreshold:   0.80,
		AggressiveThreshold: 0.55,
		RescanWindow:        15 * time.Minute,
	}
}

func TestDetectScanModeRecentScan(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	prober := &fakeProber{latest: now.Add(-3 * time.Minute), hasLatest: true}

	mode := DetectScanMode(context.Background(), prober, testOptions(), now)
	if !mode.Aggressive {
		t.Fatalf("scan 3 minutes after last insert should be aggressive")
	}
	if mode.Threshold != 0.55 {
		t.Fatalf("aggressive threshold = %f, want 0.55", mode.Threshold)
	}
	if mode.FallbackReason != "" {
		t.Fatalf("unexpected fallback reason: %q", mode.FallbackReason)
	}
}

func TestDetectScanModeOldScan(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	prober := &fakeProber{latest: now.Add(-20 * time.Minute), hasLatest: true}

	mode := DetectScanMode(context.Background(), prober, testOptions(), now)
	if mode.Aggressive {
		t.Fatalf("scan 20 minutes after last insert should use standard mode")
	}
	if mode.Threshold != 0.80 {
		t.Fatalf("standard threshold = %f, want 0.80", mode.Threshold)
	}
}

func TestDetectScanModeWindowBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	prober := &fakeProber{latest: now.Add(-15 * time.Minute), hasLatest: true}

	// 正好在時間窗邊界上仍算重掃
	mode := DetectScanMode(context.Background(), prober, testOptions(), now)
	if !mode.Aggressive {
		t.Fatalf("scan exactly at window boundary should be aggressive")
	}
}

func TestDetectScanModeEmptyStore(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	prober := &fakeProber{hasLatest: false}

	mode := DetectScanMode(context.Background(), prober, testOptions(), now)
	if mode.Aggressive {
		t.Fatalf("empty store should use standard mode")
	}
	if mode.FallbackReason != "" {
		t.Fatalf("empty store is not a fallback, got reason %q", mode.FallbackReason)
	}
}

func TestDetectScanModeProbeFailure(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	prober := &fakeProber{err: errors.New("connection refused")}

	// 查詢失敗不中斷掃描，退回標準模式並記下原因
	mode := DetectScanMode(context.Background(), prober, testOptions(), now)
	if mode.Aggressive {
		t.Fatalf("probe failure should fall back to standard mode")
	}
	if mode.Threshold != 0.80 {
		t.Fatalf("fallback threshold = %f, want 0.80", mode.Threshold)
	}
	if mode.FallbackReason == "" {
		t.Fatalf("fallback reason should record the probe error")
	}
}
