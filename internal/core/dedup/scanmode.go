package dedup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"smart-fridge-api/internal/pkg/common"
)

// Options 去重引擎參數
type Options struct {
	StandardThreshold   float64
	AggressiveThreshold float64
	RescanWindow        time.Duration
}

// ScanMode 本次掃描採用的比對模式
type ScanMode struct {
	Threshold  float64 // 本次比對使用的相似度閾值
	Aggressive bool    // true 表示重掃模式，使用較低閾值
	// FallbackReason 非空時表示無法判斷上次掃描時間，已退回標準模式
	FallbackReason string
}

// RecentScanProber 查詢最近一次入庫時間
type RecentScanProber interface {
	// LatestActiveCreatedAt 回傳最近一筆 active 品項的建立時間。
	// 第二個回傳值為 false 表示庫存是空的。
	LatestActiveCreatedAt(ctx context.Context) (time.Time, bool, error)
}

// DetectScanMode 判斷本次掃描該用哪種比對模式。
// 距離上次入庫在 RescanWindow 之內視為重掃同一張收據，改用較低的
// 積極閾值把 OCR 差異也攔下來；超過時間窗或查不到紀錄就用標準閾值。
// 查詢失敗不會中斷掃描，記 log 後退回標準模式。
func DetectScanMode(ctx context.Context, prober RecentScanProber, opts Options, now time.Time) ScanMode {
	standard := ScanMode{Threshold: opts.StandardThreshold}

	latest, ok, err := prober.LatestActiveCreatedAt(ctx)
	if err != nil {
		common.LogWarn("掃描模式偵測失敗，退回標準模式", zap.Error(err))
		standard.FallbackReason = err.Error()
		return standard
	}
	if !ok {
		return standard
	}

	elapsed := now.Sub(latest)
	if elapsed >= 0 && elapsed <= opts.RescanWindow {
		return ScanMode{Threshold: opts.AggressiveThreshold, Aggressive: true}
	}
	return standard
}
