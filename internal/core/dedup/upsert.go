package dedup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"smart-fridge-api/internal/core/inventory"
	"smart-fridge-api/internal/pkg/common"
)

// Store 去重引擎需要的庫存操作
type Store interface {
	RecentScanProber

	// ListActive 列出所有 active 品項
	ListActive(ctx context.Context) ([]inventory.Item, error)
	// InsertActive 批次寫入新品項
	InsertActive(ctx context.Context, items []inventory.Item) error
	// Retire 把多筆品項批次標記為 consumed
	Retire(ctx context.Context, ids []string) error
}

// Engine 智慧去重寫入引擎。
// 每次掃描依距離上次入庫的時間選擇比對閾值，再把辨識結果分成
// 跳過、汰舊換新、全新三類後寫入庫存。
type Engine struct {
	store Store
	opts  Options
	now   func() time.Time
}

// NewEngine 建立去重引擎
func NewEngine(store Store, opts Options) *Engine {
	return &Engine{
		store: store,
		opts:  opts,
		now:   time.Now,
	}
}

// RetiredItem 汰舊換新的紀錄
type RetiredItem struct {
	OldID   string  `json:"old_id"`
	OldName string  `json:"old_name"`
	NewName string  `json:"new_name"`
	Score   float64 `json:"score"`
}

// SkippedDuplicate 當日重複、完全不寫入的紀錄
type SkippedDuplicate struct {
	Name        string  `json:"name"`
	MatchedName string  `json:"matched_name"`
	Score       float64 `json:"score"`
}

// FailedInsert 單筆寫入失敗的紀錄
type FailedInsert struct {
	Item  inventory.Item `json:"item"`
	Error string         `json:"error"`
}

// Result 一次掃描入庫的完整結果
type Result struct {
	Mode              ScanMode           `json:"mode"`
	Inserted          []inventory.Item   `json:"inserted"`
	Retired           []RetiredItem      `json:"retired"`
	SkippedDuplicates []SkippedDuplicate `json:"skipped_duplicates"`
	SkippedInvalid    []ScannedItem      `json:"skipped_invalid"`
	Failed            []FailedInsert     `json:"failed"`
	Summary           string             `json:"summary"`
}

// Upsert 把一批辨識結果寫入庫存。
// 比對只看進入函式當下的庫存快照，同一批內的品項彼此不互相比對，
// 同一張收據上本來就可能有兩筆一樣的商品。
//
// 分類規則：
//   - 沒有達標的相似品項：全新品項，直接寫入
//   - 相似品項購買日是今天：視為重複掃描，完全不動資料庫
//   - 相似品項購買日較舊：舊品項標記 consumed，新品項寫入
//   - 相似品項購買日在未來（資料異常）：不汰舊，新品項直接寫入
//
// 寫入分兩批執行：先一次批次標記所有待汰舊品項，再一次批次寫入新品項。
func (e *Engine) Upsert(ctx context.Context, scanned []ScannedItem) (*Result, error) {
	now := e.now()
	today := now.Format(dateLayout)

	mode := DetectScanMode(ctx, e.store, e.opts, now)

	existing, err := e.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	index := buildNormalizedIndex(existing)

	rows, skippedInvalid := BuildRows(scanned, now)

	result := &Result{
		Mode:           mode,
		SkippedInvalid: skippedInvalid,
	}

	var toInsert []inventory.Item
	var toRetire []retirement
	for _, row := range rows {
		match, found := FindBestMatch(row.Name, index, mode.Threshold)
		if !found {
			toInsert = append(toInsert, row)
			continue
		}

		// ISO 日期字串可直接按字典序比較
		switch {
		case match.Item.PurchaseDate == today:
			result.SkippedDuplicates = append(result.SkippedDuplicates, SkippedDuplicate{
				Name:        row.Name,
				MatchedName: match.Item.Name,
				Score:       match.Score,
			})
		case match.Item.PurchaseDate < today:
			// 舊掃描留下的同類品項，汰舊換新
			toRetire = append(toRetire, retirement{row: row, match: match})
		default:
			// 購買日在未來的品項是資料異常，不汰舊
			toInsert = append(toInsert, row)
		}
	}

	toInsert = append(toInsert, e.retireBatch(ctx, toRetire, result)...)
	result.Inserted = e.insertBatch(ctx, toInsert, result)
	result.Summary = fmt.Sprintf("%d new items saved, %d marked consumed, %d skipped as duplicate",
		len(result.Inserted), len(result.Retired), len(result.SkippedDuplicates))

	common.LogInfo("掃描入庫完成",
		zap.Float64("threshold", mode.Threshold),
		zap.Bool("aggressive", mode.Aggressive),
		zap.Int("inserted", len(result.Inserted)),
		zap.Int("retired", len(result.Retired)),
		zap.Int("skipped_duplicates", len(result.SkippedDuplicates)),
		zap.Int("skipped_invalid", len(result.SkippedInvalid)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// retirement 等待執行的汰舊換新，舊品項標記成功後新品項才會寫入
type retirement struct {
	row   inventory.Item
	match Match
}

func (p retirement) retired() RetiredItem {
	return RetiredItem{
		OldID:   p.match.Item.ID,
		OldName: p.match.Item.Name,
		NewName: p.row.Name,
		Score:   p.match.Score,
	}
}

// retireBatch 把所有待汰舊品項一次批次標記 consumed，失敗才逐筆重試。
// 回傳舊品項標記成功、可以繼續寫入的新品項。
func (e *Engine) retireBatch(ctx context.Context, pending []retirement, result *Result) []inventory.Item {
	if len(pending) == 0 {
		return nil
	}

	ids := make([]string, 0, len(pending))
	for _, p := range pending {
		ids = append(ids, p.match.Item.ID)
	}

	err := e.store.Retire(ctx, ids)
	if err == nil {
		rows := make([]inventory.Item, 0, len(pending))
		for _, p := range pending {
			result.Retired = append(result.Retired, p.retired())
			rows = append(rows, p.row)
		}
		return rows
	}
	common.LogWarn("批次標記失敗，改為逐筆標記", zap.Int("count", len(pending)), zap.Error(err))

	rows := make([]inventory.Item, 0, len(pending))
	for _, p := range pending {
		if err := e.store.Retire(ctx, []string{p.match.Item.ID}); err != nil {
			common.LogError("標記舊品項失敗",
				zap.String("item_id", p.match.Item.ID),
				zap.String("item_name", p.match.Item.Name),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, FailedInsert{Item: p.row, Error: err.Error()})
			continue
		}
		result.Retired = append(result.Retired, p.retired())
		rows = append(rows, p.row)
	}
	return rows
}

// insertBatch 先整批寫入，失敗才逐筆重試，把失敗侷限在單筆
func (e *Engine) insertBatch(ctx context.Context, rows []inventory.Item, result *Result) []inventory.Item {
	if len(rows) == 0 {
		return nil
	}

	err := e.store.InsertActive(ctx, rows)
	if err == nil {
		return rows
	}
	common.LogWarn("批次寫入失敗，改為逐筆寫入", zap.Int("count", len(rows)), zap.Error(err))

	inserted := make([]inventory.Item, 0, len(rows))
	for _, row := range rows {
		if err := e.store.InsertActive(ctx, []inventory.Item{row}); err != nil {
			result.Failed = append(result.Failed, FailedInsert{Item: row, Error: err.Error()})
			continue
		}
		inserted = append(inserted, row)
	}
	return inserted
}
