package fridge

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"smart-fridge-api/internal/core/ai"
	"smart-fridge-api/internal/core/ai/openrouter"
	"smart-fridge-api/internal/core/dedup"
	"smart-fridge-api/internal/core/image"
	"smart-fridge-api/internal/core/inventory"
	"smart-fridge-api/internal/infrastructure/config"
	"smart-fridge-api/internal/pkg/common"
)

// 收據分析 prompt。模型只負責辨識、正規化、分類與保存天數估計，
// 所有日期運算都在本服務內完成，不讓模型碰日期。
const scanPrompt = `You are the vision engine for 'Smart-Fridge'. Analyze the attached grocery receipt or fridge photo.

CRITICAL INSTRUCTIONS:

1. AGGREGATE: If the same item appears more than once, combine into ONE object and SUM the quantities.

2. MASTER CATALOG MAPPING (normalize item names):
   Strip brand names, weights, and percentages and return a clean generic Hebrew name.
   Examples:
     "קרם גבינה 500 ג 5%"  ->  "קרם גבינה"
     "מלבפון ישראל"         ->  "מלפפון"
     "חלב טרה 3% 1 ליטר"   ->  "חלב"

3. CATEGORIZE: Assign exactly ONE category from this list:
   "מוצרי חלב וביצים", "בשר ודגים", "פירות וירקות",
   "מזווה", "נשנושים ומתוקים", "משקאות", "אחר"

   Deposits ("פיקדון"), bags ("שקית"), and packaging fees MUST be "אחר".

4. EXPIRY ESTIMATION (storage-aware, in days):
   - Fresh meat / poultry / fish: assume the user freezes it, 90-120 days
   - Dry pantry goods (pasta, sugar, canned goods): 365 days
   - Fresh dairy (milk, cottage, yogurt): 5-14 days
   - Fresh vegetables / fruits: 5-10 days

Return ONLY a valid JSON object with no markdown and no extra text:
{
    "items": [
        {
            "item_name": "string (normalized Hebrew name)",
            "category": "string (from the list above)",
            "quantity": number,
            "estimated_expiry_days": number
        }
    ]
}`

// ScanService 收據掃描入庫服務
type ScanService struct {
	config   *config.Config
	aiSvc    *ai.Service
	imageSvc *image.Service
	engine   *dedup.Engine
	store    *inventory.Store
}

// NewScanService 創建掃描服務
func NewScanService(cfg *config.Config, aiSvc *ai.Service, store *inventory.Store) *ScanService {
	engine := dedup.NewEngine(store, dedup.Options{
		StandardThreshold:   cfg.Dedup.StandardThreshold,
		AggressiveThreshold: cfg.Dedup.AggressiveThreshold,
		RescanWindow:        cfg.Dedup.RescanWindow,
	})

	return &ScanService{
		config:   cfg,
		aiSvc:    aiSvc,
		imageSvc: image.NewService(cfg.Image.MaxSizeBytes),
		engine:   engine,
		store:    store,
	}
}

// Scan 分析收據圖片並把辨識出的品項寫入庫存
func (s *ScanService) Scan(ctx context.Context, imageData, requestID string) (*dedup.Result, error) {
	processed, err := s.imageSvc.ProcessImage(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	messages := []openrouter.Message{
		openrouter.VisionMessage(scanPrompt, processed),
	}
	content, err := s.aiSvc.Chat(ctx, messages, requestID)
	if err != nil {
		return nil, err
	}

	items, err := parseScanItems(content)
	if err != nil {
		common.LogError("收據分析結果解析失敗",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, err
	}

	common.LogInfo("收據分析完成",
		zap.String("request_id", requestID),
		zap.Int("item_count", len(items)),
	)

	return s.engine.Upsert(ctx, items)
}

// ListItems 列出 active 的食材品項，效期近的排前面。
// 押瓶費與包材這類非食材不回傳給前端。
func (s *ScanService) ListItems(ctx context.Context) ([]common.FridgeItemView, error) {
	items, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]common.FridgeItemView, 0, len(items))
	for _, item := range items {
		if !inventory.IsFoodItem(item.Name, item.Category) {
			continue
		}
		views = append(views, common.FridgeItemView{
			ID:         item.ID,
			ItemName:   item.Name,
			Category:   item.Category,
			Quantity:   item.Quantity,
			ExpiryDate: item.ExpiryDate,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].ExpiryDate < views[j].ExpiryDate
	})
	return views, nil
}

// parseScanItems 解析模型回傳的品項清單
func parseScanItems(content string) ([]dedup.ScannedItem, error) {
	jsonStr, err := common.ExtractJSONObject(content)
	if err != nil {
		return nil, fmt.Errorf("invalid scan response: %w", err)
	}

	var payload struct {
		Items []dedup.ScannedItem `json:"items"`
	}
	if err := common.ParseJSON(jsonStr, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse scan response: %w", err)
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("no items recognized in image")
	}
	return payload.Items, nil
}
