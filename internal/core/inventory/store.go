package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"smart-fridge-api/internal/infrastructure/config"
)

// 資料表名稱
const (
	tableFridgeItems  = "fridge_items"
	tableShoppingList = "smart_shopping_list"
)

// Store 透過 Supabase REST API 操作庫存資料庫
type Store struct {
	config *config.Config
	client *resty.Client
}

// NewStore 創建庫存 Store
func NewStore(cfg *config.Config) *Store {
	client := resty.New().
		SetBaseURL(cfg.Supabase.URL+"/rest/v1").
		SetTimeout(cfg.Supabase.Timeout).
		SetHeader("apikey", cfg.Supabase.Key).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Supabase.Key)).
		SetHeader("Content-Type", "application/json")

	return &Store{
		config: cfg,
		client: client,
	}
}

// ListActive 列出所有 active 品項，新的在前
func (s *Store) ListActive(ctx context.Context) ([]Item, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("status", "eq."+StatusActive).
		SetQueryParam("order", "created_at.desc").
		Get("/" + tableFridgeItems)
	if err != nil {
		return nil, fmt.Errorf("failed to list active items: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("supabase returned error: %s", resp.String())
	}

	var items []Item
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}
	return items, nil
}

// LatestActiveCreatedAt 回傳最近一筆 active 品項的建立時間。
// 第二個回傳值為 false 表示庫存是空的。
func (s *Store) LatestActiveCreatedAt(ctx context.Context) (time.Time, bool, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "created_at").
		SetQueryParam("status", "eq."+StatusActive).
		SetQueryParam("order", "created_at.desc").
		SetQueryParam("limit", "1").
		Get("/" + tableFridgeItems)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query latest item: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return time.Time{}, false, fmt.Errorf("supabase returned error: %s", resp.String())
	}

	var rows []struct {
		CreatedAt time.Time `json:"created_at"`
	}
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse latest item: %w", err)
	}
	if len(rows) == 0 {
		return time.Time{}, false, nil
	}
	return rows[0].CreatedAt, true, nil
}

// insertRow 寫入用的資料列。
// id 與 created_at 由資料庫指派，payload 帶了值會覆蓋資料庫端的預設，
// created_at 一旦被客戶端覆蓋，重掃時間窗的偵測就永遠不會命中。
type insertRow struct {
	Name         string  `json:"item_name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	PurchaseDate string  `json:"purchase_date"`
	ExpiryDate   string  `json:"expiry_date"`
	Status       string  `json:"status"`
}

func newInsertRows(items []Item) []insertRow {
	rows := make([]insertRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, insertRow{
			Name:         item.Name,
			Category:     item.Category,
			Quantity:     item.Quantity,
			PurchaseDate: item.PurchaseDate,
			ExpiryDate:   item.ExpiryDate,
			Status:       item.Status,
		})
	}
	return rows
}

// InsertActive 批次寫入新品項
func (s *Store) InsertActive(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(newInsertRows(items)).
		Post("/" + tableFridgeItems)
	if err != nil {
		return fmt.Errorf("failed to insert items: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("supabase returned error: %s", resp.String())
	}
	return nil
}

// Retire 把多筆品項一次標記為 consumed（汰舊換新時使用）
func (s *Store) Retire(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("id", "in.("+strings.Join(ids, ",")+")").
		SetBody(map[string]interface{}{"status": StatusConsumed}).
		Patch("/" + tableFridgeItems)
	if err != nil {
		return fmt.Errorf("failed to retire items: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("supabase returned error: %s", resp.String())
	}
	return nil
}

// MarkConsumed 把指定品項標記為 consumed 並把數量歸零（做菜用完時使用）
func (s *Store) MarkConsumed(ctx context.Context, id string) error {
	return s.patchItem(ctx, id, map[string]interface{}{
		"status":   StatusConsumed,
		"quantity": 0,
	})
}

func (s *Store) patchItem(ctx context.Context, id string, patch map[string]interface{}) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id).
		SetBody(patch).
		Patch("/" + tableFridgeItems)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("supabase returned error: %s", resp.String())
	}
	return nil
}

// UpdateQuantity 更新品項剩餘數量
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity float64) error {
	return s.patchItem(ctx, id, map[string]interface{}{"quantity": quantity})
}

// AddToShoppingList 把用完的品項加入購物清單
func (s *Store) AddToShoppingList(ctx context.Context, itemName string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(map[string]string{
			"item_name": itemName,
			"status":    "pending",
		}).
		Post("/" + tableShoppingList)
	if err != nil {
		return fmt.Errorf("failed to add to shopping list: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("supabase returned error: %s", resp.String())
	}
	return nil
}
