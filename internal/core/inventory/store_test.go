package inventory

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestInsertPayloadOmitsServerFields(t *testing.T) {
	items := []Item{
		NewItem("תפוחים", CategoryProduce, 3, "2026-03-10", "2026-03-20"),
	}

	payload, err := json.Marshal(newInsertRows(items))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	body := string(payload)
	// id 與 created_at 由資料庫指派。payload 帶 created_at 會蓋掉資料庫端的
	// 時間戳，重掃時間窗就再也偵測不到最近一次入庫。
	if strings.Contains(body, "created_at") {
		t.Fatalf("insert payload must not carry created_at: %s", body)
	}
	if strings.Contains(body, `"id"`) {
		t.Fatalf("insert payload must not carry id: %s", body)
	}
	if !strings.Contains(body, `"item_name":"תפוחים"`) {
		t.Fatalf("insert payload missing item name: %s", body)
	}
	if !strings.Contains(body, `"status":"active"`) {
		t.Fatalf("insert payload missing active status: %s", body)
	}
}
