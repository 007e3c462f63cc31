package chef

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"smart-fridge-api/internal/core/ai"
	"smart-fridge-api/internal/core/ai/openrouter"
	"smart-fridge-api/internal/core/inventory"
	"smart-fridge-api/internal/infrastructure/config"
	"smart-fridge-api/internal/pkg/common"
)

// 廚師 persona 的 system prompt，整段對話只載入一次。
// 規則重點：只回傳 JSON、語意比對先於「缺食材」宣告、單人份量控制、
// 禁止提到效期或浪費、禁止宣稱系統會記住食譜。
const systemInstruction = `You are an elite personal chef with deep culinary expertise, creative instincts, and an intuitive feel for flavor. You are having a live conversation with a client about what to cook right now.

RESPONSE FORMAT, MANDATORY:
You MUST always respond with a raw, valid JSON object and nothing else.
No markdown fences, no json fences, no text before or after the JSON. Just the object.

Required schema (all text values must be written in Hebrew):
{
  "chef_message": "הודעה קצרה מהשף",
  "recipe_name": "שם המתכון",
  "tagline": "משפט קצר ומפתה שמתאר את המנה",
  "used_fridge_items": [
    {"item_name": "שם מדויק כפי שמופיע ברשימה", "quantity_used": number}
  ],
  "excluded_items": [
    {"item_name": "שם", "reason": "סיבה קולינרית קצרה"}
  ],
  "pantry_staples_needed": ["מלח", "שמן זית", "פלפל שחור"],
  "instructions": ["שלב 1...", "שלב 2..."]
}

CHEF MESSAGE RULES (chef_message field):
The chef_message field is the ONLY approved channel for communicating inventory gaps to the client.
- MISSING ingredient (no equivalent in inventory): honestly inform the client what is missing and what you made instead.
- REQUEST FULFILLED (directly or via semantic equivalent): write a brief welcoming sentence about the dish, or leave it as an empty string "".
CRITICAL: NEVER invent or hallucinate ingredients not in the provided inventory. chef_message is the sole outlet for stating what you cannot cook.

SEMANTIC MATCHING RULE (apply BEFORE claiming any ingredient is missing):
When the client requests a food type or category, evaluate BOTH the item_name AND the category field of each inventory item using culinary logic, not string matching.
Category equivalence:
  "בשר" / "עוף" / "דגים" / "חלבון": ANY item in category "בשר ודגים"
  "חלבי" / "גבינה" / "יוגורט": ANY item in category "מוצרי חלב וביצים"
  "ירקות" / "טרי" / "סלט": ANY item in category "פירות וירקות"
  "מתוק" / "קינוח" / "עוגה": items in "נשנושים ומתוקים" OR dairy items
  "פסטה" / "קטניות" / "דגנים": ANY item in category "מזווה"
Only declare an ingredient missing if NO item in the inventory, by name or by category, can serve as a culinary equivalent for what the client requested.

PORTION CONTROL, MANDATORY:
By default, generate ALL recipes scaled for EXACTLY ONE average adult serving.
NEVER use the entire available inventory if it exceeds a normal single portion.
Realistic culinary portion sizes per person:
  - Meat / poultry / fish: about 150-200 g (about 0.2 units if listed by kg)
  - Fresh vegetables: 1-2 items or about 100-150 g
  - Dairy (milk, cream): about 50-100 ml
  - Dry pasta / grains: about 80 g
  - Eggs: 1-2 units
The quantity_used values in used_fridge_items MUST reflect a realistic SINGLE portion, never the full available stock. If the client later requests scaling for more diners, you will receive an explicit follow-up message asking you to update the quantities.

EXCLUSION RULE (excluded_items field):
The excluded_items array MUST be minimal. ONLY populate it when:
  1. The user specifically requested an ingredient or dish type that you could not deliver.
  2. You made 1-2 significant culinary substitutions that the client should know about.
DO NOT explain why you skipped unrelated items that nobody asked for. If there are no notable exclusions or substitutions, return an empty array: [].

ABSOLUTE RULES, NEVER VIOLATE:
1. All text values in the JSON must be in Hebrew.
2. Never use the words or concepts: expiry, waste, saving ingredients, urgent, תפוגה, בזבוז, לחסוך, דחוף. Treat available ingredients as "what's in the kitchen".
3. NEVER claim you are saving, storing, or remembering the recipe in any app, memory, database, or external system. You are a chef, you only cook.
4. NEVER make promises or statements about what will happen after this conversation.
5. NEVER invent ingredients not present in the provided inventory. Use chef_message to communicate any gap.
6. When the client requests changes, adapt the recipe fully and return the complete updated JSON, never a partial diff.
7. Be a chef: focus on taste, texture, technique, and the dining experience.`

// Service 廚師對話服務
type Service struct {
	config   *config.Config
	aiSvc    *ai.Service
	store    *inventory.Store
	sessions SessionStore
}

// NewService 創建廚師服務
func NewService(cfg *config.Config, aiSvc *ai.Service, store *inventory.Store, sessions SessionStore) *Service {
	return &Service{
		config:   cfg,
		aiSvc:    aiSvc,
		store:    store,
		sessions: sessions,
	}
}

// RecipeReply 產生或修改食譜的回應
type RecipeReply struct {
	Recipe      *common.ChefRecipe      `json:"recipe"`
	ActiveItems []common.FridgeItemView `json:"active_items"`
	Guests      int                     `json:"guests"`
}

// ChatTurn POST /chef/message 的一輪對話結果
type ChatTurn struct {
	Intent      string             `json:"intent"`
	ChefMessage string             `json:"chef_message,omitempty"`
	Recipe      *common.ChefRecipe `json:"recipe,omitempty"`
	Consumed    *ConsumeResult     `json:"consumed,omitempty"`
}

// listFoodItems 取出可下鍋的食材，依效期由近到遠排序。
// 押瓶費、購物袋與 "אחר" 分類在這裡擋掉，不讓非食材進到模型的 prompt。
func (s *Service) listFoodItems(ctx context.Context) ([]common.FridgeItemView, error) {
	items, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, common.NewError(common.ErrStoreError.Code, common.ErrStoreError.Message, common.ErrStoreError.Status, err)
	}

	views := make([]common.FridgeItemView, 0, len(items))
	filtered := 0
	for _, item := range items {
		if !inventory.IsFoodItem(item.Name, item.Category) {
			filtered++
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
	if filtered > 0 {
		common.LogDebug("已過濾非食材品項", zap.Int("count", filtered))
	}

	// 效期近的排前面，模型自然會優先用到它們
	sort.Slice(views, func(i, j int) bool {
		return views[i].ExpiryDate < views[j].ExpiryDate
	})
	return views, nil
}

// buildInitialPrompt 組出開場訊息。
// 每個品項都帶上分類欄位，讓模型能套用語意比對規則。
func buildInitialPrompt(items []common.FridgeItemView, vibe string) string {
	return fmt.Sprintf(
		"המרכיבים הזמינים במטבח כרגע:\n%s\n"+
			"הלקוח מחפש: \"%s\"\n\n"+
			"לפני שאתה מחליט שמרכיב חסר, החל את כלל ה-SEMANTIC MATCHING: "+
			"בדוק את שדה הקטגוריה של כל מרכיב ולא רק את שמו. "+
			"צור מתכון מעולה שמשקף בדיוק את הבקשה ושלב את המרכיבים הזמינים בצורה טבעית. "+
			"החזר JSON בלבד.",
		common.FormatFridgeItems(items), vibe)
}

// buildRevisionPrompt 把使用者回饋包成修改指令，歷史裡已有上一版食譜
func buildRevisionPrompt(feedback string) string {
	return fmt.Sprintf(
		"הלקוח ביקש שינוי: \"%s\"\n\nעדכן את המתכון בהתאם. החזר את ה-JSON המלא והמעודכן.",
		feedback)
}

// buildScalingPrompt 要求模型把份量改成指定人數
func buildScalingPrompt(guests int) string {
	return fmt.Sprintf(
		"הלקוח אישר את המתכון. אנא עדכן את כל הכמויות במתכון עבור %d סועדים. "+
			"ודא שסך הכמויות לא חורג מהמלאי הזמין. "+
			"החזר את ה-JSON המלא והמעודכן.",
		guests)
}

// ParseRecipe 解析模型回覆成結構化食譜。
// 永遠回傳可用的結構，解析失敗時把原始文字塞進 Instructions 並標記 RawFallback。
func ParseRecipe(raw string) *common.ChefRecipe {
	jsonStr, err := common.ExtractJSONObject(raw)
	if err == nil {
		var recipe common.ChefRecipe
		if perr := common.ParseJSON(jsonStr, &recipe); perr == nil {
			return &recipe
		} else {
			err = perr
		}
	}

	common.LogWarn("廚師回覆不是合法 JSON，改用原始文字", zap.Error(err))
	return &common.ChefRecipe{
		RecipeName:   "מתכון",
		Instructions: []string{raw},
		RawFallback:  true,
	}
}

// sendAndParse 送一則訊息到對話，回傳解析後的食譜與更新後的歷史
func (s *Service) sendAndParse(ctx context.Context, history []openrouter.Message, message, requestID string) (*common.ChefRecipe, []openrouter.Message, error) {
	history = append(history, openrouter.TextMessage(openrouter.RoleUser, message))

	content, err := s.aiSvc.Chat(ctx, history, requestID)
	if err != nil {
		return nil, nil, common.NewError(common.ErrAIServiceError.Code, common.ErrAIServiceError.Message, common.ErrAIServiceError.Status, err)
	}

	history = append(history, openrouter.TextMessage(openrouter.RoleAssistant, content))
	return ParseRecipe(content), history, nil
}

// Generate 依冰箱庫存與使用者描述產生食譜，並建立新的對話 session。
// 同一個 userID 再呼叫一次會直接蓋掉舊 session。
func (s *Service) Generate(ctx context.Context, userID, vibe string, guests int, requestID string) (*RecipeReply, error) {
	items, err := s.listFoodItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, common.ErrEmptyFridge
	}

	if guests < 1 {
		guests = 1
	}
	vibe = trimVibe(vibe)

	history := []openrouter.Message{
		openrouter.TextMessage(openrouter.RoleSystem, systemInstruction),
	}
	recipe, history, err := s.sendAndParse(ctx, history, buildInitialPrompt(items, vibe), requestID)
	if err != nil {
		return nil, err
	}
	if recipe.RawFallback {
		return nil, common.NewError(common.ErrAIServiceError.Code,
			"ה-AI לא הצליח להחזיר מתכון מסודר. נסה לנסח את הבקשה מחדש.",
			common.ErrAIServiceError.Status, nil)
	}

	// 多人份量放大失敗不致命，退回單人份
	if guests > 1 {
		scaled, scaledHistory, serr := s.sendAndParse(ctx, history, buildScalingPrompt(guests), requestID)
		if serr == nil && !scaled.RawFallback {
			recipe = scaled
			history = scaledHistory
		} else {
			common.LogWarn("份量放大失敗，使用單人份食譜",
				zap.String("user_id", userID),
				zap.Int("guests", guests),
			)
		}
	}

	session := &Session{
		UserID:      userID,
		History:     history,
		ActiveItems: items,
		Recipe:      recipe,
		CreatedAt:   time.Now(),
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	common.LogInfo("食譜已產生",
		zap.String("user_id", userID),
		zap.String("recipe_name", recipe.RecipeName),
		zap.Int("guests", guests),
	)

	return &RecipeReply{Recipe: recipe, ActiveItems: items, Guests: guests}, nil
}

// Revise 把使用者的自由回饋送進既有對話，回傳修改後的食譜
func (s *Service) Revise(ctx context.Context, userID, feedback, requestID string) (*RecipeReply, error) {
	session, ok, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrSessionNotFound
	}

	session.Revisions++
	if session.Revisions > s.config.Chef.MaxRevisions {
		_ = s.sessions.Delete(ctx, userID)
		return nil, common.NewError(common.ErrConflict.Code,
			fmt.Sprintf("הגענו ל-%d עדכונים — נסה להתחיל מחדש עם בקשה חדשה.", s.config.Chef.MaxRevisions),
			common.ErrConflict.Status, nil)
	}

	recipe, history, err := s.sendAndParse(ctx, session.History, buildRevisionPrompt(feedback), requestID)
	if err != nil {
		return nil, err
	}
	if recipe.RawFallback {
		return nil, common.NewError(common.ErrAIServiceError.Code,
			"ה-AI לא הצליח לעדכן את המתכון. נסה לנסח את הבקשה אחרת.",
			common.ErrAIServiceError.Status, nil)
	}

	session.History = history
	session.Recipe = recipe
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	return &RecipeReply{Recipe: recipe, ActiveItems: session.ActiveItems, Guests: 1}, nil
}

// Confirm 確認食譜：依用量扣減庫存並銷毀 session
func (s *Service) Confirm(ctx context.Context, userID string) (*ConsumeResult, error) {
	session, ok, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrSessionNotFound
	}

	if session.Recipe == nil || len(session.Recipe.UsedFridgeItems) == 0 {
		return nil, common.NewError(common.ErrCodeInvalidRequest,
			"המתכון אינו מכיל פריטים לניכוי מהמלאי.",
			422, nil)
	}

	result := ConsumeItems(ctx, s.store, session.Recipe.UsedFridgeItems, session.ActiveItems)

	// 對話結束，session 銷毀
	_ = s.sessions.Delete(ctx, userID)
	common.LogInfo("食譜已確認，庫存已更新",
		zap.String("user_id", userID),
		zap.Int("deducted", len(result.Deducted)),
		zap.Int("shopping_list", len(result.ShoppingListAdditions)),
	)

	return result, nil
}

// Message 處理自由格式的對話輸入，自動分流到確認、取消或修改
func (s *Service) Message(ctx context.Context, userID, text, requestID string) (*ChatTurn, error) {
	intent := ClassifyIntent(text)

	switch intent {
	case IntentConfirm:
		result, err := s.Confirm(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &ChatTurn{
			Intent:      IntentConfirm,
			ChefMessage: "בתיאבון! תהנה מהארוחה.",
			Consumed:    result,
		}, nil

	case IntentCancel:
		_ = s.sessions.Delete(ctx, userID)
		return &ChatTurn{
			Intent:      IntentCancel,
			ChefMessage: "בסדר גמור. בתיאבון בפעם הבאה!",
		}, nil

	default:
		reply, err := s.Revise(ctx, userID, text, requestID)
		if err != nil {
			return nil, err
		}
		return &ChatTurn{
			Intent: IntentRevise,
			Recipe: reply.Recipe,
		}, nil
	}
}

// trimVibe 整理使用者輸入，空字串退回預設的家常晚餐
func trimVibe(vibe string) string {
	vibe = strings.TrimSpace(vibe)
	if vibe == "" {
		return "ארוחת ערב ביתית"
	}
	return vibe
}
