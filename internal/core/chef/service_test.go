package chef

import (
	"strings"
	"testing"

	"smart-fridge-api/internal/pkg/common"
)

func TestParseRecipe(t *testing.T) {
	raw := `{
		"chef_message": "",
		"recipe_name": "שקשוקה",
		"tagline": "ביצים ברוטב עגבניות עשיר",
		"used_fridge_items": [{"item_name": "ביצים", "quantity_used": 2}],
		"excluded_items": [],
		"pantry_staples_needed": ["מלח", "שמן זית"],
		"instructions": ["לחמם מחבת", "להוסיף ביצים"]
	}`

	recipe := ParseRecipe(raw)
	if recipe.RawFallback {
		t.Fatalf("valid JSON must not fall back to raw text")
	}
	if recipe.RecipeName != "שקשוקה" {
		t.Fatalf("recipe name = %q, want שקשוקה", recipe.RecipeName)
	}
	if len(recipe.UsedFridgeItems) != 1 || recipe.UsedFridgeItems[0].QuantityUsed != 2 {
		t.Fatalf("unexpected used items: %+v", recipe.UsedFridgeItems)
	}
}

func TestParseRecipeWithFenceAndProse(t *testing.T) {
	raw := "בטח, הנה המתכון:\n```json\n" +
		`{"chef_message": "", "recipe_name": "סלט", "tagline": "", "used_fridge_items": [], "excluded_items": [], "pantry_staples_needed": [], "instructions": ["לערבב"]}` +
		"\n```\nבתיאבון!"

	recipe := ParseRecipe(raw)
	if recipe.RawFallback {
		t.Fatalf("fenced JSON must still parse")
	}
	if recipe.RecipeName != "סלט" {
		t.Fatalf("recipe name = %q, want סלט", recipe.RecipeName)
	}
}

func TestParseRecipeFallback(t *testing.T) {
	raw := "מצטער, לא הצלחתי להכין מתכון הפעם."

	recipe := ParseRecipe(raw)
	if !recipe.RawFallback {
		t.Fatalf("non-JSON response must be marked as raw fallback")
	}
	if len(recipe.Instructions) != 1 || !strings.Contains(recipe.Instructions[0], "מצטער") {
		t.Fatalf("raw text must be preserved in instructions: %+v", recipe.Instructions)
	}
}

func TestBuildInitialPromptIncludesCategories(t *testing.T) {
	items := []common.FridgeItemView{
		{ItemName: "עוף", Category: "בשר ודגים", Quantity: 1},
	}
	prompt := buildInitialPrompt(items, "ארוחת ערב")

	if !strings.Contains(prompt, "עוף") || !strings.Contains(prompt, "בשר ודגים") {
		t.Fatalf("prompt must include item name and category:\n%s", prompt)
	}
	if !strings.Contains(prompt, "ארוחת ערב") {
		t.Fatalf("prompt must include the user vibe")
	}
}

func TestTrimVibe(t *testing.T) {
	if got := trimVibe("   "); got != "ארוחת ערב ביתית" {
		t.Fatalf("empty vibe should fall back to default, got %q", got)
	}
	if got := trimVibe(" פסטה "); got != "פסטה" {
		t.Fatalf("trimVibe should trim spaces, got %q", got)
	}
}
