package line

import (
	"testing"

	"github.com/luminaoffer/lumina-offer/internal/recruit"
)

func TestOfferBubbleDoc(t *testing.T) {
	posting := &recruit.Posting{
		StoreID:   "101",
		StoreName: "LUMINA 表参道",
		Address:   "東京都渋谷区神宮前1-1-1",
		ImageURL:  "https://example.com/salon.jpg",
		Role:      "スタイリスト",
	}

	doc := offerBubbleDoc(posting, "ぜひお話しましょう", "liff-123", "https://example.com/about")

	if doc["type"] != "bubble" {
		t.Fatalf("expected a bubble, got %v", doc["type"])
	}

	hero := doc["hero"].(map[string]any)
	if hero["url"] != posting.ImageURL {
		t.Fatalf("hero url = %v, want %v", hero["url"], posting.ImageURL)
	}

	body := doc["body"].(map[string]any)
	title := body["contents"].([]any)[0].(map[string]any)
	if title["text"] != posting.StoreName {
		t.Fatalf("title = %v, want %v", title["text"], posting.StoreName)
	}

	rows := body["contents"].([]any)[1].(map[string]any)["contents"].([]any)
	if len(rows) != 3 {
		t.Fatalf("expected three detail rows, got %d", len(rows))
	}
	message := rows[2].(map[string]any)["contents"].([]any)[1].(map[string]any)
	if message["text"] != "ぜひお話しましょう" {
		t.Fatalf("offer text = %v", message["text"])
	}
}

func TestOfferBubbleDocSchedulingLink(t *testing.T) {
	posting := &recruit.Posting{StoreID: "207", StoreName: "サロン", ImageURL: "https://example.com/s.jpg"}

	doc := offerBubbleDoc(posting, "メッセージ", "liff-abc", "https://example.com")

	buttons := doc["footer"].(map[string]any)["contents"].([]any)
	if len(buttons) != 2 {
		t.Fatalf("expected two footer buttons, got %d", len(buttons))
	}

	learnMore := buttons[0].(map[string]any)["action"].(map[string]any)
	if learnMore["uri"] != "https://example.com" {
		t.Fatalf("learn-more uri = %v", learnMore["uri"])
	}

	schedule := buttons[1].(map[string]any)["action"].(map[string]any)
	want := "https://liff.line.me/liff-abc?salonId=207"
	if schedule["uri"] != want {
		t.Fatalf("scheduling uri = %v, want %q", schedule["uri"], want)
	}
}
