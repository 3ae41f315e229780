package line

import (
	"encoding/json"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/luminaoffer/lumina-offer/internal/recruit"
)

// offerBubble assembles the flex bubble as a JSON document and lets the SDK
// validate it into a typed container. Layout: hero image, store name, three
// labelled rows, a link button and the LIFF scheduling button pre-filled with
// the store ID.
func offerBubble(posting *recruit.Posting, offerText, liffID, learnMoreURL string) (messaging_api.FlexContainerInterface, error) {
	data, err := json.Marshal(offerBubbleDoc(posting, offerText, liffID, learnMoreURL))
	if err != nil {
		return nil, fmt.Errorf("marshal offer bubble: %w", err)
	}

	container, err := messaging_api.UnmarshalFlexContainer(data)
	if err != nil {
		return nil, fmt.Errorf("build offer bubble: %w", err)
	}
	return container, nil
}

func offerBubbleDoc(posting *recruit.Posting, offerText, liffID, learnMoreURL string) map[string]any {
	liffURL := fmt.Sprintf("https://liff.line.me/%s?salonId=%s", liffID, posting.StoreID)

	return map[string]any{
		"type": "bubble",
		"hero": map[string]any{
			"type":        "image",
			"url":         posting.ImageURL,
			"size":        "full",
			"aspectRatio": "20:13",
			"aspectMode":  "cover",
		},
		"body": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []any{
				map[string]any{
					"type":   "text",
					"text":   posting.StoreName,
					"weight": "bold",
					"size":   "xl",
				},
				map[string]any{
					"type":    "box",
					"layout":  "vertical",
					"margin":  "lg",
					"spacing": "sm",
					"contents": []any{
						baselineRow("勤務地", posting.Address),
						baselineRow("募集役職", posting.Role),
						baselineRow("メッセージ", offerText),
					},
				},
			},
		},
		"footer": map[string]any{
			"type":    "box",
			"layout":  "vertical",
			"spacing": "sm",
			"flex":    0,
			"contents": []any{
				map[string]any{
					"type":   "button",
					"style":  "link",
					"height": "sm",
					"action": map[string]any{
						"type":  "uri",
						"label": "詳しく見る",
						"uri":   learnMoreURL,
					},
				},
				map[string]any{
					"type":   "button",
					"style":  "primary",
					"height": "sm",
					"color":  "#FF6B6B",
					"action": map[string]any{
						"type":  "uri",
						"label": "サロンから話を聞いてみる",
						"uri":   liffURL,
					},
				},
			},
		},
	}
}

func baselineRow(label, value string) map[string]any {
	return map[string]any{
		"type":    "box",
		"layout":  "baseline",
		"spacing": "sm",
		"contents": []any{
			map[string]any{
				"type":  "text",
				"text":  label,
				"color": "#aaaaaa",
				"size":  "sm",
				"flex":  2,
			},
			map[string]any{
				"type":  "text",
				"text":  value,
				"wrap":  true,
				"color": "#666666",
				"size":  "sm",
				"flex":  5,
			},
		},
	}
}
