package recruit

import "strings"

// Recruitment statuses used in the Postings table. Only open postings are
// ever considered for matching.
const (
	PostingStatusOpen   = "募集中"
	PostingStatusClosed = "募集終了"
)

// License requirement values recognized in the Postings table. Any other
// value excludes the posting from matching entirely.
const (
	RequirementRequired    = "必要"
	RequirementNotRequired = "不要"
)

// Posting is one open job listing. The later data revision flattens the
// former store master into the posting row, so store fields live here too.
type Posting struct {
	PostingID   string `json:"posting_id" sheet:"求人ID"`
	StoreID     string `json:"store_id" sheet:"店舗ID"`
	StoreName   string `json:"store_name" sheet:"店舗名"`
	Address     string `json:"address" sheet:"住所"`
	ImageURL    string `json:"image_url" sheet:"画像URL"`
	Role        string `json:"role" sheet:"役職"`
	Status      string `json:"recruitment_status" sheet:"募集状況"`
	Requirement string `json:"license_requirement" sheet:"美容師免許"`
	Perks       string `json:"perks" sheet:"待遇"`
	Features    string `json:"features" sheet:"特徴"`
}

type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// FindByStoreID returns the first posting whose store ID matches after
// trimming. The model echoes store IDs back as numbers, so callers compare
// the decimal string form.
func (p *Postings) FindByStoreID(id string) *Posting {
	id = strings.TrimSpace(id)
	if p == nil || id == "" {
		return nil
	}
	for _, posting := range p.Items {
		if strings.TrimSpace(posting.StoreID) == id {
			return posting
		}
	}
	return nil
}

func (p *Postings) StoreIDs() []string {
	ids := make([]string, 0, p.Len())
	for _, posting := range p.Items {
		ids = append(ids, posting.StoreID)
	}
	return ids
}
