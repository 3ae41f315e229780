package recruit

// NoMatchReason is the terminal, non-error outcome of the matching pipeline.
// The empty value means a match was resolved. Callers use the reason to pick
// logging detail; the behavior is the same for every reason.
type NoMatchReason string

const (
	NoMatchNone         NoMatchReason = ""
	NoMatchMissingRole  NoMatchReason = "missing_role"
	NoMatchNoPostings   NoMatchReason = "no_postings"
	NoMatchNoEligible   NoMatchReason = "no_eligible_postings"
	NoMatchUnresolved   NoMatchReason = "unresolved_response"
	NoMatchUnknownStore NoMatchReason = "unknown_store"
)

// UserMessage returns the static user-safe explanation for the reason.
func (r NoMatchReason) UserMessage() string {
	switch r {
	case NoMatchMissingRole:
		return "役職情報がありません。"
	case NoMatchNoPostings:
		return "サロン情報が見つかりません。"
	case NoMatchNoEligible:
		return "ご希望の役職に合う募集中の求人が見つかりませんでした。"
	case NoMatchUnknownStore:
		return "マッチしたサロン情報が見つかりませんでした。"
	case NoMatchUnresolved:
		return "最適なサロンが見つかりませんでした。"
	default:
		return ""
	}
}
