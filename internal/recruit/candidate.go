package recruit

import (
	"fmt"
	"time"
)

// Values the intake form may put into the license field. Anything else is
// treated as not held.
const (
	LicenseHeld    = "保有"
	LicenseNotHeld = "未保有"
)

// Candidate statuses tracked in the Users table.
const (
	CandidateStatusOffering = "オファー中"
)

// Candidate is one beautician profile submitted through the intake form.
// The json tags match the intake payload, the sheet tags match the header
// row of the Users table.
type Candidate struct {
	UserID        string `json:"-" sheet:"ユーザーID"`
	RegisteredAt  string `json:"-" sheet:"登録日"`
	Status        string `json:"-" sheet:"ステータス"`
	FullName      string `json:"full_name" sheet:"氏名"`
	Gender        string `json:"gender" sheet:"性別"`
	Birthdate     string `json:"birthdate" sheet:"生年月日"`
	PhoneNumber   string `json:"phone_number" sheet:"電話番号"`
	MBTI          string `json:"mbti" sheet:"MBTI"`
	Role          string `json:"role" sheet:"役職"`
	License       string `json:"license" sheet:"美容師免許"`
	Area          string `json:"area" sheet:"希望エリア"`
	Satisfaction  string `json:"satisfaction" sheet:"現状満足度"`
	Perk          string `json:"perk" sheet:"最も興味のある待遇"`
	CurrentStatus string `json:"current_status" sheet:"現在の状況"`
	Timing        string `json:"timing" sheet:"転職希望時期"`
	AgeBracket    string `json:"age,omitempty" sheet:"年代"`
}

const birthdateLayout = "2006-01-02"

// AgeBracket reduces a birthdate to a decade bucket, e.g. "30代".
func AgeBracket(birthdate string, now time.Time) (string, error) {
	born, err := time.Parse(birthdateLayout, birthdate)
	if err != nil {
		return "", fmt.Errorf("parse birthdate %q: %w", birthdate, err)
	}

	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}

	if age < 0 {
		return "", fmt.Errorf("birthdate %q is in the future", birthdate)
	}

	return fmt.Sprintf("%d代", age/10*10), nil
}
