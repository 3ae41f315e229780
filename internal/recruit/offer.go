package recruit

// Offer statuses written to the Offers table.
const (
	OfferStatusSent       = "送信済み"
	OfferStatusScheduling = "日程調整中"
)

// SentDateLayout is the date format used in the Offers table.
const SentDateLayout = "2006/01/02"

// Offer is one sent recommendation, keyed by (candidate, store). Created
// exactly once per successful pipeline run; the scheduling columns are filled
// in later when the candidate submits availability.
type Offer struct {
	UserID   string `sheet:"ユーザーID"`
	StoreID  string `sheet:"店舗ID"`
	SentDate string `sheet:"オファー送信日"`
	Status   string `sheet:"オファー状況"`
}

// ScheduleSubmission is the scheduling-form payload: chosen interview method
// plus up to three proposed date/time ranges.
type ScheduleSubmission struct {
	UserID          string `json:"userId"`
	StoreID         string `json:"salonId"`
	InterviewMethod string `json:"interviewMethod"`
	Date1           string `json:"date1"`
	StartTime1      string `json:"startTime1"`
	EndTime1        string `json:"endTime1"`
	Date2           string `json:"date2"`
	StartTime2      string `json:"startTime2"`
	EndTime2        string `json:"endTime2"`
	Date3           string `json:"date3"`
	StartTime3      string `json:"startTime3"`
	EndTime3        string `json:"endTime3"`
}

// ScheduleColumns returns the 11 values written over columns D:N of the
// matched offer row: status, interview method, then the three proposed slots.
func (s *ScheduleSubmission) ScheduleColumns() []string {
	return []string{
		OfferStatusScheduling,
		s.InterviewMethod,
		s.Date1, s.StartTime1, s.EndTime1,
		s.Date2, s.StartTime2, s.EndTime2,
		s.Date3, s.StartTime3, s.EndTime3,
	}
}
