package domain

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type CompletionRequest struct {
	Date   string
	Time   string
	TaskID string
}

type StaffingRequest struct {
	Date      string
	SectionID string
}
