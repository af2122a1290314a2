package domain

// MeetingDetails is the sub-record the model extracts from an email.
// Every field is optional; the validator decides what is usable.
type MeetingDetails struct {
	Subject          string   `json:"subject,omitempty"`
	StartTime        string   `json:"start_time,omitempty"`
	EndTime          string   `json:"end_time,omitempty"`
	Attendees        []string `json:"attendees,omitempty"`
	Location         string   `json:"location,omitempty"`
	OnlineMeetingURL string   `json:"online_meeting_url,omitempty"`
}

// Empty reports whether the details carry nothing actionable.
func (d *MeetingDetails) Empty() bool {
	return d == nil || d.StartTime == ""
}

// Verdict is the structured result of asking the model whether a message
// is an actionable meeting invitation. Explanation is empty on success.
type Verdict struct {
	Explanation string          `json:"explanation"`
	Details     *MeetingDetails `json:"meeting_details"`
}

// Rejected reports whether the model declined to schedule the meeting.
func (v *Verdict) Rejected() bool {
	return v.Explanation != ""
}

// MeetingRecord is the fully validated, timezone-normalized event handed
// to the calendar adapter. Start and End are RFC3339 strings carrying an
// explicit UTC offset in the configured reference timezone; Attendees is
// deduplicated and every entry matches the canonical address syntax.
type MeetingRecord struct {
	Subject    string
	Start      string
	End        string
	Attendees  []string
	Location   string
	MeetingURL string
}
