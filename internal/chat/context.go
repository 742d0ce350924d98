package chat

import (
	"fmt"
	"strings"
)

const (
	maxCustomQuestionsLen = 500
	maxResultLen          = 4000
)

// VisibleValue mirrors the FAQ record fields the front end sends along with a
// chat message so the model can answer about the user's latest generation.
type VisibleValue struct {
	URL             string `json:"url"`
	FileName        string `json:"file_name"`
	QuestionsNumber int    `json:"questions_number"`
	CustomQuestions string `json:"custom_questions"`
	FAQResult       string `json:"FAQ_result"`
	DateTime        string `json:"date_time"`
	UpdatedAt       string `json:"updated_at"`
}

// BuildContext condenses the first visible value into a single pipe-separated
// line. Absent fields are skipped, long ones are capped so the prompt stays
// bounded.
func BuildContext(values []VisibleValue) string {
	if len(values) == 0 {
		return ""
	}
	v := values[0]

	var parts []string
	switch {
	case strings.TrimSpace(v.URL) != "":
		parts = append(parts, "source: "+strings.TrimSpace(v.URL))
	case strings.TrimSpace(v.FileName) != "":
		parts = append(parts, "source: "+strings.TrimSpace(v.FileName))
	}
	if v.QuestionsNumber > 0 {
		parts = append(parts, fmt.Sprintf("questions requested: %d", v.QuestionsNumber))
	}
	if q := strings.TrimSpace(v.CustomQuestions); q != "" {
		parts = append(parts, "custom questions: "+truncate(q, maxCustomQuestionsLen))
	}
	if res := strings.TrimSpace(v.FAQResult); res != "" {
		parts = append(parts, "generated FAQ: "+truncate(res, maxResultLen))
	}
	if ts := strings.TrimSpace(v.DateTime); ts != "" {
		parts = append(parts, "created: "+ts)
	}
	if ts := strings.TrimSpace(v.UpdatedAt); ts != "" {
		parts = append(parts, "updated: "+ts)
	}
	return strings.Join(parts, " | ")
}

// truncate cuts on rune boundaries so Arabic text is never split mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
