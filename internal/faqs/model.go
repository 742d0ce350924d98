package faqs

import "time"

// ResultPlaceholder is stored when generation yields nothing, so the result
// column is never left empty.
const ResultPlaceholder = "لا توجد نتيجة تم إنشاؤها"

// DefaultQuestionCount is used when a request does not specify how many
// questions to generate.
const DefaultQuestionCount = 10

// Request represents one FAQ-generation request and its outcome.
type Request struct {
	ID              int64
	UserID          int64
	FilePath        string
	URL             string
	WrittenData     string
	QuestionCount   int
	CustomQuestions string
	Result          string
	EditedResult    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
