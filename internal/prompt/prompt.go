package prompt

import (
	"fmt"
	"strings"
)

const maxExamples = 5

// Build assembles the FAQ-generation instruction from the extracted text, the
// requested question count, optional custom questions and up to five few-shot
// examples. maxInputChars > 0 truncates the source text before templating.
func Build(text string, questionCount int, customQuestions string, examples []Example, maxInputChars int) string {
	if questionCount <= 0 {
		questionCount = 10
	}
	if maxInputChars > 0 {
		if runes := []rune(text); len(runes) > maxInputChars {
			text = string(runes[:maxInputChars])
		}
	}

	var examplesText strings.Builder
	for i, ex := range examples {
		if i >= maxExamples {
			break
		}
		fmt.Fprintf(&examplesText, "%d. س: %s\n   ج: %s\n", i+1, ex.Question, ex.Answer)
	}

	var b strings.Builder
	b.WriteString("نمط الأسئلة الشائعة لدينا كالتالي:\n")
	b.WriteString(examplesText.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "اقرأ النص التالي واستخرج %d سؤالًا شائعًا مع إجابته بطريقة احترافية:\n\n", questionCount)
	fmt.Fprintf(&b, "\"\"\"\n%s\n\"\"\"\n", text)
	if strings.TrimSpace(customQuestions) != "" {
		fmt.Fprintf(&b, "\nمع الإجابة عن هذه الأسئلة:\n%s\n", customQuestions)
	}
	return b.String()
}
