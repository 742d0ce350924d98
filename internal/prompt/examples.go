package prompt

import (
	"encoding/json"
	"fmt"
	"os"
)

// Example is one reference question/answer pair used as a few-shot sample.
type Example struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LoadExamples reads the static examples file once at startup. A missing file
// is not fatal: prompts are simply built without few-shot samples.
func LoadExamples(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read examples %s: %w", path, err)
	}

	var examples []Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("parse examples %s: %w", path, err)
	}
	return examples, nil
}
