package request

import (
	"fmt"
	"strings"
)

type BatchAnalyzeRequest struct {
	Texts []string `json:"texts"`
}

// Validate rejects an empty batch and batches of only-blank texts. Individual
// blank items are allowed, they score zero downstream.
func (r *BatchAnalyzeRequest) Validate() error {
	if len(r.Texts) == 0 {
		return fmt.Errorf("texts is required")
	}
	for _, text := range r.Texts {
		if strings.TrimSpace(text) != "" {
			return nil
		}
	}
	return fmt.Errorf("texts must contain at least one non-empty item")
}
