package request

import (
	"fmt"
	"strings"
)

type AnalyzeRequest struct {
	Text string `json:"text"`
}

func (r *AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}
