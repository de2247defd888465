package providers

// CompletionResponse is the provider-neutral completion shape. Adapters map
// each vendor's response into it; Response carries the raw model text that
// the verdict parser consumes downstream.
type CompletionResponse struct {
	ID       string `json:"id"`
	Model    string `json:"model"`
	Response string `json:"response"`
	Usage    Usage  `json:"usage"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
