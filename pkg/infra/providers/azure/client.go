package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/RakshakAI/ScamShield/pkg/common"
	"github.com/RakshakAI/ScamShield/pkg/infra/httpx"
	"github.com/RakshakAI/ScamShield/pkg/infra/providers"
	"github.com/valyala/fasthttp"
)

const defaultApiVersion = "2024-02-15-preview"

type completionPayload struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type client struct {
	httpClient *fasthttp.Client
}

func NewAzureClient(httpClient *fasthttp.Client) providers.Client {
	if httpClient == nil {
		httpClient = &fasthttp.Client{}
	}
	return &client{
		httpClient: httpClient,
	}
}

// Ask sends a chat completion request to an Azure OpenAI deployment.
// Authentication uses config.Credentials.ApiKey unless
// config.Credentials.Azure.UseIdentity is set, in which case an Azure AD
// token is requested through the default credential chain.
func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	if config.Credentials.Azure == nil {
		return nil, fmt.Errorf("azure configuration is required")
	}
	if config.Credentials.Azure.Endpoint == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model (deployment ID) is required")
	}

	var token string
	var err error
	if config.Credentials.Azure.UseIdentity {
		token, err = c.getAzureADToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Azure AD token: %w", err)
		}
	} else {
		if config.Credentials.ApiKey == "" {
			return nil, fmt.Errorf("API key is required when not using Azure identity")
		}
		token = config.Credentials.ApiKey
	}

	var messages []map[string]string
	if config.SystemPrompt != "" {
		messages = append(messages, map[string]string{
			"role":    "system",
			"content": config.SystemPrompt,
		})
	}
	if len(config.Instructions) > 0 {
		messages = append(messages, map[string]string{
			"role":    "user",
			"content": providers.FormatInstructions(config.Instructions),
		})
	}
	if prompt != "" {
		messages = append(messages, map[string]string{
			"role":    "user",
			"content": prompt,
		})
	}

	apiVersion := config.Credentials.Azure.ApiVersion
	if apiVersion == "" {
		apiVersion = defaultApiVersion
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		config.Credentials.Azure.Endpoint,
		config.Model,
		apiVersion)

	reqBody := map[string]interface{}{
		"messages": messages,
	}
	if config.Temperature > 0 {
		reqBody["temperature"] = config.Temperature
	}
	if config.MaxTokens > 0 {
		reqBody["max_tokens"] = config.MaxTokens
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")
	if config.Credentials.Azure.UseIdentity {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("api-key", token)
	}
	req.SetBody(bodyBytes)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.httpClient.DoDeadline(req, resp, deadline)
	} else {
		err = c.httpClient.Do(req, resp)
	}
	if err != nil {
		return nil, fmt.Errorf("failed request: %w", err)
	}

	respBody, _, err := httpx.DecodeChain(resp, resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("non-200 status: %d\n%s", resp.StatusCode(), string(respBody))
	}

	var payload completionPayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return nil, fmt.Errorf("no completions returned")
	}
	content := payload.Choices[0].Message.Content
	if content == "" {
		return nil, fmt.Errorf("no text content returned")
	}

	id := fmt.Sprintf("azure-%d", time.Now().UnixNano())
	if requestID, ok := ctx.Value(common.RequestIdContextKey).(string); ok && requestID != "" {
		id = "azure-" + requestID
	}

	return &providers.CompletionResponse{
		ID:       id,
		Model:    config.Model,
		Response: content,
		Usage: providers.Usage{
			PromptTokens:     payload.Usage.PromptTokens,
			CompletionTokens: payload.Usage.CompletionTokens,
			TotalTokens:      payload.Usage.TotalTokens,
		},
	}, nil
}

func (c *client) getAzureADToken(ctx context.Context) (string, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create credential: %w", err)
	}
	token, err := cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{"https://cognitiveservices.azure.com/.default"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token.Token, nil
}
