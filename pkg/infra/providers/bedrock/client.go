package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RakshakAI/ScamShield/pkg/common"
	"github.com/RakshakAI/ScamShield/pkg/infra/providers"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	ModelPrefixAnthropicClaude   = "anthropic.claude"
	ModelPrefixAnthropicClaudeV3 = "anthropic.claude-3"
	ModelPrefixAmazonTitan       = "amazon.titan"

	defaultRegion = "ap-south-1"
)

type invokeRequest struct {
	Prompt            string  `json:"prompt,omitempty"`
	MaxTokensToSample int     `json:"max_tokens_to_sample,omitempty"`
	Temperature       float64 `json:"temperature,omitempty"`

	// Anthropic Claude 3 fields
	AnthropicVersion string                   `json:"anthropic_version,omitempty"`
	Messages         []map[string]interface{} `json:"messages,omitempty"`
	System           string                   `json:"system,omitempty"`
	MaxTokens        int                      `json:"max_tokens,omitempty"`

	// Amazon Titan fields
	InputText            string                 `json:"inputText,omitempty"`
	TextGenerationConfig map[string]interface{} `json:"textGenerationConfig,omitempty"`
}

type client struct {
	clientPool *sync.Map
}

func NewBedrockClient() providers.Client {
	return &client{
		clientPool: &sync.Map{},
	}
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if config.Credentials.AwsBedrock == nil {
		return nil, fmt.Errorf("aws credentials are required")
	}

	runtimeClient, err := c.getOrCreateClient(ctx, config.Credentials.AwsBedrock)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
	}

	request := c.prepareRequest(config, prompt)
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := runtimeClient.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(config.Model),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke model: %w", err)
	}

	responseText, err := parseResponse(config.Model, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	id := fmt.Sprintf("bedrock-%d", time.Now().UnixNano())
	if requestID, ok := ctx.Value(common.RequestIdContextKey).(string); ok && requestID != "" {
		id = "bedrock-" + requestID
	}

	return &providers.CompletionResponse{
		ID:       id,
		Model:    config.Model,
		Response: responseText,
		Usage:    providers.Usage{},
	}, nil
}

func (c *client) prepareRequest(config *providers.Config, prompt string) *invokeRequest {
	request := &invokeRequest{}
	if config.Temperature > 0 {
		request.Temperature = config.Temperature
	}

	switch {
	case isClaudeV3Model(config.Model):
		request.AnthropicVersion = "bedrock-2023-05-31"
		request.System = config.SystemPrompt
		request.MaxTokens = config.MaxTokens
		if request.MaxTokens == 0 {
			request.MaxTokens = 1024
		}
		var messages []map[string]interface{}
		if len(config.Instructions) > 0 {
			messages = append(messages, map[string]interface{}{
				"role":    "user",
				"content": providers.FormatInstructions(config.Instructions),
			})
		}
		if prompt != "" {
			messages = append(messages, map[string]interface{}{
				"role":    "user",
				"content": prompt,
			})
		}
		request.Messages = messages
	case isTitanModel(config.Model):
		request.InputText = joinPromptSections(config, prompt)
		request.TextGenerationConfig = map[string]interface{}{
			"maxTokenCount": config.MaxTokens,
			"temperature":   config.Temperature,
		}
		request.Temperature = 0
	case isClaudeModel(config.Model):
		request.Prompt = "Human: " + joinPromptSections(config, prompt) + "\n\nAssistant: "
		request.MaxTokensToSample = config.MaxTokens
	default:
		request.Prompt = joinPromptSections(config, prompt)
		request.MaxTokensToSample = config.MaxTokens
	}
	return request
}

func joinPromptSections(config *providers.Config, prompt string) string {
	var fullPrompt string
	if config.SystemPrompt != "" {
		fullPrompt += config.SystemPrompt + "\n\n"
	}
	if len(config.Instructions) > 0 {
		fullPrompt += providers.FormatInstructions(config.Instructions) + "\n\n"
	}
	if prompt != "" {
		fullPrompt += prompt
	}
	return fullPrompt
}

func parseResponse(model string, responseBody []byte) (string, error) {
	var responseText string
	var err error

	switch {
	case isClaudeV3Model(model):
		responseText, err = parseClaudeV3Response(responseBody)
	case isTitanModel(model):
		responseText, err = parseTitanResponse(responseBody)
	case isClaudeModel(model):
		responseText, err = parseClaudeResponse(responseBody)
	default:
		responseText, err = parseDefaultResponse(responseBody)
	}
	if err != nil {
		return "", err
	}
	if responseText == "" {
		return "", fmt.Errorf("no text content returned")
	}
	return responseText, nil
}

func parseClaudeV3Response(responseBody []byte) (string, error) {
	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal Claude 3 response: %w", err)
	}
	for _, content := range response.Content {
		if content.Type == "text" {
			return content.Text, nil
		}
	}
	return "", nil
}

func parseClaudeResponse(responseBody []byte) (string, error) {
	var response struct {
		Completion string `json:"completion"`
	}
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
	}
	return response.Completion, nil
}

func parseTitanResponse(responseBody []byte) (string, error) {
	var response struct {
		OutputText string `json:"outputText"`
		Results    []struct {
			OutputText string `json:"outputText"`
		} `json:"results"`
	}
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
	}
	if response.OutputText != "" {
		return response.OutputText, nil
	}
	if len(response.Results) > 0 {
		return response.Results[0].OutputText, nil
	}
	return "", nil
}

func parseDefaultResponse(responseBody []byte) (string, error) {
	var response struct {
		Completion string `json:"completion"`
		Generation string `json:"generation"`
		Response   string `json:"response"`
		Text       string `json:"text"`
		Output     string `json:"output"`
	}
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	for _, candidate := range []string{
		response.Completion,
		response.Generation,
		response.Response,
		response.Text,
		response.Output,
	} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", nil
}

func (c *client) getOrCreateClient(
	ctx context.Context,
	credentials *providers.BedrockCredentials,
) (*bedrockruntime.Client, error) {
	clientKey := fmt.Sprintf("%s:%s", credentials.Region, credentials.AccessKey)
	if clientVal, ok := c.clientPool.Load(clientKey); ok {
		pooled, ok := clientVal.(*bedrockruntime.Client)
		if !ok {
			return nil, fmt.Errorf("invalid client type in pool")
		}
		return pooled, nil
	}

	cfg, err := buildAwsConfig(ctx, credentials)
	if err != nil {
		return nil, err
	}
	runtimeClient := bedrockruntime.NewFromConfig(cfg)
	c.clientPool.Store(clientKey, runtimeClient)
	return runtimeClient, nil
}

func buildAwsConfig(ctx context.Context, credentials *providers.BedrockCredentials) (aws.Config, error) {
	region := credentials.Region
	if region == "" {
		region = defaultRegion
	}

	// Without explicit keys, fall back to the default AWS credential chain.
	if credentials.AccessKey == "" {
		return config.LoadDefaultConfig(ctx, config.WithRegion(region))
	}

	accessKey := credentials.AccessKey
	secretKey := credentials.SecretKey
	return config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
				}, nil
			},
		)),
		config.WithRegion(region),
	)
}

func isClaudeModel(model string) bool {
	return strings.Contains(model, ModelPrefixAnthropicClaude)
}

func isClaudeV3Model(model string) bool {
	return strings.Contains(model, ModelPrefixAnthropicClaudeV3)
}

func isTitanModel(model string) bool {
	return strings.Contains(model, ModelPrefixAmazonTitan)
}
