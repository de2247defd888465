package functional_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AnalyzeText scores a single message and returns the decoded verdict.
func AnalyzeText(t *testing.T, text string) map[string]interface{} {
	status, resp := sendRequest(t, http.MethodPost, EngineUrl+"/api/v1/analyze", map[string]interface{}{
		"text": text,
	})
	assert.Equal(t, http.StatusOK, status)
	if status != http.StatusOK {
		t.Fatalf("❌ Failed to analyze text. Status: %d, Response: %v", status, resp)
	}
	return resp
}

func sendRequest(t *testing.T, method, url string, body interface{}) (int, map[string]interface{}) {
	return sendRequestWithHeaders(t, method, url, body, nil)
}

func sendRequestWithHeaders(
	t *testing.T,
	method, url string,
	body interface{},
	headers map[string]string,
) (int, map[string]interface{}) {
	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		assert.NoError(t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, reqBody)
	assert.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var respData map[string]interface{}
	err = json.Unmarshal(respBytes, &respData)
	assert.NoError(t, err)

	return resp.StatusCode, respData
}
