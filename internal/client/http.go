package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	domain "github.com/bryanwahyu/insight/internal/domain/analysis"
)

// ResponseError is a non-2xx reply from the analysis endpoint.
type ResponseError struct {
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	return e.Message
}

// HTTPAnalyzer calls POST /api/analyze on a running server.
type HTTPAnalyzer struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPAnalyzer(baseURL string) *HTTPAnalyzer {
	return &HTTPAnalyzer{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{}}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, input string) (domain.Result, error) {
	payload, err := json.Marshal(map[string]string{"input": input})
	if err != nil {
		return domain.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/api/analyze", bytes.NewReader(payload))
	if err != nil {
		return domain.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := a.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return domain.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return domain.Result{}, &ResponseError{Status: resp.StatusCode, Message: body.Error}
	}

	var res domain.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return domain.Result{}, fmt.Errorf("decode response: %w", err)
	}
	return res, nil
}
