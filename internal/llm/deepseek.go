package llm

import (
	"net/http"
	"time"
)

type DeepSeekProvider struct {
	*OpenAIProvider
}

func NewDeepSeekProvider(apiKey, model string) *DeepSeekProvider {
	if model == "" {
		model = "deepseek-chat"
	}
	return &DeepSeekProvider{
		OpenAIProvider: &OpenAIProvider{
			name:    "deepseek",
			apiKey:  apiKey,
			model:   model,
			baseURL: "https://api.deepseek.com/v1",
			httpClient: &http.Client{
				Timeout: 5 * time.Minute,
			},
		},
	}
}
