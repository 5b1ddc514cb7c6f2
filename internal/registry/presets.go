package registry

// AuthStyle describes how a provider expects its credential.
type AuthStyle string

const (
	AuthAPIKeyHeader AuthStyle = "api-key-header"
	AuthBearerToken  AuthStyle = "bearer-token"
	AuthNone         AuthStyle = "none"
)

// Wire protocol tags. Targets that only speak one protocol use this to
// filter incompatible providers.
const (
	WireChat      = "chat"
	WireResponses = "responses"
)

// Preset describes a provider's defaults. Immutable once loaded for a run.
type Preset struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	BaseURL string            `json:"base_url"`
	Models  []string          `json:"models,omitempty"`
	Auth    AuthStyle         `json:"auth,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	WireAPI string            `json:"wire_api,omitempty"`
	EnvKey  string            `json:"env_key,omitempty"`
}

// builtins returns the built-in provider presets.
func builtins() []Preset {
	return []Preset{
		{
			ID:      "anthropic",
			Name:    "Anthropic",
			BaseURL: "https://api.anthropic.com",
			Models:  []string{"claude-sonnet-4-20250514", "claude-opus-4-20250514", "claude-3-5-haiku-20241022"},
			Auth:    AuthAPIKeyHeader,
			WireAPI: WireChat,
			EnvKey:  "ANTHROPIC_API_KEY",
		},
		{
			ID:      "openai",
			Name:    "OpenAI",
			BaseURL: "https://api.openai.com/v1",
			Models:  []string{"gpt-4o", "gpt-4o-mini", "o3-mini"},
			Auth:    AuthBearerToken,
			WireAPI: WireResponses,
			EnvKey:  "OPENAI_API_KEY",
		},
		{
			ID:      "deepseek",
			Name:    "DeepSeek",
			BaseURL: "https://api.deepseek.com",
			Models:  []string{"deepseek-chat", "deepseek-reasoner"},
			Auth:    AuthBearerToken,
			WireAPI: WireChat,
			EnvKey:  "DEEPSEEK_API_KEY",
		},
		{
			ID:      "kimi",
			Name:    "Moonshot Kimi",
			BaseURL: "https://api.moonshot.cn/v1",
			Models:  []string{"kimi-k2-0711-preview", "moonshot-v1-128k"},
			Auth:    AuthBearerToken,
			WireAPI: WireChat,
			EnvKey:  "MOONSHOT_API_KEY",
		},
		{
			ID:      "glm",
			Name:    "Zhipu GLM",
			BaseURL: "https://open.bigmodel.cn/api/paas/v4",
			Models:  []string{"glm-4.5", "glm-4.5-air"},
			Auth:    AuthBearerToken,
			WireAPI: WireChat,
			EnvKey:  "ZHIPU_API_KEY",
		},
		{
			ID:      "qwen",
			Name:    "Alibaba Qwen",
			BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
			Models:  []string{"qwen3-coder-plus", "qwen-max"},
			Auth:    AuthBearerToken,
			WireAPI: WireChat,
			EnvKey:  "DASHSCOPE_API_KEY",
		},
		{
			ID:      "openrouter",
			Name:    "OpenRouter",
			BaseURL: "https://openrouter.ai/api/v1",
			Auth:    AuthBearerToken,
			WireAPI: WireChat,
			EnvKey:  "OPENROUTER_API_KEY",
		},
		{
			ID:      "ollama",
			Name:    "Ollama",
			BaseURL: "http://localhost:11434/v1",
			Auth:    AuthNone,
			WireAPI: WireChat,
		},
	}
}
