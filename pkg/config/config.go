package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the analyzer
type Config struct {
	OutputDir string
	Language  string
	TopN      int

	AnnotatorBackend string
	ScorerBackend    string

	PythonBin  string
	SpacyModel string
	ScriptDir  string
	MaxLength  int

	LLMBaseURL        string
	LLMAPIKey         string
	LLMModel          string
	LLMTemperature    float64
	LLMMaxInputTokens int
	LLMRequestsPerMin int

	StopwordsFile string
	MetricsFile   string
	OpenReport    bool
	LogLevel      string
}

// Load reads envFile when present, then the DOCINSIGHT_* environment.
// The returned bool reports whether envFile was loaded.
func Load(envFile string) (*Config, bool) {
	loaded := false
	if envFile != "" {
		loaded = godotenv.Load(envFile) == nil
	}

	return &Config{
		OutputDir: getEnv("DOCINSIGHT_OUTPUT_DIR", "output"),
		Language:  getEnv("DOCINSIGHT_LANGUAGE", "pt"),
		TopN:      getEnvInt("DOCINSIGHT_TOP_N", 10),

		AnnotatorBackend: strings.ToLower(getEnv("DOCINSIGHT_ANNOTATOR", "spacy")),
		ScorerBackend:    strings.ToLower(getEnv("DOCINSIGHT_SCORER", "vader")),

		PythonBin:  getEnv("DOCINSIGHT_PYTHON", "python3"),
		SpacyModel: getEnv("DOCINSIGHT_SPACY_MODEL", "pt_core_news_sm"),
		ScriptDir:  getEnv("DOCINSIGHT_SCRIPT_DIR", ""),
		MaxLength:  getEnvInt("DOCINSIGHT_SPACY_MAX_LENGTH", 1000000),

		LLMBaseURL:        getEnv("DOCINSIGHT_LLM_BASE_URL", ""),
		LLMAPIKey:         getEnv("DOCINSIGHT_LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
		LLMModel:          getEnv("DOCINSIGHT_LLM_MODEL", "gpt-4o-mini"),
		LLMTemperature:    getEnvFloat("DOCINSIGHT_LLM_TEMPERATURE", 0),
		LLMMaxInputTokens: getEnvInt("DOCINSIGHT_LLM_MAX_INPUT_TOKENS", 0),
		LLMRequestsPerMin: getEnvInt("DOCINSIGHT_LLM_RPM", 0),

		StopwordsFile: getEnv("DOCINSIGHT_STOPWORDS_FILE", ""),
		MetricsFile:   getEnv("DOCINSIGHT_METRICS_FILE", ""),
		OpenReport:    getEnvBool("DOCINSIGHT_OPEN_REPORT", true),
		LogLevel:      getEnv("DOCINSIGHT_LOG_LEVEL", "info"),
	}, loaded
}

// NeedsLLM reports whether any configured backend calls the chat endpoint
func (c *Config) NeedsLLM() bool {
	return c.AnnotatorBackend == "llm" || c.ScorerBackend == "llm"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return defaultValue
}
