// Package appconfig manages loading and interpreting application
// configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/ragmark/internal/chunker"
	"github.com/mwiater/ragmark/internal/embed"
	"github.com/mwiater/ragmark/internal/scorer"
)

const (
	// DefaultConfigPath is the default path to the application's
	// configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for embedding requests.
	defaultRequestTimeout = 600 * time.Second
	// defaultResultsDir receives run reports when the config omits a path.
	defaultResultsDir = "ragmarkData/runs"
	// defaultTopK bounds retrieval depth when the config omits it.
	defaultTopK = 10
	// defaultWorkers bounds concurrent query evaluation.
	defaultWorkers = 4
)

// Config represents the top-level application configuration.
type Config struct {
	Providers         []embed.ProviderConfig `json:"providers"`
	EmbeddingProvider string                 `json:"embeddingProvider"`
	CorpusPath        string                 `json:"corpusPath"`
	IndexPath         string                 `json:"indexPath"`
	SuitePath         string                 `json:"suitePath"`
	ResultsDir        string                 `json:"resultsDir,omitempty"`
	AllowedExtensions []string               `json:"allowedExtensions,omitempty"`
	ExcludeGlobs      []string               `json:"excludeGlobs,omitempty"`
	Chunking          chunker.Options        `json:"chunking"`
	TopK              int                    `json:"topK,omitempty"`
	RecallCutoffs     []int                  `json:"recallCutoffs,omitempty"`
	PrecisionCutoffs  []int                  `json:"precisionCutoffs,omitempty"`
	Workers           int                    `json:"workers,omitempty"`
	TimeoutSeconds    int                    `json:"timeout,omitempty"`
	LogFile           string                 `json:"logFile,omitempty"`
	Debug             bool                   `json:"debug"`
	ConfigPath        string                 `json:"-"`
}

// RequestTimeout returns the timeout for embedding requests, falling back to
// the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a
// default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "ragmark.log"
}

// ResultsDirPath returns the directory run reports are written to.
func (c Config) ResultsDirPath() string {
	if dir := strings.TrimSpace(c.ResultsDir); dir != "" {
		return dir
	}
	return defaultResultsDir
}

// TopKLimit returns the retrieval depth for evaluation and previews.
func (c Config) TopKLimit() int {
	if c.TopK <= 0 {
		return defaultTopK
	}
	return c.TopK
}

// WorkerCount returns the number of concurrent evaluation workers.
func (c Config) WorkerCount() int {
	if c.Workers <= 0 {
		return defaultWorkers
	}
	return c.Workers
}

// Cutoffs returns the recall/precision cutoff sets, falling back to the
// canonical defaults when the config omits them.
func (c Config) Cutoffs() scorer.Cutoffs {
	cutoffs := scorer.DefaultCutoffs()
	if len(c.RecallCutoffs) > 0 {
		cutoffs.Recall = c.RecallCutoffs
	}
	if len(c.PrecisionCutoffs) > 0 {
		cutoffs.Precision = c.PrecisionCutoffs
	}
	return cutoffs
}

// Provider returns the configured embedding provider selected by
// embeddingProvider.
func (c Config) Provider() (embed.ProviderConfig, error) {
	name := strings.TrimSpace(c.EmbeddingProvider)
	if name == "" {
		return embed.ProviderConfig{}, errors.New("embeddingProvider is required")
	}
	for _, provider := range c.Providers {
		if provider.Name == name {
			return provider, nil
		}
	}
	return embed.ProviderConfig{}, fmt.Errorf("embeddingProvider %q not found in config providers", name)
}

// Load reads the application configuration from the specified path and
// validates it. Validation runs at startup so a bad provider name or an
// inverted chunking budget fails before any work begins.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}
	config.ConfigPath = path
	return config, nil
}

func (c Config) validate() error {
	if len(c.Providers) == 0 {
		return errors.New("config must contain at least one embedding provider")
	}
	seen := make(map[string]struct{}, len(c.Providers))
	for _, provider := range c.Providers {
		switch provider.Name {
		case embed.ProviderOllama, embed.ProviderOpenAI:
		default:
			return fmt.Errorf("unknown embedding provider %q in config", provider.Name)
		}
		if _, dup := seen[provider.Name]; dup {
			return fmt.Errorf("duplicate embedding provider %q in config", provider.Name)
		}
		seen[provider.Name] = struct{}{}
	}
	if _, err := c.Provider(); err != nil {
		return err
	}
	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}
	for _, k := range append(append([]int{}, c.RecallCutoffs...), c.PrecisionCutoffs...) {
		if k <= 0 {
			return fmt.Errorf("metric cutoffs must be positive, got %d", k)
		}
	}
	return nil
}

func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	if config.Chunking == (chunker.Options{}) {
		config.Chunking = chunker.DefaultOptions()
	}
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = []string{".txt", ".md", ".markdown", ".pdf"}
	}

	return config, nil
}
