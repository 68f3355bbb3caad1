// Package config loads server and conversion settings from a YAML or JSON
// file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"

	"github.com/rgonek/telegraph-extract/converter"
	"github.com/rgonek/telegraph-extract/telegraph"
)

const (
	DefaultServerName = "My-MCP"
	DefaultListen     = ":8080"
	DefaultUserAgent  = "telegraph-extract/1.0"
)

// DefaultInstructions describes the tool surface to connecting clients.
const DefaultInstructions = `You are connected to the MCP Telegraph Server.

This server provides modular tools for extracting and processing content from the web, starting with a Telegraph content extractor. You can use these tools to fetch and analyze content for downstream applications, such as chatbots or LLM agents.

Available tools:

1. extract_telegraph
   - Description: Extracts the main text, image URLs, and video URLs from a given Telegraph article URL.
   - Input: {"url": "https://telegra.ph/Example-Article"}
   - Output: {"text_content": "...", "image_urls": ["..."], "video_urls": ["..."]}
   - Purpose: Use this tool to fetch and analyze the content of any public Telegraph article, including its text and media.

2. greet
   - Description: Returns a friendly greeting for the provided name. (Demo tool)
   - Input: {"name": "Alice"}
   - Output: "Hello, Alice!"
   - Purpose: Use this tool to test connectivity or for demonstration purposes.

3. health
   - Description: Returns 'OK' if the server is running.
   - Input: None
   - Output: "OK"
   - Purpose: Use this tool to check if the server is operational.
`

// Config is the complete runtime configuration.
type Config struct {
	ServerName   string `yaml:"serverName" json:"serverName"`
	Instructions string `yaml:"instructions" json:"instructions"`
	Listen       string `yaml:"listen" json:"listen"`
	Verbose      bool   `yaml:"verbose" json:"verbose"`

	Telegraph struct {
		APIBase   string        `yaml:"apiBase" json:"apiBase"`
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"telegraph" json:"telegraph"`

	Conversion struct {
		DocumentOrigin    string `yaml:"documentOrigin" json:"documentOrigin"`
		YouTubeOrigin     string `yaml:"youTubeOrigin" json:"youTubeOrigin"`
		VimeoOrigin       string `yaml:"vimeoOrigin" json:"vimeoOrigin"`
		Numbering         string `yaml:"numbering" json:"numbering"`
		TextNormalization string `yaml:"textNormalization" json:"textNormalization"`
		MalformedNodes    string `yaml:"malformedNodes" json:"malformedNodes"`
	} `yaml:"conversion" json:"conversion"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins" json:"allowedOrigins"`
	} `yaml:"cors" json:"cors"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.ServerName = DefaultServerName
	cfg.Instructions = DefaultInstructions
	cfg.Listen = DefaultListen
	cfg.Telegraph.APIBase = telegraph.DefaultBaseURL
	cfg.Telegraph.UserAgent = DefaultUserAgent
	cfg.Telegraph.Timeout = telegraph.DefaultTimeout
	cfg.CORS.AllowedOrigins = []string{"*"}
	return cfg
}

// LoadFile reads path over the defaults. The format follows the extension;
// unknown extensions are tried as YAML and then JSON.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			if jerr := json.Unmarshal(b, &cfg); jerr != nil {
				return cfg, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}

	return cfg, nil
}

// ApplyEnv overlays supported environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SERVER_NAME"); ok && v != "" {
		c.ServerName = v
	}
	if v, ok := lookup("TGX_LISTEN"); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup("TELEGRAPH_API_BASE"); ok && v != "" {
		c.Telegraph.APIBase = v
	}
	if v, ok := lookup("TELEGRAPH_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAPH_TIMEOUT %q: %w", v, err)
		}
		c.Telegraph.Timeout = d
	}
	if v, ok := lookup("TGX_VERBOSE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TGX_VERBOSE %q: %w", v, err)
		}
		c.Verbose = b
	}
	return nil
}

// Validate checks the configuration, including the conversion options.
func (c Config) Validate() error {
	err := validation.Errors{
		"serverName":        validation.Validate(c.ServerName, validation.By(notBlank)),
		"listen":            validation.Validate(c.Listen, validation.By(notBlank)),
		"telegraph.apiBase": validation.Validate(c.Telegraph.APIBase, validation.Required, validation.By(absoluteHTTPURL)),
		"telegraph.timeout": validation.Validate(c.Telegraph.Timeout, validation.Min(time.Duration(0))),
	}.Filter()
	if err != nil {
		return err
	}

	return c.ConverterConfig().Validate()
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("config_blank", "must not be blank")
	}
	return nil
}

func absoluteHTTPURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("config_url", "must be an absolute http(s) URL")
	}
	return nil
}

// ConverterConfig maps the conversion section onto converter.Config with
// converter defaults filled in.
func (c Config) ConverterConfig() converter.Config {
	return converter.Config{
		DocumentOrigin:       c.Conversion.DocumentOrigin,
		YouTubeOrigin:        c.Conversion.YouTubeOrigin,
		VimeoOrigin:          c.Conversion.VimeoOrigin,
		PlaceholderNumbering: converter.PlaceholderNumbering(c.Conversion.Numbering),
		TextNormalization:    converter.TextNormalization(c.Conversion.TextNormalization),
		MalformedNodes:       converter.UnknownPolicy(c.Conversion.MalformedNodes),
	}.WithDefaults()
}

// TelegraphClient builds an API client from the telegraph section.
func (c Config) TelegraphClient(logger zerolog.Logger) *telegraph.Client {
	return &telegraph.Client{
		BaseURL:   c.Telegraph.APIBase,
		UserAgent: c.Telegraph.UserAgent,
		Timeout:   c.Telegraph.Timeout,
		Logger:    logger,
	}
}
