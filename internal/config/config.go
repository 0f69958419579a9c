package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-doc-analyzer/internal/report"
)

const (
	// Mode constants
	ModeStdio   = "stdio"
	ModeServer  = "server"
	ModeAnalyze = "analyze"

	// Default values
	DefaultPort          = 8080
	DefaultHost          = "127.0.0.1"
	DefaultLogLevel      = "info"
	DefaultMaxFileSize   = 50 * 1024 * 1024 // 50MB
	DefaultMaxTextLength = 100000
	DefaultWorkers       = 4

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix is prepended to every environment variable
	EnvPrefix = "DOC_ANALYZER"
)

// ErrVersionRequested is returned by Load when --version was passed
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the document analyzer
type Config struct {
	// Server configuration
	Mode string // "stdio", "server" or "analyze"
	Host string
	Port int

	// Document configuration
	Directory     string
	MaxFileSize   int64 // Maximum document size in bytes
	MaxTextLength int   // Runes analysed per document, 0 for no limit

	// Analysis configuration
	KnowledgeBase string // Optional YAML knowledge base replacing the built-in one
	Lexicon       string // Optional YAML lexicon for the NLP engine
	History       string // SQLite path or postgres:// DSN, empty disables history

	// Batch output
	Workers int
	Format  string
	NoColor bool
	Inputs  []string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	ConfigFile string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio,
		Host:          DefaultHost,
		Port:          DefaultPort,
		Directory:     currentDir,
		MaxFileSize:   DefaultMaxFileSize,
		MaxTextLength: DefaultMaxTextLength,
		Workers:       DefaultWorkers,
		Format:        report.FormatJSON,
		Version:       "1.0.0",
		ServerName:    "mcp-doc-analyzer",
		LogLevel:      DefaultLogLevel,
	}
}

// LoadFromFlags parses the process command line and environment
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a configuration from args, DOC_ANALYZER_* environment
// variables and an optional --config file, in decreasing precedence.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return nil, ErrVersionRequested
		}
	}

	v := viper.New()
	setupViperEnvironment(v, cfg)

	flags := pflag.NewFlagSet("mcp-doc-analyzer", pflag.ContinueOnError)
	defineCommandLineFlags(flags, cfg)
	flags.Usage = usage(flags)

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		cfg.ConfigFile = file
	}

	populateConfigFromViper(v, cfg)
	cfg.Inputs = flags.Args()

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.Directory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("maxtextlength", cfg.MaxTextLength)
	v.SetDefault("knowledgebase", "")
	v.SetDefault("lexicon", "")
	v.SetDefault("history", "")
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("nocolor", false)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("config", "", "Optional YAML configuration file")
	flags.String("mode", cfg.Mode, "Run mode: 'stdio' for MCP, 'server' for HTTP, 'analyze' for one-shot CLI analysis")
	flags.String("host", cfg.Host, "Server host address (server mode only)")
	flags.Int("port", cfg.Port, "Server port (server mode only)")
	flags.String("dir", cfg.Directory, "Directory documents are read from")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum document size in bytes")
	flags.Int("maxtextlength", cfg.MaxTextLength, "Maximum characters analysed per document (0 = unlimited)")
	flags.String("knowledgebase", "", "YAML knowledge base replacing the built-in document types")
	flags.String("lexicon", "", "YAML lexicon replacing the built-in NLP word lists")
	flags.String("history", "", "Analysis history: SQLite path or postgres:// DSN (empty disables)")
	flags.Int("workers", cfg.Workers, "Concurrent analyses in analyze mode")
	flags.String("format", cfg.Format, "Output format in analyze mode: "+strings.Join(report.Formats(), ", "))
	flags.Bool("nocolor", false, "Disable coloured text output")
}

func usage(flags *pflag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Document Analyzer - classifies corporate documents and scores their risk\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                      # MCP stdio mode (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --history=history.db   # HTTP API with history\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=analyze --format=text a.pdf - # analyse files and stdin\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s_<OPTION> sets any option, e.g. %s_MODE, %s_HISTORY\n", EnvPrefix, EnvPrefix, EnvPrefix)
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.Directory = v.GetString("dir")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.MaxTextLength = v.GetInt("maxtextlength")
	cfg.KnowledgeBase = v.GetString("knowledgebase")
	cfg.Lexicon = v.GetString("lexicon")
	cfg.History = v.GetString("history")
	cfg.Workers = v.GetInt("workers")
	cfg.Format = v.GetString("format")
	cfg.NoColor = v.GetBool("nocolor")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer && c.Mode != ModeAnalyze {
		return errors.New("mode must be one of 'stdio', 'server' or 'analyze'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Directory == "" {
		return errors.New("document directory cannot be empty")
	}

	// Create the document directory when it doesn't exist
	if _, err := os.Stat(c.Directory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.Directory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create document directory %s: %w", c.Directory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.Directory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.MaxTextLength < 0 {
		return errors.New("maximum text length cannot be negative")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if !report.IsFormat(c.Format) {
		return fmt.Errorf("invalid format: %s (must be one of: %s)", c.Format, strings.Join(report.Formats(), ", "))
	}

	for name, path := range map[string]string{"knowledge base": c.KnowledgeBase, "lexicon": c.Lexicon} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot access %s file %s: %w", name, path, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// HistoryEnabled reports whether analyses are recorded
func (c *Config) HistoryEnabled() bool {
	return c.History != ""
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Directory: %s, LogLevel: %s, MaxFileSize: %d, MaxTextLength: %d, History: %t}",
		c.Mode, c.Host, c.Port, c.Directory, c.LogLevel, c.MaxFileSize, c.MaxTextLength, c.HistoryEnabled())
}

// IsServerMode returns true if running the HTTP API
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if running as an MCP stdio server
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsAnalyzeMode returns true for one-shot CLI analysis
func (c *Config) IsAnalyzeMode() bool {
	return c.Mode == ModeAnalyze
}
