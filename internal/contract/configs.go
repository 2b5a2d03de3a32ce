package contract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/steptrack/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	MaxPrecision     = 2
	MaxLineOffset    = 0.2
)

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	VaultPath  string
	PatientID  string
	SessionID  string
	NameFilter string

	ScriptFile string // YAML edit script applied by "session edit"
	Save       bool   // Save after applying the edit script
	FromDraft  bool   // Restore the stored draft before applying the edit script

	LineOffset float64
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Autosave   bool

	DraftBackend   schema.DatabaseBackend
	DraftDBConnect string // Please use env var as this is plaintext

	JournalBackend   schema.DatabaseBackend
	JournalDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Vault            string  `mapstructure:"vault"`
	LineOffset       float64 `mapstructure:"line-offset"`
	Precision        int     `mapstructure:"precision"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Color            string  `mapstructure:"color"`
	Autosave         string  `mapstructure:"autosave"`
	DraftBackend     string  `mapstructure:"draft-backend"`
	DraftDBConnect   string  `mapstructure:"draft-db-connect"`
	JournalBackend   string  `mapstructure:"journal-backend"`
	JournalDBConnect string  `mapstructure:"journal-db-connect"`

	// --- Fields from session and patient command flags ---
	Patient   string `mapstructure:"patient"`
	Session   string `mapstructure:"session"`
	Name      string `mapstructure:"name"`
	Script    string `mapstructure:"script"`
	Save      bool   `mapstructure:"save"`
	FromDraft bool   `mapstructure:"from-draft"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SessionRef returns the session reference addressed by the config.
func (c *Config) SessionRef() schema.SessionRef {
	return schema.SessionRef{VaultPath: c.VaultPath, PatientID: c.PatientID, SessionID: c.SessionID}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := resolveVaultPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	default:
		return fmt.Errorf("unsupported backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	return nil
}

// ParseBackend lower-cases and checks a backend name. An empty name disables the store.
func ParseBackend(name string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(name)))
	if backend == "" {
		return "", nil
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	return backend, nil
}

// validateBackendConfigs validates draft and journal backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	var err error

	cfg.DraftBackend, err = ParseBackend(input.DraftBackend)
	if err != nil {
		return fmt.Errorf("draft store: %w", err)
	}
	cfg.DraftDBConnect = input.DraftDBConnect
	if cfg.DraftBackend != "" {
		if err := ValidateDatabaseConnectionString(cfg.DraftBackend, cfg.DraftDBConnect); err != nil {
			return fmt.Errorf("draft store: %w", err)
		}
	}

	cfg.JournalBackend, err = ParseBackend(input.JournalBackend)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	cfg.JournalDBConnect = input.JournalDBConnect
	if cfg.JournalBackend != "" {
		if err := ValidateDatabaseConnectionString(cfg.JournalBackend, cfg.JournalDBConnect); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}

	// Drafts and revisions must not share a SQLite file
	if cfg.DraftBackend == schema.SQLiteBackend && cfg.JournalBackend == schema.SQLiteBackend {
		draftPath := cfg.DraftDBConnect
		if draftPath == "" {
			draftPath = GetDraftDBFilePath()
		}
		journalPath := cfg.JournalDBConnect
		if journalPath == "" {
			journalPath = GetJournalDBFilePath()
		}
		if draftPath == journalPath {
			return fmt.Errorf("draft and journal storage must use different SQLite database files. Both resolve to %q", draftPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.PatientID = strings.TrimSpace(input.Patient)
	cfg.SessionID = strings.TrimSpace(input.Session)
	cfg.NameFilter = input.Name
	cfg.ScriptFile = strings.TrimSpace(input.Script)
	cfg.Save = input.Save
	cfg.FromDraft = input.FromDraft

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	autosave, err := ParseBoolString(input.Autosave)
	if err != nil {
		return fmt.Errorf("invalid --autosave value: %w", err)
	}
	cfg.Autosave = autosave

	if input.LineOffset < 0 || input.LineOffset > MaxLineOffset {
		return fmt.Errorf("line-offset must be between 0 and %.2f (received %.3f)", MaxLineOffset, input.LineOffset)
	}
	cfg.LineOffset = input.LineOffset

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}

	return nil
}

// resolveVaultPath makes the vault path absolute so draft keys stay stable across working directories.
func resolveVaultPath(cfg *Config, input *ConfigRawInput) error {
	raw := strings.TrimSpace(input.Vault)
	if raw == "" {
		raw = "."
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return fmt.Errorf("cannot resolve vault path %q: %w", raw, err)
	}
	cfg.VaultPath = abs
	return nil
}
