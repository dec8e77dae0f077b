package config

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmllorens/cartero/log"
)

const (
	ConfigFileName = "config.json"

	defaultMask         = `!^\.[^.]`
	defaultSortBrowser  = "alpha"
	defaultFolderFormat = "%2C %t %N %F %2l %-8.8u %-8.8g %8s %d %i"
	defaultDateFormat   = "!%a, %b %d, %Y at %I:%M:%S%p %Z"
)

// GetConfigDir returns the path to the application's configuration directory.
// Uses XDG-compliant ~/.config/cartero/. On first run, migrates a legacy
// ~/.cartero directory over.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	newDir := filepath.Join(homeDir, ".config", "cartero")

	// Already exists — fast path
	if _, err := os.Stat(newDir); err == nil {
		return newDir, nil
	}

	legacyDir := filepath.Join(homeDir, ".cartero")
	if _, err := os.Stat(legacyDir); err == nil {
		if mkErr := os.MkdirAll(filepath.Dir(newDir), 0755); mkErr != nil {
			log.ErrorLog.Printf("failed to create %s: %v", filepath.Dir(newDir), mkErr)
			return legacyDir, nil
		}
		if renameErr := os.Rename(legacyDir, newDir); renameErr != nil {
			log.ErrorLog.Printf("failed to migrate %s to %s: %v", legacyDir, newDir, renameErr)
			return legacyDir, nil
		}
	}

	return newDir, nil
}

// Config represents the application configuration. The JSON file is
// written by the program itself; the TOML file overlays it on load and
// stays the authority for the hand-edited settings.
type Config struct {
	// Folder is the mail root. The '=' and '+' path shorthands expand
	// against it.
	Folder string `json:"folder"`
	// SpoolFile is where new mail lands. Empty means probe $MAIL and
	// /var/mail at startup.
	SpoolFile string `json:"spool_file"`
	// Mask filters directory listings by name. A leading '!' negates it.
	Mask string `json:"mask"`
	// SortBrowser orders listings, e.g. "alpha" or "reverse-date".
	SortBrowser string `json:"sort_browser"`
	// FolderFormat is the expando template for one listing row.
	FolderFormat string `json:"folder_format"`
	// DateFormat is the strftime layout behind the %D expando. A leading
	// '!' is accepted and stripped before rendering.
	DateFormat string `json:"date_format"`
	// BrowserAbbreviateMailboxes shortens mailbox paths with '=' and '~'
	// in the mailbox list. Defaults to true when not set.
	BrowserAbbreviateMailboxes *bool `json:"browser_abbreviate_mailboxes,omitempty"`
	// ImapListSubscribed restricts remote listings to subscribed folders.
	ImapListSubscribed bool `json:"imap_list_subscribed"`
	// Mailboxes declares the watched mailboxes shown by the mailbox list.
	Mailboxes []MailboxDef `json:"mailboxes,omitempty"`
	// TelemetryEnabled controls whether crash reporting via Sentry is active.
	// Defaults to true when not set.
	TelemetryEnabled *bool `json:"telemetry_enabled,omitempty"`
}

// MailboxDef declares one watched mailbox.
type MailboxDef struct {
	Path string `json:"path"           toml:"path"`
	Name string `json:"name,omitempty" toml:"name,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get home directory: %v", err)
	}

	trueVal := true
	return &Config{
		Folder:                     filepath.Join(homeDir, "Mail"),
		SpoolFile:                  DefaultSpool(),
		Mask:                       defaultMask,
		SortBrowser:                defaultSortBrowser,
		FolderFormat:               defaultFolderFormat,
		DateFormat:                 defaultDateFormat,
		BrowserAbbreviateMailboxes: &trueVal,
	}
}

// DefaultSpool probes the conventional spool locations: $MAIL first,
// then /var/mail/<user>.
func DefaultSpool() string {
	if m := os.Getenv("MAIL"); m != "" {
		return m
	}
	u, err := user.Current()
	if err != nil || u == nil || u.Username == "" {
		log.ErrorLog.Printf("failed to get current user: %v", err)
		return ""
	}
	return "/var/mail/" + u.Username
}

// AreMailboxesAbbreviated returns whether mailbox paths are shortened in
// the mailbox list. Defaults to true when the field is not set.
func (c *Config) AreMailboxesAbbreviated() bool {
	if c.BrowserAbbreviateMailboxes == nil {
		return true
	}
	return *c.BrowserAbbreviateMailboxes
}

// IsTelemetryEnabled returns whether Sentry telemetry is enabled.
// Defaults to true when the field is not set.
func (c *Config) IsTelemetryEnabled() bool {
	if c.TelemetryEnabled == nil {
		return true
	}
	return *c.TelemetryEnabled
}

var sortBrowserValues = map[string]bool{
	"alpha":    true,
	"count":    true,
	"date":     true,
	"desc":     true,
	"new":      true,
	"size":     true,
	"unread":   true,
	"unsorted": true,
}

// Set assigns a named variable from its string form, validating values
// that have structure. The assignment is in-memory; SaveConfig persists
// it.
func (c *Config) Set(name, value string) error {
	switch name {
	case "mask":
		pat := strings.TrimPrefix(value, "!")
		if pat != "" {
			if _, err := regexp.Compile(pat); err != nil {
				return err
			}
		}
		c.Mask = value
	case "sort_browser":
		if !sortBrowserValues[strings.TrimPrefix(value, "reverse-")] {
			return fmt.Errorf("%s: invalid value for sort_browser", value)
		}
		c.SortBrowser = value
	case "folder":
		c.Folder = value
	case "spool_file":
		c.SpoolFile = value
	case "folder_format":
		c.FolderFormat = value
	case "date_format":
		c.DateFormat = value
	case "browser_abbreviate_mailboxes":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.BrowserAbbreviateMailboxes = &b
	case "imap_list_subscribed":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.ImapListSubscribed = b
	default:
		return fmt.Errorf("%s: unknown variable", name)
	}
	return nil
}

// parseBool accepts the mutt-style yes/no spellings on top of the
// usual true/false forms.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean", value)
	}
	return b, nil
}

func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create and save default config if file doesn't exist
			defaultCfg := DefaultConfig()
			if saveErr := saveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return applyTOMLOverlay(defaultCfg)
		}

		log.WarningLog.Printf("failed to get config file: %v", err)
		return DefaultConfig()
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}
	fillDefaults(&config)

	return applyTOMLOverlay(&config)
}

// fillDefaults backfills fields an older config file may not carry.
func fillDefaults(c *Config) {
	d := DefaultConfig()
	if c.Folder == "" {
		c.Folder = d.Folder
	}
	if c.SpoolFile == "" {
		c.SpoolFile = d.SpoolFile
	}
	if c.Mask == "" {
		c.Mask = d.Mask
	}
	if c.SortBrowser == "" {
		c.SortBrowser = d.SortBrowser
	}
	if c.FolderFormat == "" {
		c.FolderFormat = d.FolderFormat
	}
	if c.DateFormat == "" {
		c.DateFormat = d.DateFormat
	}
}

// applyTOMLOverlay merges the hand-edited TOML config over c. TOML is
// the authority for every field it sets.
func applyTOMLOverlay(c *Config) *Config {
	tc, err := LoadTOMLConfig()
	if err != nil {
		log.WarningLog.Printf("failed to load TOML config: %v", err)
		return c
	}
	if tc == nil {
		return c
	}
	if tc.Folder != "" {
		c.Folder = tc.Folder
	}
	if tc.SpoolFile != "" {
		c.SpoolFile = tc.SpoolFile
	}
	if tc.Mask != "" {
		c.Mask = tc.Mask
	}
	if tc.SortBrowser != "" {
		c.SortBrowser = tc.SortBrowser
	}
	if tc.FolderFormat != "" {
		c.FolderFormat = tc.FolderFormat
	}
	if tc.DateFormat != "" {
		c.DateFormat = tc.DateFormat
	}
	if tc.BrowserAbbreviateMailboxes != nil {
		c.BrowserAbbreviateMailboxes = tc.BrowserAbbreviateMailboxes
	}
	if tc.ImapListSubscribed != nil {
		c.ImapListSubscribed = *tc.ImapListSubscribed
	}
	if tc.TelemetryEnabled != nil {
		c.TelemetryEnabled = tc.TelemetryEnabled
	}
	if len(tc.Mailboxes) > 0 {
		c.Mailboxes = tc.Mailboxes
	}
	return c
}

// saveConfig saves the configuration to disk
func saveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveConfig exports the saveConfig function for use by other packages
func SaveConfig(config *Config) error {
	return saveConfig(config)
}
