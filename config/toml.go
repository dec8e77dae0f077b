package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// TOMLConfigFileName is the hand-edited config file inside the config dir.
const TOMLConfigFileName = "config.toml"

// TOMLConfig mirrors the hand-edited config file. Every field it sets
// overlays the JSON config on load. Booleans are pointers so that an
// absent key and an explicit false stay distinguishable.
type TOMLConfig struct {
	Folder                     string       `toml:"folder,omitempty"`
	SpoolFile                  string       `toml:"spool_file,omitempty"`
	Mask                       string       `toml:"mask,omitempty"`
	SortBrowser                string       `toml:"sort_browser,omitempty"`
	FolderFormat               string       `toml:"folder_format,omitempty"`
	DateFormat                 string       `toml:"date_format,omitempty"`
	BrowserAbbreviateMailboxes *bool        `toml:"browser_abbreviate_mailboxes,omitempty"`
	ImapListSubscribed         *bool        `toml:"imap_list_subscribed,omitempty"`
	TelemetryEnabled           *bool        `toml:"telemetry_enabled,omitempty"`
	Mailboxes                  []MailboxDef `toml:"mailboxes,omitempty"`
}

// GetTOMLConfigPath returns the full path of the TOML config file.
func GetTOMLConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TOMLConfigFileName), nil
}

// LoadTOMLConfig loads the TOML config from its default location. A
// missing file is not an error and returns nil.
func LoadTOMLConfig() (*TOMLConfig, error) {
	path, err := GetTOMLConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadTOMLConfigFrom(path)
}

// LoadTOMLConfigFrom loads the TOML config from an explicit path.
func LoadTOMLConfigFrom(path string) (*TOMLConfig, error) {
	var tc TOMLConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &tc, nil
}

// SaveTOMLConfig writes the TOML config to its default location.
func SaveTOMLConfig(tc *TOMLConfig) error {
	path, err := GetTOMLConfigPath()
	if err != nil {
		return err
	}
	return SaveTOMLConfigTo(tc, path)
}

// SaveTOMLConfigTo writes the TOML config to an explicit path.
func SaveTOMLConfigTo(tc *TOMLConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(tc)
}
