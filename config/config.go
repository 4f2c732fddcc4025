package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/tunnelworks/materials-sheets/workbook"
)

// Config is the materials-sheets configuration, loaded from a TOML file.
type Config struct {
	Server ServerConfig `toml:"server"`
	Google GoogleConfig `toml:"google"`
	Sheet  SheetConfig  `toml:"sheet"`
	Export ExportConfig `toml:"export"`
}

type ServerConfig struct {
	Bind           string `toml:"bind"`
	MaxConnections int    `toml:"max_connections"`
	DevMode        bool   `toml:"dev_mode"`
}

type GoogleConfig struct {
	Credentials string `toml:"credentials"`
	Tokens      string `toml:"tokens"`
	Spreadsheet string `toml:"spreadsheet"`
}

// SheetConfig locates the title cells and the dropdown options in the
// spreadsheet.
type SheetConfig struct {
	TitleCells    []string `toml:"title_cells"`
	DropdownRange string   `toml:"dropdown_range"`
}

// ExportConfig sets the default workbook layout. An unset skip uses the
// default for the header layout.
type ExportConfig struct {
	Header string `toml:"header"`
	Skip   *int   `toml:"skip,omitempty"`
	TmpDir string `toml:"tmpdir"`
}

const ENV_PREFIX = "MATERIALS_SHEETS_"

// DefaultConfig returns the configuration used when there is no config file.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Bind:           "0.0.0.0:5000",
			MaxConnections: 32,
			DevMode:        false,
		},
		Google: GoogleConfig{
			Credentials: DEFAULT_CREDENTIALS,
			Tokens:      filepath.Join(DEFAULT_WORKDIR, ".google"),
			Spreadsheet: "",
		},
		Sheet: SheetConfig{
			TitleCells:    []string{workbook.DefaultTitleCells[0], workbook.DefaultTitleCells[1]},
			DropdownRange: "基础物流价格信息!A2:A10",
		},
		Export: ExportConfig{
			Header: "dual",
		},
	}
}

// Load reads the TOML config file, if it exists, over the defaults and then
// applies any MATERIALS_SHEETS_* overrides from the environment or from a .env
// file in the same directory as the config file. Process environment variables
// take precedence over the .env file.
func Load(file string) (*Config, error) {
	config := DefaultConfig()

	if file != "" {
		bytes, err := os.ReadFile(file)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		} else if err == nil {
			if err := toml.Unmarshal(bytes, config); err != nil {
				return nil, fmt.Errorf("invalid config file %v (%w)", file, err)
			}
		}
	}

	env := map[string]string{}
	if file != "" {
		dotenv := filepath.Join(filepath.Dir(file), ".env")
		if vars, err := godotenv.Read(dotenv); err == nil {
			env = vars
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("invalid .env file %v (%w)", dotenv, err)
		}
	}

	if err := config.override(env); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the settings that would otherwise only fail on first use.
func (c *Config) Validate() error {
	if len(c.Sheet.TitleCells) != 2 {
		return fmt.Errorf("invalid title_cells - expected 2 cells, got %v", len(c.Sheet.TitleCells))
	}

	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("invalid max_connections (%v)", c.Server.MaxConnections)
	}

	if _, err := c.Export.Options(); err != nil {
		return err
	}

	return nil
}

// Options translates the export settings into workbook layout options.
func (e ExportConfig) Options() (workbook.Options, error) {
	header, err := workbook.ParseVariant(e.Header)
	if err != nil {
		return workbook.Options{}, err
	}

	options := workbook.DefaultOptions(header)
	options.TmpDir = e.TmpDir

	if e.Skip != nil {
		if *e.Skip < 0 {
			return workbook.Options{}, fmt.Errorf("invalid export skip (%v)", *e.Skip)
		}

		options.Skip = *e.Skip
	}

	return options, nil
}

// Titles returns the title cell references.
func (s SheetConfig) Titles() [2]string {
	if len(s.TitleCells) != 2 {
		return workbook.DefaultTitleCells
	}

	return [2]string{s.TitleCells[0], s.TitleCells[1]}
}

func (c *Config) override(env map[string]string) error {
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(ENV_PREFIX + key); ok {
			return v, true
		}

		v, ok := env[ENV_PREFIX+key]
		return v, ok
	}

	fields := map[string]*string{
		"BIND":           &c.Server.Bind,
		"CREDENTIALS":    &c.Google.Credentials,
		"TOKENS":         &c.Google.Tokens,
		"SPREADSHEET":    &c.Google.Spreadsheet,
		"DROPDOWN_RANGE": &c.Sheet.DropdownRange,
		"HEADER":         &c.Export.Header,
		"TMPDIR":         &c.Export.TmpDir,
	}

	for k, p := range fields {
		if v, ok := lookup(k); ok {
			*p = v
		}
	}

	if v, ok := lookup("TITLE_CELLS"); ok {
		c.Sheet.TitleCells = split(v)
	}

	if v, ok := lookup("MAX_CONNECTIONS"); ok {
		N, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %vMAX_CONNECTIONS '%v' (%w)", ENV_PREFIX, v, err)
		}

		c.Server.MaxConnections = N
	}

	if v, ok := lookup("SKIP"); ok {
		N, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %vSKIP '%v' (%w)", ENV_PREFIX, v, err)
		}

		c.Export.Skip = &N
	}

	if v, ok := lookup("DEV_MODE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %vDEV_MODE '%v' (%w)", ENV_PREFIX, v, err)
		}

		c.Server.DevMode = b
	}

	return nil
}

func split(s string) []string {
	list := []string{}
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}

	return list
}
