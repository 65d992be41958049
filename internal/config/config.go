package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"shitsetl/internal/logger"
)

type Config struct {
	Fill FillConfig `toml:"fill"`
	Scan ScanConfig `toml:"scan"`
	UI   UIConfig   `toml:"ui"`
	AI   AIConfig   `toml:"ai"`
}

type FillConfig struct {
	TemplateFile string `toml:"template_file"`
	TargetSheet  string `toml:"target_sheet"`
	StartRow     int    `toml:"start_row"`
	School       string `toml:"school"`
	Year         string `toml:"year"`
	SideOutput   string `toml:"side_output"`
}

type ScanConfig struct {
	InputDirectory  string `toml:"input_directory"`
	OutputDirectory string `toml:"output_directory"`
}

type UIConfig struct {
	ColumnsPerRow int `toml:"columns_per_row"`
	RowsPerPage   int `toml:"rows_per_page"`
}

type AIConfig struct {
	Model string `toml:"model"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Fill: FillConfig{
			TemplateFile: "configs/target.xlsx",
			StartRow:     4,
			School:       "示例小学",
			Year:         "2025",
			SideOutput:   "version_grade_book.xlsx",
		},
		Scan: ScanConfig{
			InputDirectory:  "data/input",
			OutputDirectory: "data/output",
		},
		UI: UIConfig{
			ColumnsPerRow: 6,
			RowsPerPage:   2,
		},
		AI: AIConfig{
			Model: "gemini-2.0-flash-exp",
		},
	}
}

// LoadConfig loads configuration from the specified config file path,
// creating a default config file when none exists.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %v", err)
		}

		defaultConfig := DefaultConfig()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %v", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %v", configPath, err)
	}

	// Backfill missing values with defaults
	def := DefaultConfig()
	if config.Fill.TemplateFile == "" {
		config.Fill.TemplateFile = def.Fill.TemplateFile
	}
	if config.Fill.StartRow == 0 {
		config.Fill.StartRow = def.Fill.StartRow
	}
	if config.Fill.SideOutput == "" {
		config.Fill.SideOutput = def.Fill.SideOutput
	}
	if config.Scan.InputDirectory == "" {
		config.Scan.InputDirectory = def.Scan.InputDirectory
	}
	if config.Scan.OutputDirectory == "" {
		config.Scan.OutputDirectory = def.Scan.OutputDirectory
	}
	if config.UI.ColumnsPerRow == 0 {
		config.UI.ColumnsPerRow = def.UI.ColumnsPerRow
	}
	if config.UI.RowsPerPage == 0 {
		config.UI.RowsPerPage = def.UI.RowsPerPage
	}
	if config.AI.Model == "" {
		config.AI.Model = def.AI.Model
	}

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %v", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
