// Package mapping resolves arbitrary source workbook headers onto the
// canonical order fields, either interactively or with AI suggestions.
package mapping

import (
	"encoding/json"
	"os"
)

// Canonical order fields a source column can be mapped to.
const (
	FieldTitle      = "书名"
	FieldEdition    = "版别"
	FieldPrice      = "单价"
	FieldPaidCopies = "非免费订数"
	FieldFreeCopies = "免费订数"
)

// Fields returns the canonical fields in display order.
func Fields() []string {
	return []string{
		FieldTitle,
		FieldEdition,
		FieldPrice,
		FieldPaidCopies,
		FieldFreeCopies,
	}
}

// ColumnMapping maps one source header onto a canonical field.
type ColumnMapping struct {
	SourceColumn string `json:"source_column"`
	Field        string `json:"field"`
	IsIgnored    bool   `json:"is_ignored"`
}

// Config holds all column mappings for a source layout.
type Config struct {
	Mappings []ColumnMapping `json:"mappings"`
}

// FieldFor returns the canonical field a source header is mapped to.
// Ignored and unmapped headers report ok == false.
func (c *Config) FieldFor(header string) (field string, ok bool) {
	for _, m := range c.Mappings {
		if m.SourceColumn == header && !m.IsIgnored && m.Field != "" {
			return m.Field, true
		}
	}
	return "", false
}

// SourceFor returns the source header mapped to a canonical field.
func (c *Config) SourceFor(field string) (header string, ok bool) {
	for _, m := range c.Mappings {
		if m.Field == field && !m.IsIgnored {
			return m.SourceColumn, true
		}
	}
	return "", false
}

// Merge adds mappings from other for source headers this config does
// not cover yet.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	seen := make(map[string]bool)
	for _, m := range c.Mappings {
		seen[m.SourceColumn] = true
	}
	for _, m := range other.Mappings {
		if !seen[m.SourceColumn] {
			c.Mappings = append(c.Mappings, m)
		}
	}
}

// SaveToFile saves the mapping configuration to a JSON file
func (c *Config) SaveToFile(filepath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadFromFile loads mapping configuration from a JSON file
func LoadFromFile(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}
