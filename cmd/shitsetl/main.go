package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kingpin"

	"shitsetl/internal/books"
	"shitsetl/internal/config"
	"shitsetl/internal/logger"
	"shitsetl/internal/mapping"
	"shitsetl/internal/report"
	"shitsetl/internal/source"
)

var (
	cmdFill        = kingpin.Command("fill", "Fill the report template from a source workbook").Default()
	fillSource     = cmdFill.Flag("source", "Source workbook path").Default("source.xlsx").String()
	fillTemplate   = cmdFill.Flag("template", "Template workbook path").String()
	fillOutput     = cmdFill.Flag("output", "Output workbook path").Default("target_filled.xlsx").String()
	fillSideOutput = cmdFill.Flag("side-output", "Version/grade summary workbook path").String()
	fillSchool     = cmdFill.Flag("school", "School name written into the report").String()
	fillYear       = cmdFill.Flag("year", "Reporting period label, e.g. \"2018 年春\"").String()
	fillStartRow   = cmdFill.Flag("start-row", "Row where data copying begins").Int()

	cmdFillAll      = kingpin.Command("fill-all", "Fill the template for every workbook in the input directory")
	fillAllSchool   = cmdFillAll.Flag("school", "School name written into the reports").String()
	fillAllYear     = cmdFillAll.Flag("year", "Reporting period label").String()
	fillAllStartRow = cmdFillAll.Flag("start-row", "Row where data copying begins").Int()

	cmdInspect    = kingpin.Command("inspect", "Detect a source workbook layout and preview its orders")
	inspectSource = cmdInspect.Arg("source", "Source workbook path").Required().String()

	cmdMap    = kingpin.Command("map", "Interactively map source headers to order fields")
	mapSource = cmdMap.Arg("source", "Source workbook path").Required().String()
	mapAI     = cmdMap.Flag("ai", "Ask Gemini for mapping suggestions first").Bool()
)

func main() {
	cmd := kingpin.Parse()

	cfg, err := config.LoadConfig("configs/config.toml")
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case cmdFill.FullCommand():
		runFill(cfg)
	case cmdFillAll.FullCommand():
		runFillAll(cfg)
	case cmdInspect.FullCommand():
		runInspect(cfg)
	case cmdMap.FullCommand():
		runMapping(cfg)
	}
}

// fillParams merges CLI flags over config defaults.
func fillParams(cfg *config.Config, school, year string, startRow int) report.Params {
	params := report.Params{
		School:      cfg.Fill.School,
		Year:        cfg.Fill.Year,
		StartRow:    cfg.Fill.StartRow,
		TargetSheet: cfg.Fill.TargetSheet,
	}
	if school != "" {
		params.School = school
	}
	if year != "" {
		params.Year = year
	}
	if startRow > 0 {
		params.StartRow = startRow
	}
	return params
}

func runFill(cfg *config.Config) {
	templateFile := cfg.Fill.TemplateFile
	if *fillTemplate != "" {
		templateFile = *fillTemplate
	}
	sideOutput := cfg.Fill.SideOutput
	if *fillSideOutput != "" {
		sideOutput = *fillSideOutput
	}
	params := fillParams(cfg, *fillSchool, *fillYear, *fillStartRow)

	logger.Info("Starting fill operation",
		"source", *fillSource,
		"template", templateFile,
		"output", *fillOutput)

	start := time.Now()
	if err := fillOne(cfg, *fillSource, templateFile, *fillOutput, sideOutput, params); err != nil {
		logger.Error("Fill operation failed", "error", err)
		fmt.Printf("❌ Error filling report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Done in %.2fs\n", time.Since(start).Seconds())
}

func fillOne(cfg *config.Config, sourceFile, templateFile, outputFile, sideOutput string, params report.Params) error {
	orders, layout, err := source.Load(sourceFile, loadMapping(cfg))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Detected layout 【%s】, %d orders\n", layout, len(orders))
	if len(orders) == 0 {
		logger.Warn("Source workbook has no orders", "file", sourceFile)
	}

	books.SortByGrade(orders)

	if err := report.FillTemplate(templateFile, outputFile, params, orders); err != nil {
		return err
	}
	fmt.Printf("✓ Report written to %s\n", outputFile)

	if err := report.WriteSideWorkbook(sideOutput, orders); err != nil {
		return err
	}
	fmt.Printf("✓ Version/grade summary written to %s\n", sideOutput)

	return nil
}

func runFillAll(cfg *config.Config) {
	logger.Info("Starting fill-all operation", "input_directory", cfg.Scan.InputDirectory)

	xlsxFiles, err := getXlsxFiles(cfg.Scan.InputDirectory)
	if err != nil {
		logger.Error("Failed to get Excel files", "error", err)
		fmt.Printf("Error getting Excel files: %v\n", err)
		os.Exit(1)
	}
	if len(xlsxFiles) == 0 {
		fmt.Printf("No .xlsx files found in directory: %s\n", cfg.Scan.InputDirectory)
		return
	}

	resultsDir := filepath.Join(cfg.Scan.OutputDirectory, "results")
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		logger.Error("Failed to create results directory", "error", err)
		fmt.Printf("Error creating results directory: %v\n", err)
		os.Exit(1)
	}

	params := fillParams(cfg, *fillAllSchool, *fillAllYear, *fillAllStartRow)

	successCount := 0
	errorCount := 0

	for i, inputFile := range xlsxFiles {
		fileName := filepath.Base(inputFile)
		fmt.Printf("\n[%d/%d] Processing: %s\n", i+1, len(xlsxFiles), fileName)
		logger.Info("Processing file", "file", fileName, "progress", fmt.Sprintf("%d/%d", i+1, len(xlsxFiles)))

		base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		outputFile := filepath.Join(resultsDir, base+"_filled.xlsx")
		sideOutput := filepath.Join(resultsDir, base+"_versions.xlsx")

		if err := fillOne(cfg, inputFile, cfg.Fill.TemplateFile, outputFile, sideOutput, params); err != nil {
			logger.Error("Failed to fill report", "file", fileName, "error", err)
			fmt.Printf("❌ Error filling report: %v\n", err)
			errorCount++
		} else {
			successCount++
		}
	}

	logger.Info("Fill-all operation completed",
		"success_count", successCount,
		"error_count", errorCount)

	fmt.Printf("\n========================================\n")
	fmt.Printf("Fill complete!\n")
	fmt.Printf("✓ Success: %d files\n", successCount)
	if errorCount > 0 {
		fmt.Printf("❌ Errors: %d files\n", errorCount)
	}
	fmt.Printf("Results saved to: %s\n", resultsDir)
}

func runInspect(cfg *config.Config) {
	logger.Info("Starting inspect operation", "source", *inspectSource)

	orders, layout, err := source.Load(*inspectSource, loadMapping(cfg))
	if err != nil {
		logger.Error("Inspect operation failed", "error", err)
		fmt.Printf("❌ Error reading source: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Layout: 【%s】\n", layout)
	fmt.Printf("Orders: %d\n\n", len(orders))

	preview := orders
	if len(preview) > 10 {
		preview = preview[:10]
	}
	for i, o := range preview {
		grade, term := books.ParseGradeTerm(o.Title)
		fmt.Printf("%2d. %-6s %-6s %-6s %-6s 订数 %-5d 单价 %6.2f  %s\n",
			i+1, grade, term,
			books.ParseSubject(o.Title),
			books.ParseCategory(o.Title),
			o.TotalCopies(), o.Price, o.Title)
	}
	if len(orders) > len(preview) {
		fmt.Printf("... and %d more\n", len(orders)-len(preview))
	}
}

func runMapping(cfg *config.Config) {
	mappingFile := mappingPath(cfg)

	logger.Info("Starting mapping operation", "source", *mapSource, "output_file", mappingFile)

	headers, layout, err := source.ScanHeaders(*mapSource)
	if err != nil {
		logger.Error("Failed to scan source headers", "error", err)
		fmt.Printf("❌ Error scanning source headers: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Detected layout 【%s】, %d headers\n", layout, len(headers))

	seed := &mapping.Config{}
	if existing, err := mapping.LoadFromFile(mappingFile); err == nil {
		fmt.Printf("📂 Loading existing mappings from %s\n", mappingFile)
		seed.Merge(existing)
	}

	if *mapAI {
		suggestions, err := suggestMappings(cfg, headers)
		if err != nil {
			logger.Error("AI suggestion pass failed", "error", err)
			fmt.Printf("❌ AI suggestions unavailable: %v\n", err)
		} else {
			fmt.Printf("✓ Gemini suggested %d mappings\n", len(suggestions))
			seed.Merge(mapping.ToConfig(suggestions))
		}
	}

	if err := os.MkdirAll(filepath.Dir(mappingFile), 0755); err != nil {
		fmt.Printf("❌ Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	uiConfig := mapping.UIConfig{
		ColumnsPerRow: cfg.UI.ColumnsPerRow,
		RowsPerPage:   cfg.UI.RowsPerPage,
	}
	if err := mapping.RunMappingTUI(headers, seed, mappingFile, uiConfig); err != nil {
		logger.Error("Mapping operation failed", "error", err)
		fmt.Printf("❌ Error running mapping tool: %v\n", err)
		os.Exit(1)
	}
}

func suggestMappings(cfg *config.Config, headers []string) ([]mapping.Suggestion, error) {
	ctx := context.Background()

	suggester, err := mapping.NewSuggester(ctx, mapping.GetGeminiAPIKey(), cfg.AI.Model)
	if err != nil {
		return nil, err
	}
	defer suggester.Close()

	return suggester.Suggest(ctx, headers)
}

func mappingPath(cfg *config.Config) string {
	return filepath.Join(cfg.Scan.OutputDirectory, "column_mapping.json")
}

// loadMapping returns the saved column mapping, nil when none exists.
func loadMapping(cfg *config.Config) *mapping.Config {
	mapConfig, err := mapping.LoadFromFile(mappingPath(cfg))
	if err != nil {
		return nil
	}
	return mapConfig
}

// getXlsxFiles returns all .xlsx files under the given directory
func getXlsxFiles(dir string) ([]string, error) {
	var xlsxFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.ToLower(filepath.Ext(path)) == ".xlsx" {
			xlsxFiles = append(xlsxFiles, path)
		}
		return nil
	})

	return xlsxFiles, err
}
