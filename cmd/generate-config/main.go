package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/postcraft/internal/config"
)

func main() {
	// Create a config with defaults applied
	cfg := config.Default()

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	header := "# Postcraft Configuration Example\n" +
		"# Copy this file to config.yaml and customize as needed.\n" +
		"# Durations use Go syntax (1s, 500ms, 1h). Environment variables\n" +
		"# POSTCRAFT_HOST, POSTCRAFT_PORT, POSTCRAFT_LOG_LEVEL and POSTCRAFT_STORE_DSN override the file.\n\n"
	output := header + string(yamlData)

	// Write to file or stdout
	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		fmt.Print(output)
		return
	}

	if err := os.WriteFile(outputFile, []byte(output), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}
