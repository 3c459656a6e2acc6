package main

import (
	"flag"
	"fmt"
	"os"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: discovered)")
	envFile := flag.String("env", ".env", "Environment file loaded before the config")
	showVersion := flag.Bool("version", false, "Print version and exit")
	showConfig := flag.Bool("print-config", false, "Print the effective config as TOML and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("justpasted %s\n", version)
		os.Exit(0)
	}

	if *showConfig {
		if err := printConfig(os.Stdout, *configPath, *envFile); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := runServer(*configPath, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
