// Package main provides the terminal dashboard for browsing live problems.
package main

import (
	"flag"
	"fmt"
	"os"

	"zabbix-bridge/internal/tui"
	"zabbix-bridge/internal/zabbix"
)

var (
	version = "dev"
)

func main() {
	var (
		showVersion bool
		serverURL   string
		username    string
		password    string
	)

	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.BoolVar(&showVersion, "v", false, "Show version and exit (shorthand)")
	flag.StringVar(&serverURL, "server", "http://localhost:8080", "Zabbix server URL")
	flag.StringVar(&serverURL, "s", "http://localhost:8080", "Zabbix server URL (shorthand)")
	flag.StringVar(&username, "user", "", "API username (defaults to ZBX_USERNAME)")
	flag.StringVar(&password, "password", "", "API password (defaults to ZBX_PASSWORD)")
	flag.Parse()

	if showVersion {
		fmt.Printf("zbx-top %s\n", version)
		os.Exit(0)
	}

	if username == "" {
		username = os.Getenv("ZBX_USERNAME")
	}
	if password == "" {
		password = os.Getenv("ZBX_PASSWORD")
	}

	cfg := zabbix.DefaultConfig()
	cfg.BaseURL = serverURL
	cfg.Username = username
	cfg.Password = password
	cfg.Level = zabbix.LevelData

	fmt.Println("Starting zbx-top...")
	fmt.Printf("Connecting to: %s\n", serverURL)

	if err := tui.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
