// Package main provides a one-shot JSON-RPC client for ad-hoc API calls.
//
// Example:
//
//	zbx-call -s https://zabbix.example.com -user Admin -password zabbix \
//	    -m host.get -p '{"limit": 5, "output": ["hostid", "name"]}'
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

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
		method      string
		paramsJSON  string
		level       string
		timeout     time.Duration
	)

	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.StringVar(&serverURL, "server", "http://localhost:8080", "Zabbix server URL")
	flag.StringVar(&serverURL, "s", "http://localhost:8080", "Zabbix server URL (shorthand)")
	flag.StringVar(&username, "user", "", "API username (defaults to ZBX_USERNAME)")
	flag.StringVar(&password, "password", "", "API password (defaults to ZBX_PASSWORD)")
	flag.StringVar(&method, "m", "", "API method to call, e.g. host.get")
	flag.StringVar(&paramsJSON, "p", "{}", "Method parameters as a JSON object")
	flag.StringVar(&level, "level", "data", "Content level: raw, body, data, or best")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	flag.Parse()

	if showVersion {
		fmt.Printf("zbx-call %s\n", version)
		os.Exit(0)
	}

	if method == "" {
		fmt.Fprintln(os.Stderr, "Error: -m <method> is required")
		flag.Usage()
		os.Exit(2)
	}

	if username == "" {
		username = os.Getenv("ZBX_USERNAME")
	}
	if password == "" {
		password = os.Getenv("ZBX_PASSWORD")
	}

	contentLevel := zabbix.ContentLevel(level)
	switch contentLevel {
	case zabbix.LevelRaw, zabbix.LevelBody, zabbix.LevelData, zabbix.LevelBest:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown content level %q\n", level)
		os.Exit(2)
	}

	var params zabbix.Params
	if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -p JSON: %v\n", err)
		os.Exit(2)
	}

	cfg := zabbix.DefaultConfig()
	cfg.BaseURL = serverURL
	cfg.Username = username
	cfg.Password = password
	cfg.Level = contentLevel
	cfg.Timeout = timeout
	client := zabbix.NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var auth *string
	if username != "" && method != "apiinfo.version" && method != "user.login" {
		token, err := client.Login(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: login failed: %v\n", err)
			os.Exit(1)
		}
		auth = &token
		defer client.Logout(context.Background(), token)
	}

	result, err := client.Call(ctx, method, params, auth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not render result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
