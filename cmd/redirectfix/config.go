package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/retutils/redirectfix/internal/helper"
)

func loadConfigFromFile(filename string) (*Config, error) {
	var config Config
	if err := helper.NewStructFromFile(filename, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func defineFlags(fs *flag.FlagSet, config *Config) {
	fs.BoolVar(&config.version, "version", config.version, "show redirectfix version")
	fs.StringVar(&config.In, "in", config.In, "captured raw response file to process, - or empty for stdin")
	fs.StringVar(&config.Out, "out", config.Out, "output file for the resulting raw response, - or empty for stdout")
	fs.StringVar(&config.URL, "url", config.URL, "URL of the request that produced the response")
	fs.StringVar(&config.Method, "method", config.Method, "method of the request that produced the response")
	if config.Method == "" {
		config.Method = "GET"
	}
	fs.Var((*arrayValue)(&config.Hosts), "host", "restrict rewriting to matching hosts (repeatable, wildcards allowed)")
	fs.Var((*arrayValue)(&config.Paths), "path", "restrict rewriting to matching paths (repeatable, wildcards allowed)")
	fs.Var((*arrayValue)(&config.Methods), "scope_method", "restrict rewriting to these request methods (repeatable)")
	fs.StringVar(&config.StorageDir, "storage_dir", config.StorageDir, "directory to store rewrite annotations (DuckDB + Bleve)")
	fs.StringVar(&config.Search, "search", config.Search, "search query for stored rewrites (requires -storage_dir)")
	fs.StringVar(&config.LogFile, "log_file", config.LogFile, "log file path")
	fs.IntVar(&config.Debug, "debug", config.Debug, "debug mode: 1 - print debug log, 2 - show debug from")
	fs.StringVar(&config.filename, "f", config.filename, "read config from the filename")
}

func loadConfig() *Config {
	// 1. Initial pass to find the config file
	filename := ""
	for i, arg := range os.Args {
		if arg == "-f" && i+1 < len(os.Args) {
			filename = os.Args[i+1]
			break
		}
	}

	config := new(Config)
	if filename != "" {
		fileConfig, err := loadConfigFromFile(filename)
		if err != nil {
			log.Warnf("read config from %v error %v", filename, err)
		} else {
			config = fileConfig
			log.Infof("Loaded config from file %v: %+v", filename, config)
		}
	}

	// 2. Final pass with CLI overrides
	finalFs := flag.NewFlagSet("redirectfix", flag.ExitOnError)
	defineFlags(finalFs, config)
	finalFs.Parse(os.Args[1:])

	return config
}

// arrayValue implements the flag.Value interface
type arrayValue []string

func (a *arrayValue) String() string {
	return fmt.Sprint(*a)
}

func (a *arrayValue) Set(value string) error {
	*a = append(*a, value)
	return nil
}
