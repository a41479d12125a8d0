package main

import (
	"fmt"
	"io"
	rawLog "log"
	"net/url"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/retutils/redirectfix/addon"
	"github.com/retutils/redirectfix/internal/helper"
	"github.com/retutils/redirectfix/message"
	"github.com/retutils/redirectfix/notify"
	"github.com/retutils/redirectfix/storage"
)

const version = "1.2.0"

type Config struct {
	version bool // show redirectfix version

	In      string   // captured raw response file, - or empty for stdin
	Out     string   // output file, - or empty for stdout
	URL     string   // URL of the originating request
	Method  string   // method of the originating request
	Hosts   []string // scope: host patterns
	Paths   []string // scope: path patterns
	Methods []string // scope: request methods

	StorageDir string // directory to store rewrite annotations (DuckDB + Bleve)
	Search     string // search query for stored rewrites
	LogFile    string // log file path
	Debug      int    // debug mode: 1 - print debug log, 2 - show debug from

	filename string // read config from the filename
}

func main() {
	config := loadConfig()

	if config.version {
		fmt.Println("redirectfix " + version)
		os.Exit(0)
	}

	if config.Debug > 0 {
		rawLog.SetFlags(rawLog.LstdFlags | rawLog.Lshortfile)
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	if config.Debug == 2 {
		log.SetReportCaller(true)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	if config.LogFile != "" {
		f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		// Logs go to stderr so the rewritten response can go to stdout.
		log.SetOutput(os.Stderr)
	}

	if config.Search != "" {
		if config.StorageDir == "" {
			fmt.Println("-storage_dir is required for search")
			os.Exit(1)
		}
		svc, err := storage.NewService(config.StorageDir)
		if err != nil {
			log.Fatalf("Failed to open storage: %v", err)
		}
		defer svc.Close()

		results, err := svc.Search(config.Search)
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
		} else {
			fmt.Printf("Found %d results:\n", len(results))
			for _, entry := range results {
				fmt.Printf("[%s] %s %s (Status: %d) %s\n", entry.ID, entry.Method, entry.URL, entry.StatusCode, entry.Comment)
			}
		}
		os.Exit(0)
	}

	raw, err := readInput(config.In)
	if err != nil {
		log.Fatalf("failed to read response: %v", err)
	}
	resp, err := helper.ParseResponse(raw)
	if err != nil {
		log.Fatal(err)
	}

	f := message.NewFlow()
	f.Response = resp
	if config.URL != "" {
		u, err := url.Parse(config.URL)
		if err != nil {
			log.Fatalf("invalid -url: %v", err)
		}
		f.Request = &message.Request{Method: config.Method, URL: u}
	}

	var annotator notify.Annotator
	if config.StorageDir != "" {
		svc, err := storage.NewService(config.StorageDir)
		if err != nil {
			log.Fatalf("failed to init storage: %v", err)
		}
		defer svc.Close()
		annotator = svc
		log.Infof("Rewrite annotations stored in: %s", config.StorageDir)
	}

	scope := &addon.Scope{
		Hosts:   config.Hosts,
		Paths:   config.Paths,
		Methods: config.Methods,
	}
	fixer := addon.NewRedirectFixer(scope, annotator)
	fixer.Response(f)

	if err := writeOutput(config.Out, helper.BuildRaw(f.Response)); err != nil {
		log.Fatalf("failed to write response: %v", err)
	}
	if fixer.Rewritten() > 0 {
		log.Infof("response rewritten")
	} else {
		log.Debug("response passed through unchanged")
	}
}

func readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func writeOutput(name string, data []byte) error {
	if name == "" || name == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(name, data, 0644)
}
