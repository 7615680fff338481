package main

import (
	"fmt"
	"log"
	"os"

	"github.com/praetech/praesense/internal/awareness"
	"github.com/praetech/praesense/internal/config"
	"github.com/praetech/praesense/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const banner = "Praesense - Perceiving the world intelligently"

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("praesense %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println(banner)
			fmt.Println()
			fmt.Println("Usage: praesense [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PRAESENSE_LOG_LEVEL=debug           Enable debug logging")
			fmt.Println("  PRAESENSE_ENV_FILE=path             Env file to load (default .env)")
			fmt.Println("  PRAESENSE_MAX_REQUEST_BYTES=n       Largest accepted request line")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	fmt.Fprintln(os.Stderr, banner)

	cfg := config.Load()
	if cfg.Debug() {
		log.Printf("Praesense v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	} else {
		awareness.SetLogger(nil)
	}

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
