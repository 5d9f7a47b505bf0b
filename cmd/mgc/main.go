// Package main is the entry point for the ModelGate Console application.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/modelgate/console/internal/api"
	"github.com/modelgate/console/internal/app"
	"github.com/modelgate/console/internal/config"
	"github.com/modelgate/console/internal/logger"
	"github.com/modelgate/console/internal/services"
	"github.com/modelgate/console/internal/ui/tabs/dashboard"
	"github.com/modelgate/console/internal/ui/tabs/info"
	"github.com/modelgate/console/internal/ui/tabs/logs"
	"github.com/modelgate/console/internal/ui/tabs/synclogs"
	"github.com/modelgate/console/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	// Run the application
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Send diagnostics to a file; the terminal belongs to the TUI
	if err := logger.Init(cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	// 3. Initialize the service manager
	// This starts the metrics poller and the config file watcher
	client := api.New(cfg.APIURL, cfg.APIToken, cfg.RequestTimeout)
	svcManager, err := services.NewManager(cfg, client)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 4. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 5. Initialize tabs with shared state and services
	// Each tab receives the shared application state for consistent data access
	state := model.GetState()
	tabs := []app.Tab{
		dashboard.New(state, svcManager), // Tab 0: Dashboard - gateway metrics
		logs.New(state, svcManager),      // Tab 1: Logs - request log browser
		synclogs.New(state, svcManager),  // Tab 2: Sync - sync run history
		info.New(state, svcManager),      // Tab 3: Info - configuration and app info
	}
	model.SetTabs(tabs)

	// 6. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 7. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for selection
	)

	// 8. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		// Send quit message to the program
		p.Send(tea.Quit())
	}()

	// 9. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`ModelGate Console - Operator console for the ModelGate LLM gateway

Usage:
  mgc [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Dashboard, Logs, Sync, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Select/confirm
  f               Filter request logs
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  MGC_API_URL                   Gateway admin API base URL (default: http://localhost:7070)
  MGC_API_TOKEN                 Bearer token for the admin API
  MGC_METRICS_REFRESH_INTERVAL  Metrics polling interval (default: 60s)
  MGC_METRICS_WINDOW_HOURS      Dashboard aggregation window (default: 24)
  MGC_ERROR_RATE_THRESHOLD      Error-rate alert threshold, 0..1 (default: 0.25)
  MGC_DATABASE_PATH             SQLite snapshot database path
  MGC_EXPORT_DIR                Directory for exported log documents
  MGC_LOG_FILE                  Diagnostic log file path

Configuration:
  The application looks for env files in the following locations:
  - ./.env
  - ~/.config/modelgate-console/config.env
  Changes to the loaded env file are applied while the console runs.

For more information, visit: https://github.com/modelgate/console`)
}
