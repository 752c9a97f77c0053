package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/promptpad/promptpad/internal/cli"
	"github.com/promptpad/promptpad/internal/config"
	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/service"
	"github.com/promptpad/promptpad/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

var version = "0.1.0"

func printHelp() {
	fmt.Printf(`promptpad - Terminal prompt composer for chat-completion APIs

USAGE:
    promptpad [OPTIONS] [COMMAND]

OPTIONS:
    --help      Show this help information
    --version   Print version information
    --text      Seed the editor with an initial template (TUI mode)

COMMANDS:
    (no command)       Start the interactive editor
    list, ls           List saved templates
    search <query>     Fuzzy-search saved templates
    get, show <id>     Show a saved template
    render             Merge a template with variable values and print it
    run                Submit a merged template to the completion endpoint
    save               Save the composed template under a name
    delete, rm <id>    Delete a saved template
    copy               Copy a merged template to the clipboard
    export             Export a session as JSON
    vars               List the placeholders of a template
    help               Show this help information

ENVIRONMENT:
    PROMPTPAD_API_KEY    API credential (required)
    PROMPTPAD_ENDPOINT   Completion endpoint URL
    PROMPTPAD_MODEL      Default model id
    PROMPTPAD_DIR        Data directory (default ~/.promptpad)

EXAMPLES:
    promptpad                                        Start the editor
    promptpad run --text "Tell me about {topic}" --var topic=Go
    promptpad render <id> --var name=Ada
    promptpad list
`)
}

func main() {
	var (
		helpFlag    = flag.Bool("help", false, "Show help information")
		versionFlag = flag.Bool("version", false, "Print version information")
		textFlag    = flag.String("text", "", "Seed the editor with an initial template")
	)
	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag {
		printHelp()
		return
	}

	if *versionFlag {
		fmt.Printf("promptpad version %s\n", version)
		return
	}

	errorHandler := errors.CreateGlobalErrorHandler()

	cfg, err := config.Load()
	if err != nil {
		errorHandler.HandleError(err)
		os.Exit(1)
	}

	// A missing API credential is fatal at startup; nothing downstream can
	// run without it.
	if err := cfg.Validate(); err != nil {
		errorHandler.HandleError(err)
		os.Exit(1)
	}

	if *textFlag != "" {
		cfg.InitialTemplate = *textFlag
	}

	svc, err := service.NewService(cfg)
	if err != nil {
		errorHandler.HandleError(err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) > 0 {
		cliHandler := cli.NewCLI(svc)
		if err := cliHandler.ExecuteCommand(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	model := ui.NewModel(svc)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running promptpad: %v\n", err)
		os.Exit(1)
	}
}
