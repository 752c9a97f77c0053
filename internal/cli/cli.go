// Package cli provides headless command-line access to the same operations
// the TUI offers: listing, rendering, running, saving, and exporting
// templates.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/promptpad/promptpad/internal/clipboard"
	"github.com/promptpad/promptpad/internal/editor"
	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/service"
	"github.com/promptpad/promptpad/internal/template"
)

// CLI provides headless command-line interface functionality
type CLI struct {
	service      *service.Service
	errorHandler *errors.CLIErrorHandler
}

// NewCLI creates a new CLI instance
func NewCLI(svc *service.Service) *CLI {
	return &CLI{
		service:      svc,
		errorHandler: errors.NewCLIErrorHandler(os.Getenv("VERBOSE") == "true"),
	}
}

// ExecuteCommand processes a CLI command and returns the result
func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return c.printUsage()
	}

	command := args[0]
	commandArgs := args[1:]

	var err error
	switch command {
	case "list", "ls":
		err = c.listTemplates(commandArgs)
	case "search":
		err = c.searchTemplates(commandArgs)
	case "get", "show":
		err = c.showTemplate(commandArgs)
	case "render":
		err = c.renderTemplate(commandArgs)
	case "run":
		err = c.runTemplate(commandArgs)
	case "save":
		err = c.saveTemplate(commandArgs)
	case "delete", "rm":
		err = c.deleteTemplate(commandArgs)
	case "copy":
		err = c.copyTemplate(commandArgs)
	case "export":
		err = c.exportSession(commandArgs)
	case "vars":
		err = c.listVars(commandArgs)
	case "help":
		err = c.printUsage()
	default:
		err = errors.ValidationError(fmt.Sprintf("unknown command: %s (try 'promptpad help')", command))
	}

	if err != nil {
		return c.errorHandler.HandleError(err)
	}
	return nil
}

func (c *CLI) printUsage() error {
	fmt.Print(`promptpad CLI commands:

    list, ls                      List saved templates
    search <query>                Fuzzy-search saved templates
    get, show <id>                Show a saved template
    vars <id|--text T>            List the placeholder names of a template
    render <id|--text T> [--var name=value ...]
                                  Merge values into a template and print it
    run <id|--text T> [--var name=value ...] [--model id] [--export path]
                                  Run the merged prompt against the
                                  completion endpoint
    save --name N <id|--text T> [--var name=value ...]
                                  Save a template snapshot (always a new
                                  record)
    delete, rm <id>               Delete a saved template
    copy <id|--text T> [--var name=value ...]
                                  Merge and copy to the system clipboard
    export <id> --output <path>   Export a template session as JSON

Common flags:
    --format text|json            Output format (list, show, run)
`)
	return nil
}

// parsedArgs holds the flags shared across template-addressing commands
type parsedArgs struct {
	positional []string
	text       string
	hasText    bool
	vars       map[string]string
	name       string
	model      string
	format     string
	output     string
	exportPath string
}

func parseArgs(args []string) (*parsedArgs, error) {
	p := &parsedArgs{vars: make(map[string]string)}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--text":
			if i+1 >= len(args) {
				return nil, errors.ValidationError("--text requires a value")
			}
			i++
			p.text = args[i]
			p.hasText = true
		case "--var":
			if i+1 >= len(args) {
				return nil, errors.ValidationError("--var requires name=value")
			}
			i++
			name, value, ok := strings.Cut(args[i], "=")
			if !ok || name == "" {
				return nil, errors.ValidationError(fmt.Sprintf("invalid --var %q, expected name=value", args[i]))
			}
			p.vars[name] = value
		case "--name":
			if i+1 >= len(args) {
				return nil, errors.ValidationError("--name requires a value")
			}
			i++
			p.name = args[i]
		case "--model":
			if i+1 >= len(args) {
				return nil, errors.ValidationError("--model requires a value")
			}
			i++
			p.model = args[i]
		case "--format":
			if i+1 >= len(args) {
				return nil, errors.ValidationError("--format requires a value")
			}
			i++
			p.format = args[i]
		case "--output":
			if i+1 >= len(args) {
				return nil, errors.ValidationError("--output requires a value")
			}
			i++
			p.output = args[i]
		case "--export":
			if i+1 >= len(args) {
				return nil, errors.ValidationError("--export requires a path")
			}
			i++
			p.exportPath = args[i]
		default:
			if strings.HasPrefix(arg, "--") {
				return nil, errors.ValidationError(fmt.Sprintf("unknown flag: %s", arg))
			}
			p.positional = append(p.positional, arg)
		}
	}

	return p, nil
}

// buildSession creates a session from either --text or a saved template id,
// then applies any --var overrides.
func (c *CLI) buildSession(p *parsedArgs) (*editor.Session, error) {
	session := c.service.NewSession()

	switch {
	case p.hasText:
		session.SetText(p.text)
	case len(p.positional) > 0:
		if _, err := c.service.LoadSession(session, p.positional[0]); err != nil {
			return nil, err
		}
	default:
		return nil, errors.ValidationError("a template id or --text is required")
	}

	for name, value := range p.vars {
		session.SetValue(name, value)
	}
	if p.model != "" {
		session.SetModel(p.model)
	}

	return session, nil
}

func (c *CLI) listTemplates(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}

	templates, err := c.service.ListTemplates()
	if err != nil {
		return err
	}

	if p.format == "json" {
		return printJSON(templates)
	}

	if len(templates) == 0 {
		fmt.Println("No saved templates. Use 'promptpad save' or the TUI to create one.")
		return nil
	}

	for _, t := range templates {
		fmt.Printf("%s  %-24s  %s\n", t.ID, t.Name, t.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (c *CLI) searchTemplates(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(p.positional) == 0 {
		return errors.ValidationError("search requires a query")
	}

	results, err := c.service.SearchTemplates(strings.Join(p.positional, " "))
	if err != nil {
		return err
	}

	for _, t := range results {
		fmt.Printf("%s  %s\n", t.ID, t.Name)
	}
	return nil
}

func (c *CLI) showTemplate(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(p.positional) == 0 {
		return errors.ValidationError("show requires a template id")
	}

	tmpl, err := c.service.GetTemplate(p.positional[0])
	if err != nil {
		return err
	}

	if p.format == "json" {
		return printJSON(tmpl)
	}

	fmt.Printf("ID:    %s\n", tmpl.ID)
	fmt.Printf("Name:  %s\n", tmpl.Name)
	fmt.Printf("Saved: %s\n", tmpl.CreatedAt.Format("2006-01-02 15:04"))
	for _, v := range tmpl.Variables {
		fmt.Printf("Var:   %s = %q\n", v.Name, v.Value)
	}
	fmt.Printf("\n%s\n", tmpl.PromptText)
	return nil
}

func (c *CLI) listVars(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}

	session, err := c.buildSession(p)
	if err != nil {
		return err
	}

	if !template.ContainsPlaceholders(session.Text()) {
		fmt.Println("No placeholders.")
		return nil
	}

	unfilled := make(map[string]bool)
	for _, name := range template.UnfilledNames(session.Text(), session.Values()) {
		unfilled[name] = true
	}

	for _, name := range session.Vars() {
		if unfilled[name] {
			fmt.Printf("%s (unfilled)\n", name)
		} else {
			fmt.Println(name)
		}
	}
	return nil
}

func (c *CLI) renderTemplate(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}

	session, err := c.buildSession(p)
	if err != nil {
		return err
	}

	fmt.Println(session.Merged())
	return nil
}

func (c *CLI) runTemplate(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}

	session, err := c.buildSession(p)
	if err != nil {
		return err
	}

	result, err := c.service.Run(context.Background(), session)
	if err != nil {
		return err
	}

	if p.format == "json" {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		fmt.Println(result.FirstContent())
	}

	if p.exportPath != "" {
		if err := c.service.ExportSession(session, p.exportPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Session exported to %s\n", p.exportPath)
	}
	return nil
}

func (c *CLI) saveTemplate(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}

	session, err := c.buildSession(p)
	if err != nil {
		return err
	}

	saved, err := c.service.SaveSession(session, p.name)
	if err != nil {
		return err
	}

	fmt.Printf("Saved %q as %s\n", saved.Name, saved.ID)
	return nil
}

func (c *CLI) deleteTemplate(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(p.positional) == 0 {
		return errors.ValidationError("delete requires a template id")
	}

	if err := c.service.DeleteTemplate(p.positional[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", p.positional[0])
	return nil
}

func (c *CLI) copyTemplate(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}

	session, err := c.buildSession(p)
	if err != nil {
		return err
	}

	msg, err := clipboard.CopyWithFallback(session.Merged())
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func (c *CLI) exportSession(args []string) error {
	p, err := parseArgs(args)
	if err != nil {
		return err
	}
	if p.output == "" {
		return errors.ValidationError("export requires --output <path>")
	}

	session, err := c.buildSession(p)
	if err != nil {
		return err
	}

	if err := c.service.ExportSession(session, p.output); err != nil {
		return err
	}
	fmt.Printf("Session exported to %s\n", p.output)
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
