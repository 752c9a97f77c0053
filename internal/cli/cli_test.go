package cli

import (
	"strings"
	"testing"

	"github.com/promptpad/promptpad/internal/completion"
	"github.com/promptpad/promptpad/internal/config"
	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/service"
	"github.com/promptpad/promptpad/internal/store"
)

func newTestCLI(client completion.Client) *CLI {
	svc := service.NewServiceWith(
		store.NewTemplateStore(store.NewMemoryKV()),
		client,
		&config.Config{Model: "gpt-4o-mini"},
	)
	return NewCLI(svc)
}

func TestParseArgs(t *testing.T) {
	p, err := parseArgs([]string{
		"abc123",
		"--text", "Hello {name}",
		"--var", "name=Ada",
		"--var", "tone=warm",
		"--model", "gpt-4o",
		"--format", "json",
	})
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}

	if len(p.positional) != 1 || p.positional[0] != "abc123" {
		t.Errorf("positional = %v", p.positional)
	}
	if !p.hasText || p.text != "Hello {name}" {
		t.Errorf("text = %q", p.text)
	}
	if p.vars["name"] != "Ada" || p.vars["tone"] != "warm" {
		t.Errorf("vars = %v", p.vars)
	}
	if p.model != "gpt-4o" || p.format != "json" {
		t.Errorf("model = %q format = %q", p.model, p.format)
	}
}

func TestParseArgsValueInVarMayContainEquals(t *testing.T) {
	p, err := parseArgs([]string{"--var", "expr=a=b"})
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if p.vars["expr"] != "a=b" {
		t.Errorf("vars = %v", p.vars)
	}
}

func TestExecuteCommandReturnsDisplayableFailure(t *testing.T) {
	c := newTestCLI(&completion.FakeClient{Err: errors.RemoteRejectedError("invalid key")})

	err := c.ExecuteCommand([]string{"run", "--text", "hello"})
	if err == nil {
		t.Fatal("run against a rejecting endpoint should fail")
	}
	if !strings.Contains(err.Error(), "invalid key") {
		t.Errorf("error %q should carry the rejection message for display", err)
	}
}

func TestExecuteCommandUnknownCommandNamesIt(t *testing.T) {
	c := newTestCLI(&completion.FakeClient{})

	err := c.ExecuteCommand([]string{"bogus"})
	if err == nil {
		t.Fatal("unknown command should fail")
	}
	if !strings.Contains(err.Error(), "unknown command: bogus") {
		t.Errorf("error %q should name the rejected command", err)
	}
}

func TestParseArgsErrors(t *testing.T) {
	cases := [][]string{
		{"--text"},
		{"--var"},
		{"--var", "novalue"},
		{"--var", "=empty"},
		{"--unknown-flag"},
		{"--model"},
	}

	for _, args := range cases {
		if _, err := parseArgs(args); err == nil {
			t.Errorf("parseArgs(%v) should fail", args)
		}
	}
}
