package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func TestPrintHelpMatchesImplementedCommands(t *testing.T) {
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	printHelp()
	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, cmd := range []string{"list", "run", "save", "export", "vars", "help"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("help should mention the %q command", cmd)
		}
	}

	// Only global help exists; the usage must not advertise more
	if strings.Contains(out, "help <command>") || strings.Contains(out, "help [command]") {
		t.Errorf("help advertises per-command help, which is not implemented")
	}
}
