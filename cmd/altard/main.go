package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altarhq/altard/internal/update"
)

func main() {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())
	rt, err := update.OpenRuntime(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "altard failed: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	program := tea.NewProgram(update.NewModel(rt, cfg))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "altard failed: %v\n", err)
		os.Exit(1)
	}
}
