package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔═╗┌┬┐┬─┐┌─┐┌┐┌┌┬┐
  ╚═╗ │ ├┬┘├─┤│││ ││
  ╚═╝ ┴ ┴└─┴ ┴┘└┘─┴┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "strand",
		Short: "Server-driven reactive components for Go",
		Long: `Strand runs tree-structured stateful components on the server
and keeps their documents live over WebSocket.

  • Component state, actions, and tasks on the server
  • One patch frame per unit of work
  • SSR first paint with a thin JavaScript client
  • Prometheus metrics and OpenTelemetry tracing built in`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		initCmd(),
		publishCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Strand ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
