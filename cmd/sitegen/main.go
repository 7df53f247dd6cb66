// Package main provides the sitegen terminal client.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/fredke/backend/internal/client"
)

var (
	serverURL string
	sessionID string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sitegen",
		Short: "Generate websites from a prompt",
		Long: `sitegen talks to the Fred.ke generation server.

Every command works on one session. Pass --session (or FREDKE_SESSION) to
keep using the same history across invocations; without it a new session
id is created and printed.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("FREDKE_SERVER", "http://localhost:8080"), "Server base URL")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", os.Getenv("FREDKE_SESSION"), "Session id to use")

	rootCmd.AddCommand(
		sendCmd(),
		quickCmd(),
		historyCmd(),
		clearCmd(),
		exportCmd(),
		chatCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fatalError(err)
	}
}

// openSession resumes --session or starts a new one.
func openSession() *client.Session {
	api := client.New(serverURL, nil)
	if sessionID != "" {
		return client.ResumeSession(api, sessionID)
	}
	s := client.NewSession(api)
	fmt.Fprintf(os.Stderr, "%s %s\n", color.HiBlackString("session:"), s.ID())
	return s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatalError(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
	os.Exit(1)
}
