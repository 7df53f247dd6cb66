package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/fredke/backend/internal/client"
)

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <prompt>",
		Short: "Describe a website and generate it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := openSession()
			return send(cmd.Context(), s, strings.Join(args, " "))
		},
	}
}

func quickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quick [name]",
		Short: "Generate from a canned template (list them without a name)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Print(renderQuickActions())
				return nil
			}
			prompt, ok := client.QuickPrompt(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", client.ErrUnknownQuickAction, args[0])
			}
			return send(cmd.Context(), openSession(), prompt)
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the session log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := openSession()
			if err := s.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Print(renderHistory(s.Messages()))
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the session log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openSession().Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(color.GreenString("Chat history cleared"))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Write the latest generated website to disk",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			s := openSession()
			if err := s.Refresh(cmd.Context()); err != nil {
				return err
			}
			return export(s, dir)
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive session (/quick, /history, /clear, /export, /quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s := openSession()
			if err := s.Refresh(ctx); err != nil {
				return err
			}
			if msgs := s.Messages(); len(msgs) > 0 {
				fmt.Print(renderHistory(msgs))
			}
			fmt.Print(renderQuickActions())

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(color.MagentaString("> "))
				if !scanner.Scan() {
					return scanner.Err()
				}
				if ctx.Err() != nil {
					return nil
				}
				if quit := runLine(ctx, s, scanner.Text()); quit {
					return nil
				}
			}
		},
	}
}

// runLine handles one line of interactive input and reports whether to quit.
func runLine(ctx context.Context, s *client.Session, line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		if line == "" {
			return false
		}
		notify(send(ctx, s, line))
		return false
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "quit", "exit":
		return true
	case "quick":
		prompt, ok := client.QuickPrompt(arg)
		if !ok {
			fmt.Print(renderQuickActions())
			return false
		}
		notify(send(ctx, s, prompt))
	case "history":
		fmt.Print(renderHistory(s.Messages()))
	case "clear":
		if err := s.Clear(ctx); err != nil {
			notify(err)
			return false
		}
		fmt.Println(color.GreenString("Chat history cleared"))
	case "export":
		if arg == "" {
			arg = "."
		}
		notify(export(s, arg))
	default:
		fmt.Println(color.YellowString("unknown command /%s", name))
	}
	return false
}

func send(ctx context.Context, s *client.Session, prompt string) error {
	stop := spinner("Generating your website...")
	result, err := s.Send(ctx, prompt)
	stop()
	if err != nil {
		return err
	}
	fmt.Print(renderTurn(result.AIMessage))
	return nil
}

func export(s *client.Session, dir string) error {
	latest, ok := s.LatestWebsite()
	if !ok {
		return errors.New("no generated website in this session yet")
	}
	paths, err := client.Export(dir, *latest.GeneratedCode)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Printf("  %s %s\n", color.GreenString("wrote"), p)
	}
	return nil
}

// notify reports a local failure without ending the interactive loop.
func notify(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
	}
}
