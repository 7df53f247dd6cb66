package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/zhouzirui/fredke/backend/internal/client"
	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

const previewLines = 8

func renderHistory(messages []chat.Message) string {
	if len(messages) == 0 {
		return "No messages yet\n"
	}

	var sb strings.Builder
	sb.WriteString(color.CyanString("Session History\n"))
	sb.WriteString(strings.Repeat("─", 60) + "\n")
	for _, m := range messages {
		ts := m.CreatedAt.Local().Format("15:04:05")
		if m.Role == chat.RoleUser {
			fmt.Fprintf(&sb, "%s %s %s\n", color.HiBlackString(ts), color.MagentaString("you"), m.Content)
			continue
		}
		fmt.Fprintf(&sb, "%s %s %s\n", color.HiBlackString(ts), color.GreenString("fred"), m.Content)
		if m.GeneratedCode != nil {
			fmt.Fprintf(&sb, "         %s #%d %s\n", color.HiBlackString("website"), m.ID, m.GeneratedCode.Title)
		}
	}
	return sb.String()
}

func renderTurn(m chat.Message) string {
	var sb strings.Builder
	sb.WriteString(color.GreenString("fred ") + m.Content + "\n")
	if m.GeneratedCode == nil {
		return sb.String()
	}

	site := m.GeneratedCode
	fmt.Fprintf(&sb, "%s %s\n", color.New(color.Bold).Sprint(site.Title), color.HiBlackString(site.Description))
	for _, f := range site.Files() {
		fmt.Fprintf(&sb, "%s %s\n", color.CyanString("──"), f.Name)
		sb.WriteString(head(f.Content, previewLines))
	}
	return sb.String()
}

func renderQuickActions() string {
	var sb strings.Builder
	sb.WriteString(color.CyanString("Quick actions\n"))
	for _, a := range client.QuickActions {
		fmt.Fprintf(&sb, "  %-14s %s\n", a.Name, color.HiBlackString(truncate(a.Prompt, 60)))
	}
	return sb.String()
}

func head(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = append(lines[:n], color.HiBlackString("  ... %d more lines", len(lines)-n))
	}
	return strings.Join(lines, "\n") + "\n"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// spinner prints a progress line to stderr until the returned func is called.
func spinner(label string) func() {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(os.Stderr, "\r%s %s", color.MagentaString(frames[i%len(frames)]), label)
			select {
			case <-done:
				fmt.Fprint(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}
