package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amparo-health/screening"
	"github.com/amparo-health/screening/pkg/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an assessment interactively in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromFlags(cmd)
		if err != nil {
			return err
		}
		logger := loggerFromFlags(cmd, false)

		engine := screening.New(
			screening.WithCatalog(cat),
			screening.WithLogger(logger),
		)

		render := newRenderer()
		reader := bufio.NewReader(os.Stdin)
		ctx := cmd.Context()
		sessionID := uuid.NewString()

		if _, err := engine.Start(ctx, sessionID); err != nil {
			return err
		}
		fmt.Println(render("# Health screening\n\nAnswer each question. Type `quit` to stop."))

		for {
			prompt, err := engine.NextQuestion(ctx, sessionID)
			if err != nil {
				return err
			}
			if prompt.Question == nil {
				// No question left and no escalation pending: done.
				break
			}

			q := prompt.Question
			fmt.Println(render(formatQuestion(q)))
			fmt.Print("> ")

			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			line = strings.TrimSpace(line)
			if line == "quit" || line == "exit" {
				fmt.Println("Assessment abandoned.")
				return engine.Delete(ctx, sessionID)
			}

			value, err := parseAnswer(q, line)
			if err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}

			result, err := engine.RecordAnswer(ctx, sessionID, q.ID, value)
			if err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
			for _, fired := range result.Effects.Actions {
				fmt.Println(render(formatAction(fired)))
			}
			if result.Transitioned {
				fmt.Println(render(fmt.Sprintf("*Moving to the %s layer.*", result.To)))
			}
			if result.Done {
				break
			}
		}

		return printSummary(cmd, engine, sessionID, render)
	},
}

func printSummary(cmd *cobra.Command, engine *screening.Engine, sessionID string, render func(string) string) error {
	actions, err := engine.Actions(cmd.Context(), sessionID)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# Assessment complete\n\n")
	if len(actions) == 0 {
		b.WriteString("No follow-up needed. Thank you!\n")
	} else {
		fmt.Fprintf(&b, "Recommended next steps (%d):\n\n", len(actions))
		for _, fired := range actions {
			fmt.Fprintf(&b, "- **%s** (%s, priority %s)\n", fired.Title, fired.Type, fired.Priority)
		}
	}
	fmt.Println(render(b.String()))
	return nil
}

// parseAnswer converts terminal input into the value shape the question
// expects.
func parseAnswer(q *domain.Question, line string) (any, error) {
	switch q.Type {
	case domain.AnswerScale:
		f, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number between %v and %v", q.Min, q.Max)
		}
		return f, nil
	case domain.AnswerMultiSelect:
		parts := strings.Split(line, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		return items, nil
	default:
		return line, nil
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// newRenderer returns a markdown renderer. Glamour is only engaged on a
// real terminal; elsewhere the raw markdown passes through.
func newRenderer() func(string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func(md string) string { return md }
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return func(md string) string { return md }
	}
	return func(md string) string {
		out, err := r.Render(md)
		if err != nil {
			return md
		}
		return out
	}
}

func formatQuestion(q *domain.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", q.Prompt)
	switch q.Type {
	case domain.AnswerScale:
		fmt.Fprintf(&b, "Enter a number between %v and %v.", q.Min, q.Max)
	case domain.AnswerSelect:
		fmt.Fprintf(&b, "Options: `%s`", strings.Join(q.Options, "`, `"))
	case domain.AnswerMultiSelect:
		fmt.Fprintf(&b, "Options (comma-separated): `%s`", strings.Join(q.Options, "`, `"))
	}
	return b.String()
}

// actionDetails is the shape of the builtin catalog's action payloads.
type actionDetails struct {
	ResourceURL string `mapstructure:"resource_url"`
	Team        string `mapstructure:"team"`
	Specialty   string `mapstructure:"specialty"`
	WithinDays  int    `mapstructure:"within_days"`
}

func formatAction(fired domain.FiredAction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "> **%s** (%s, priority %s)", fired.Title, fired.Type, fired.Priority)

	var details actionDetails
	if err := fired.DecodeData(&details); err == nil {
		if details.ResourceURL != "" {
			fmt.Fprintf(&b, "\n> See: %s", details.ResourceURL)
		}
		if details.Team != "" {
			fmt.Fprintf(&b, "\n> The %s team will follow up", details.Team)
			if details.WithinDays > 0 {
				fmt.Fprintf(&b, " within %d days", details.WithinDays)
			}
			b.WriteString(".")
		}
		if details.Specialty != "" {
			fmt.Fprintf(&b, "\n> A %s consultation will be offered.", details.Specialty)
		}
	}
	return b.String()
}
