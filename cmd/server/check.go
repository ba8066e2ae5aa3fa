package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rahul4469/securelink/internal/models"
	"github.com/rahul4469/securelink/internal/services"
	"github.com/rahul4469/securelink/internal/views"
)

var jsonOutput bool

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Analyze a single URL and print the verdict",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the raw JSON result")
}

func runCheck(cmd *cobra.Command, args []string) error {
	client := services.NewOpenRouterClient(cfg.Provider)
	analyzer := services.NewURLAnalyzer(client, logger, nil)

	result, err := analyzer.Analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(out, renderVerdict(args[0], result))
	return nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F8FAFC"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// renderVerdict draws the result card for the terminal using the same
// status palette as the web page.
func renderVerdict(rawURL string, result *models.AnalysisResult) string {
	theme := views.ThemeFor(string(result.Status))
	accent := lipgloss.Color(theme.Color)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(accent).Render(strings.ToUpper(theme.Label)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d%% confidence", result.Confidence)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(rawURL))
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Key Findings"))
	b.WriteString("\n")
	for _, reason := range result.Reasons {
		b.WriteString(lipgloss.NewStyle().Foreground(accent).Render("• "))
		b.WriteString(reason)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Security Recommendation"))
	b.WriteString("\n")
	b.WriteString(result.Recommendation)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(result.Details))

	return boxStyle.BorderForeground(accent).Render(b.String())
}
