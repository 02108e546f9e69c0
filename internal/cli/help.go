package cli

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/dextest/internal/driver"
	"github.com/AndreyAkinshin/dextest/internal/output"
	"github.com/AndreyAkinshin/dextest/internal/registry"
	"github.com/AndreyAkinshin/dextest/internal/report"
)

const helpFlagWidth = 16

// printUsage prints the help text.
func printUsage(w *output.Writer) {
	w.HelpTitle("dextest - golden-file regression tests for dexter")

	w.HelpSection("Usage:")
	w.HelpUsage("dextest [options]")

	w.HelpSection("Description:")
	w.Println("  Runs every registered test case against the .dex inputs under the")
	w.Println("  test data root and compares the tool output with the expected files")
	w.Println("  in <root>/expected. With -update the expected files are rewritten.")

	w.HelpSection("Options:")
	w.HelpFlag("-cmd <command>", fmt.Sprintf("Tool invocation (default %q)", DefaultCommand), helpFlagWidth)
	w.HelpFlag("-root <path>", fmt.Sprintf("Test data root (default %q)", DefaultRoot), helpFlagWidth)
	w.HelpFlag("-update", "Regenerate expected output (requires -root)", helpFlagWidth)
	w.HelpFlag("-run <regexp>", "Only run cases whose name matches", helpFlagWidth)
	w.HelpFlag("-j <n>", fmt.Sprintf("Run n tool processes at once (default %d, or $%s)", driver.DefaultJobs, driver.ParallelEnvVar), helpFlagWidth)
	w.HelpFlag("-v", "Print each tool invocation", helpFlagWidth)
	w.HelpFlag("-color <mode>", "Colorize output: auto, on, or off", helpFlagWidth)
	w.HelpFlag("-list", "List the test cases and exit", helpFlagWidth)
	w.HelpFlag("-version", "Print the version and exit", helpFlagWidth)
	w.HelpFlag("-h", "Show this help", helpFlagWidth)

	w.HelpSection("Examples:")
	titleCase := cases.Title(language.English)
	w.HelpExample("dextest -cmd out/host/bin/dexter",
		fmt.Sprintf("%s output against %s/expected", titleCase.String(report.Verify.String()), DefaultRoot))
	w.HelpExample("dextest -root tools/dexter/testdata -update",
		fmt.Sprintf("%s every expected output file", titleCase.String(report.Update.String())))
	w.HelpExample("dextest -run '^(map|stats)$' -v",
		fmt.Sprintf("%s two cases, printing each invocation", titleCase.String(report.Verify.String())))
	w.Println("")
}

// printCases prints the registry as a table.
func printCases(w *output.Writer, reg *registry.Registry) {
	rows := make([][]string, 0, reg.Len())
	for _, c := range reg.All() {
		rows = append(rows, []string{
			c.Name,
			c.Args,
			strings.Join(c.Inputs, " "),
			strings.Join(c.Skip, " "),
		})
	}
	w.Table([]string{"CASE", "ARGS", "INPUTS", "SKIP"}, rows)
}
