package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/doctor"
	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/lookup"
	"github.com/glftpd/glspy/internal/shm"
	"github.com/glftpd/glspy/internal/snapshot"
	"github.com/glftpd/glspy/internal/ui"
	"github.com/glftpd/glspy/internal/web"
	"github.com/spf13/cobra"
)

var (
	doctorJSON bool
	doctorFix  bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the config and the glftpd install",
	Long: `Run diagnostic checks: the config file, the glftpd root and its group and
user files, the shared memory online table and, when enabled, GeoIP.

Exits non-zero when any check fails.

Examples:
  glspy doctor
  glspy doctor --json
  glspy doctor --fix`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.OutOrStdout(), globalOptions(), doctorJSON, doctorFix)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput is the JSON form of a doctor run.
type DoctorOutput struct {
	Categories []doctor.CategoryResults `json:"categories"`
	Summary    SummaryOutput            `json:"summary"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

func doctorCommand(w io.Writer, opts appOptions, asJSON, fix bool) error {
	// A broken config still gets checked; the schema check reports it.
	cfg, _, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil || cfg == nil {
		cfg = config.DefaultConfig()
	}

	checks, closeChecks := collectChecks(cfg, opts)
	defer closeChecks()

	results := doctor.RunAllParallel(checks)
	if fix {
		results = doctor.FixAll(checks, results)
	}

	if asJSON {
		if err := outputDoctorJSON(w, checks, results); err != nil {
			return err
		}
	} else {
		outputDoctorText(w, checks, results, fix)
	}

	if doctor.HasFailures(results) {
		return errors.New(errors.ErrConfig, doctor.Summary(results), "")
	}
	return nil
}

// collectChecks builds every check that applies to cfg. The returned func
// releases the GeoIP client.
func collectChecks(cfg *config.Config, opts appOptions) ([]doctor.Check, func()) {
	var checks []doctor.Check
	checks = append(checks, doctor.NewConfigChecks(opts.ConfigPath, cfg)...)
	checks = append(checks, doctor.NewSiteChecks(cfg)...)

	var source shm.Reader
	if opts.From != "" {
		source = snapshot.FileSource{Path: opts.From}
	} else if key, err := config.ParseIPCKey(cfg.IPCKey); err == nil {
		source = shm.New(key)
	}
	if source != nil {
		checks = append(checks, &doctor.TableCheck{Source: source})
	}

	geoCheck := &doctor.GeoIPCheck{Config: cfg.GeoIP}
	closeGeo := func() {}
	if cfg.GeoIP.Enabled && cfg.GeoIP.AccountID != "" && cfg.GeoIP.LicenseKey != "" {
		geo := lookup.NewGeoIP(cfg.GeoIP.AccountID, cfg.GeoIP.LicenseKey, cfg.GeoIP.URL, cfg.GeoIP.Timeout)
		geoCheck.Locator = geo
		closeGeo = geo.Close
	}
	checks = append(checks, geoCheck)

	return checks, closeGeo
}

func outputDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	counts := doctor.CountByStatus(results)
	return web.WriteJSONSuccess(w, DoctorOutput{
		Categories: doctor.GroupResults(checks, results),
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			Fixable:  doctor.FixableCount(results),
			AllClear: !doctor.HasIssues(results),
		},
	})
}

func outputDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	headerStyle := lipgloss.NewStyle().Bold(true)
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("glspy Diagnostic Report"))
	fmt.Fprintln(w)

	for _, category := range doctor.GroupResults(checks, results) {
		fmt.Fprintln(w, headerStyle.Render(category.Name))
		for _, result := range category.Results {
			renderCheckResult(w, result)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if !doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))
		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Run with %s to attempt automatic fixes where possible.\n", ui.Muted("--fix"))
		}
	}
	fmt.Fprintln(w)
}

func renderCheckResult(w io.Writer, result doctor.CheckResult) {
	switch result.Status {
	case doctor.StatusPass:
		fmt.Fprintf(w, "  %s\n", ui.Success(result.Message))
	case doctor.StatusWarn:
		fmt.Fprintf(w, "  %s\n", ui.Warn(result.Message))
	default:
		fmt.Fprintf(w, "  %s\n", ui.Fail(result.Message))
	}

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", ui.Muted(line))
		}
	}
}
