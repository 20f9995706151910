package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/rpdg/groupsend/internal/config"
	"github.com/rpdg/groupsend/internal/logging"
	"github.com/rpdg/groupsend/screen"
)

func (a *app) probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show what groupsend sees: screen layout, client windows and template matches",
		Long: `probe reports the virtual desktop and monitor layout, the windows whose title
matches the configured window title, and where each template set matches on
the current screen. It sends no input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProbe(cmd)
		},
	}
}

func (a *app) runProbe(cmd *cobra.Command) error {
	defer logging.LogOperationStart(a.log, "probe")()
	out := cmd.OutOrStdout()
	cfg, err := a.store().Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("Probing with default configuration")
		cfg = config.Default()
	}

	b := a.env.Desktop.VirtualBounds()
	fmt.Fprintln(out, pterm.Bold.Sprint("Virtual desktop"))
	fmt.Fprintf(out, "  [%d, %d, %d, %d] %dx%d\n", b.Left, b.Top, b.Right, b.Bottom, b.Width(), b.Height())

	monitors, err := a.env.Desktop.Monitors()
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to enumerate monitors")
	}
	rows := pterm.TableData{{"#", "Bounds", "Work area", "Primary"}}
	for i, m := range monitors {
		rows = append(rows, []string{strconv.Itoa(i), rect(m.Bounds), rect(m.WorkArea), strconv.FormatBool(m.Primary)})
	}
	if err := a.table(out, rows); err != nil {
		return err
	}

	fmt.Fprintln(out, pterm.Bold.Sprintf("Windows titled %q", cfg.WindowTitle))
	wins, err := a.env.Desktop.FindByTitle(cfg.WindowTitle)
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to enumerate windows")
	}
	rows = pterm.TableData{{"Handle", "Title", "Position", "Size", "Minimized"}}
	for _, w := range wins {
		rows = append(rows, []string{
			fmt.Sprintf("%#x", w.Handle),
			w.Title,
			fmt.Sprintf("(%d, %d)", w.Left, w.Top),
			fmt.Sprintf("%dx%d", w.Width, w.Height),
			strconv.FormatBool(w.Minimized),
		})
	}
	if err := a.table(out, rows); err != nil {
		return err
	}

	fmt.Fprintln(out, pterm.Bold.Sprint("Template matches"))
	loc := screen.NewLocator(a.env.Desktop, logging.Component(a.log, "locator"))
	rows = pterm.TableData{{"Set", "Threshold", "Template", "Scale", "Score", "Center"}}
	for _, s := range []struct {
		name string
		set  screen.TemplateSet
	}{
		{"search", cfg.SearchSet()},
		{"group", cfg.GroupSet()},
	} {
		threshold := strconv.FormatFloat(s.set.Threshold, 'f', 2, 64)
		m, ok, err := loc.Find(s.set)
		switch {
		case err != nil:
			rows = append(rows, []string{s.name, threshold, "capture failed: " + err.Error(), "", "", ""})
		case !ok:
			rows = append(rows, []string{s.name, threshold, "no match", "", "", ""})
		default:
			rows = append(rows, []string{
				s.name, threshold, m.Template,
				strconv.FormatFloat(m.Scale, 'f', 1, 64),
				strconv.FormatFloat(m.Score, 'f', 3, 64),
				m.Point.String(),
			})
		}
	}
	return a.table(out, rows)
}

func (a *app) table(out io.Writer, rows pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, s)
	return nil
}

func rect(r screen.Rect) string {
	return fmt.Sprintf("[%d, %d, %d, %d]", r.Left, r.Top, r.Right, r.Bottom)
}
