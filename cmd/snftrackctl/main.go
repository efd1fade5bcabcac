// snftrackctl is the local-first companion CLI for snftrack. It keeps a
// facility workspace on disk, imports roster files, runs readiness
// assessments offline, and pushes tracker state to a running server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridwell/snftrack/internal/assess"
	"github.com/gridwell/snftrack/internal/importer"
	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/syncclient"
	"github.com/gridwell/snftrack/internal/workspace"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// rootFlags holds flags shared by every subcommand.
type rootFlags struct {
	dir      string
	server   string
	username string
	password string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "snftrackctl",
		Short:         "Local-first workspace for AB 2511 compliance tracking",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.dir, "dir", defaultWorkspaceDir(), "Workspace directory")
	pf.StringVar(&flags.server, "server", envOr("SNFTRACK_SERVER", "http://localhost:8080"), "snftrack server base URL")
	pf.StringVar(&flags.username, "username", os.Getenv("SNFTRACK_USERNAME"), "Username for server sync")
	pf.StringVar(&flags.password, "password", os.Getenv("SNFTRACK_PASSWORD"), "Password for server sync")

	root.AddCommand(
		newImportCmd(&flags),
		newPullCmd(&flags),
		newSelectCmd(&flags),
		newProgressCmd(&flags),
		newStatusCmd(&flags),
		newPushCmd(&flags),
	)
	return root
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a CSV or XLSX facility roster into the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := openWorkspace(flags)

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open roster: %w", err)
			}
			defer f.Close()

			var res importer.Result
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".xlsx":
				res, err = importer.ParseXLSX(f)
			default:
				res, err = importer.ParseCSV(f)
			}
			if err != nil {
				return fmt.Errorf("parse roster: %w", err)
			}
			if err := ws.AddFacilities(res.Facilities); err != nil {
				return fmt.Errorf("update workspace: %w", err)
			}

			fmt.Printf("imported %d facilities (%d rows skipped)\n", len(res.Facilities), len(res.RowErrors))
			for _, re := range res.RowErrors {
				fmt.Fprintln(os.Stderr, "WARN:", re.Error())
			}
			return nil
		},
	}
}

func newPullCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Fetch the facility list from the server into the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := openWorkspace(flags)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			client, err := login(ctx, flags)
			if err != nil {
				return err
			}
			facilities, err := client.Facilities(ctx)
			if err != nil {
				return err
			}
			if err := ws.AddFacilities(facilities); err != nil {
				return fmt.Errorf("update workspace: %w", err)
			}
			fmt.Printf("pulled %d facilities\n", len(facilities))
			return nil
		},
	}
}

func newSelectCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "select <facility-id>",
		Short: "Choose the facility subsequent commands operate on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := openWorkspace(flags)
			if err := ws.SelectFacility(args[0]); err != nil {
				return err
			}
			fmt.Println("selected", args[0])
			return nil
		},
	}
}

func newProgressCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <stage> <true|false>",
		Short: "Set one tracker stage flag for the selected facility",
		Long: "Stages: " + strings.Join([]string{
			model.StageProfile, model.StageAssessment, model.StageCompliance,
			model.StageFinancial, model.StageDeployment,
		}, ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("value must be true or false, got %q", args[1])
			}
			ws := openWorkspace(flags)
			if ws.Selected() == nil {
				return fmt.Errorf("no facility selected; run snftrackctl select first")
			}
			if err := ws.UpdateProgress(args[0], value); err != nil {
				return err
			}
			fmt.Printf("%s = %v (revision %d)\n", args[0], value, ws.Revision())
			return nil
		},
	}
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the selected facility, tracker state, and readiness assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := openWorkspace(flags)

			sel := ws.Selected()
			if sel == nil {
				fmt.Printf("%d facilities in workspace, none selected\n", len(ws.Facilities()))
				return nil
			}

			p := ws.Progress()
			rec := model.FacilityProgress{
				FacilityID:         sel.FacilityID,
				ProfileComplete:    &p.ProfileComplete,
				AssessmentComplete: &p.AssessmentComplete,
				ComplianceComplete: &p.ComplianceComplete,
				FinancialComplete:  &p.FinancialComplete,
				DeploymentComplete: &p.DeploymentComplete,
			}
			report := assess.Evaluate(*sel, rec)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "facility:\t%s (%s)\n", sel.Name, sel.FacilityID)
			fmt.Fprintf(w, "beds:\t%d\n", sel.NumBeds)
			fmt.Fprintf(w, "stages complete:\t%d of 5\n", report.StagesComplete)
			if report.NextStage != "" {
				fmt.Fprintf(w, "next stage:\t%s\n", report.NextStage)
			}
			fmt.Fprintf(w, "required capacity:\t%.1f kW / %.0f kWh\n", report.RequiredKW, report.RequiredKWh)
			fmt.Fprintf(w, "estimated cost:\t$%.0f\n", report.EstimatedCost)
			fmt.Fprintf(w, "payback:\t%.1f years\n", report.PaybackYears)
			fmt.Fprintf(w, "priority:\t%s\n", report.Priority)
			fmt.Fprintf(w, "revision:\t%d", ws.Revision())
			if ws.Dirty() {
				fmt.Fprintf(w, " (unpushed changes)")
			}
			fmt.Fprintln(w)
			return w.Flush()
		},
	}
}

func newPushCmd(flags *rootFlags) *cobra.Command {
	var pushFacilities bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push the selected facility's tracker state to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := openWorkspace(flags)

			sel := ws.Selected()
			if sel == nil {
				return fmt.Errorf("no facility selected; run snftrackctl select first")
			}
			if !ws.Dirty() {
				fmt.Println("nothing to push")
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			client, err := login(ctx, flags)
			if err != nil {
				return err
			}
			if pushFacilities {
				for _, f := range ws.Facilities() {
					if err := client.PushFacility(ctx, f); err != nil {
						return fmt.Errorf("push facility %s: %w", f.FacilityID, err)
					}
				}
				fmt.Printf("pushed %d facilities\n", len(ws.Facilities()))
			}
			if _, err := client.SaveProgress(ctx, sel.FacilityID, ws.Progress()); err != nil {
				return err
			}
			if err := ws.MarkPushed(); err != nil {
				return fmt.Errorf("mark pushed: %w", err)
			}
			fmt.Printf("pushed progress for %s (revision %d)\n", sel.FacilityID, ws.Revision())
			return nil
		},
	}
	cmd.Flags().BoolVar(&pushFacilities, "facilities", false,
		"Also upload the workspace facility list via the admin endpoint (requires the admin role)")
	return cmd
}

func openWorkspace(flags *rootFlags) *workspace.Workspace {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ws := workspace.New(flags.dir, log)
	ws.Load()
	return ws
}

func login(ctx context.Context, flags *rootFlags) (*syncclient.Client, error) {
	if flags.username == "" || flags.password == "" {
		return nil, fmt.Errorf("server credentials required (--username/--password or SNFTRACK_USERNAME/SNFTRACK_PASSWORD)")
	}
	client := syncclient.New(flags.server)
	if err := client.Login(ctx, flags.username, flags.password); err != nil {
		return nil, err
	}
	return client, nil
}

func defaultWorkspaceDir() string {
	if d := os.Getenv("SNFTRACK_WORKSPACE"); d != "" {
		return d
	}
	return ".snftrack"
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
