package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"code-review-pipeline/internal/executor"
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/report"
	"code-review-pipeline/internal/review"
	reviewRepo "code-review-pipeline/internal/review/repository/sqlite"
	reviewUC "code-review-pipeline/internal/review/usecase"
	"code-review-pipeline/internal/rule"
	ruleRepo "code-review-pipeline/internal/rule/repository/sqlite"
	ruleUC "code-review-pipeline/internal/rule/usecase"
	"code-review-pipeline/internal/workspace"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", e.cfg.Database.Path)
			return nil
		},
	}
}

func newRulesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage event rules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ensure-defaults",
		Short: "Seed the built-in rules that are missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			uc := ruleUC.New(ruleRepo.New(db, e.l), e.l)
			out, err := uc.EnsureDefaults(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d built-in rules\n", out.Created, out.Total)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List event rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			out, err := ruleUC.New(ruleRepo.New(db, e.l), e.l).List(cmd.Context(), rule.ListInput{})
			if err != nil {
				return err
			}
			table := newTable(cmd.OutOrStdout(), "ID", "Name", "Event", "State")
			for _, r := range out.Rules {
				_ = table.Append([]string{r.ID, cyan(r.Name), r.EventType, activeColor(r.Active)})
			}
			return table.Render()
		},
	})

	var inactive bool
	importCmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create rules from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			seeds, err := rule.ParseSeeds(data)
			if err != nil {
				return err
			}

			db, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			uc := ruleUC.New(ruleRepo.New(db, e.l), e.l)
			for _, s := range seeds {
				r, err := uc.Create(cmd.Context(), rule.CreateInput{
					Name:        s.Name,
					EventType:   s.EventType,
					Description: s.Description,
					Pattern:     s.Pattern,
					Active:      !inactive,
				})
				if err != nil {
					return fmt.Errorf("rule %q: %w", s.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.ID, r.Name)
			}
			return nil
		},
	}
	importCmd.Flags().BoolVar(&inactive, "inactive", false, "Create the rules deactivated")
	cmd.AddCommand(importCmd)

	return cmd
}

func newJobsCmd(e *env) *cobra.Command {
	var (
		projectID int64
		status    string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent review jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			out, err := reviewUC.New(reviewRepo.New(db, e.l), e.l).List(cmd.Context(), review.ListInput{
				ProjectID: projectID,
				Status:    model.JobStatus(status),
				Limit:     limit,
			})
			if err != nil {
				return err
			}
			table := newTable(cmd.OutOrStdout(), "ID", "Project", "MR", "Status", "Score", "Title", "Created")
			for _, j := range out.Jobs {
				_ = table.Append([]string{
					j.ID,
					strconv.FormatInt(j.ProjectID, 10),
					"!" + strconv.FormatInt(j.ChangeRef, 10),
					statusColor(j.Status),
					scoreColor(j.Score),
					j.Title,
					j.CreatedAt.Local().Format(time.DateTime),
				})
			}
			if err := table.Render(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d jobs\n", len(out.Jobs), out.Total)
			return nil
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "Filter by project id")
	cmd.Flags().StringVar(&status, "status", "", "pending, processing, completed or failed")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows")
	return cmd
}

func newSweepCmd(e *env) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove working copies untouched for the retention period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := workspace.New(workspace.Config{
				BaseDir:    e.cfg.Workspace.BaseDir,
				GitTimeout: e.cfg.Workspace.GitTimeout,
			}, workspace.NewExecRunner(e.cfg.Workspace.GitTimeout), e.l)
			if err != nil {
				return err
			}
			if days <= 0 {
				days = e.cfg.Workspace.RetentionDays
			}
			res, err := m.Sweep(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d working copies (%.2f MB), %d busy\n",
				res.Count, float64(res.Bytes)/1024/1024, res.Skipped)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (default from config)")
	return cmd
}

func newMockCmd(_ *env) *cobra.Command {
	var in report.MockInput
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Render the canned report the mock executor produces",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep := report.Mock(in)
			fmt.Fprintln(cmd.OutOrStdout(), report.Format(rep, report.JobContext{
				ProjectName: in.ProjectName,
				Title:       in.Title,
				Author:      in.Author,
				Executor:    executor.ProviderMock,
				FileCount:   in.FileCount,
				Time:        time.Now(),
			}))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.ProjectName, "project", "demo", "Project name")
	cmd.Flags().StringVar(&in.Title, "title", "Example change", "Merge request title")
	cmd.Flags().StringVar(&in.Author, "author", "reviewer", "Merge request author")
	cmd.Flags().IntVar(&in.FileCount, "files", 3, "Number of changed files")
	cmd.Flags().IntVar(&in.ChangesCount, "changes", 42, "Number of changed lines")
	return cmd
}

func newPromptCmd(e *env) *cobra.Command {
	var focus string
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the built-in review prompt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if focus == "" {
				focus = e.cfg.Pipeline.PromptFocus
			}
			fmt.Fprintln(cmd.OutOrStdout(), executor.Prompt(focus))
			return nil
		},
	}
	cmd.Flags().StringVar(&focus, "focus", "", "default, security or performance")
	return cmd
}

func newProbeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report the version of the configured reviewer CLI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli := executor.Config{
				Provider: e.cfg.Executor.Provider,
				Claude:   executor.ClaudeConfig{CLIPath: e.cfg.Executor.Claude.CLIPath},
				OpenCode: executor.OpenCodeConfig{CLIPath: e.cfg.Executor.OpenCode.CLIPath},
			}.CLIPath()
			if cli == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: available\n", e.cfg.Executor.Provider)
				return nil
			}
			version, err := executor.NewProber(executor.DefaultProbeTimeout).Probe(cmd.Context(), cli)
			if err != nil {
				return fmt.Errorf("%s unavailable: %w", cli, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cli, version)
			return nil
		},
	}
}
