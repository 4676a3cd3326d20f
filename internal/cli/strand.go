package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/loom/internal/app"
	"github.com/runoshun/loom/internal/usecase"
)

// newStrandCommand creates the strand command group.
func newStrandCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strand",
		Short: "Manage strands (persistent work streams)",
	}
	cmd.AddCommand(
		newStrandNewCommand(c),
		newStrandListCommand(c),
		newStrandStatusCommand(c),
		newStrandRmCommand(c),
	)
	return cmd
}

func newStrandNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Description string
		Color       string
		Remote      string
		Keywords    []string
		Workspace   bool
	}

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new strand",
		Long: `Create a new strand.

A strand is a persistent work stream. With --workspace, loom provisions a
git repository for it (cloned from --remote when given); goals created
later with worktrees branch off inside that workspace.

Examples:
  # Create a bare strand
  loom strand new billing

  # Create a strand with a fresh workspace
  loom strand new billing --workspace

  # Create a strand cloning an existing repository
  loom strand new billing --workspace --remote https://example.com/billing.git`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.NewStrandUseCase().Execute(cmd.Context(), usecase.NewStrandInput{
				Name:            args[0],
				Description:     opts.Description,
				Color:           opts.Color,
				RemoteURL:       opts.Remote,
				Keywords:        opts.Keywords,
				CreateWorkspace: opts.Workspace || opts.Remote != "",
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created strand %s (%s)\n", out.Strand.Name, out.Strand.ID)
			if out.WorkspacePath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Workspace: %s\n", out.WorkspacePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Strand description")
	cmd.Flags().StringVar(&opts.Color, "color", "", "Display color")
	cmd.Flags().StringVar(&opts.Remote, "remote", "", "Remote URL to clone (implies --workspace)")
	cmd.Flags().StringSliceVar(&opts.Keywords, "keyword", nil, "Keyword (repeatable)")
	cmd.Flags().BoolVar(&opts.Workspace, "workspace", false, "Provision a git workspace")
	return cmd
}

func newStrandListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List strands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListStrandsUseCase().Execute(cmd.Context(), usecase.ListStrandsInput{})
			if err != nil {
				return err
			}
			if len(out.Strands) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No strands")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tGOALS\tWORKSPACE")
			for _, s := range out.Strands {
				workspace := "-"
				if s.Strand.HasWorkspace() {
					workspace = s.Strand.Workspace.RootPath
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n",
					s.Strand.ID, s.Strand.Name, s.DoneGoals, s.Goals, workspace)
			}
			return w.Flush()
		},
	}
}

func newStrandStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status <strand-id>",
		Short: "Show goal and task progress for a strand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.StrandStatusUseCase().Execute(cmd.Context(), usecase.StrandStatusInput{StrandID: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Strand %s (%s)\n", out.Strand.Name, out.Strand.ID)
			if len(out.Goals) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No goals")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "GOAL\tTITLE\tSTATUS\tTASKS\tELIGIBLE\tBRANCH")
			for _, g := range out.Goals {
				status := string(g.Goal.Status)
				if g.Blocked {
					status = "blocked"
				}
				branch := "-"
				switch {
				case g.BranchErr != "":
					branch = "error: " + g.BranchErr
				case g.HasBranch:
					branch = fmt.Sprintf("%s (+%d -%d)", g.Goal.Worktree.BranchName, g.Branch.Ahead, g.Branch.Behind)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%s\n",
					g.Goal.ID, g.Goal.Title, status, g.DoneTasks, len(g.Goal.Tasks), g.Eligible, branch)
			}
			return w.Flush()
		},
	}
}

func newStrandRmCommand(c *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <strand-id>",
		Short: "Remove a strand, its goals, and its workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("removing a strand deletes its workspace from disk; re-run with --force")
			}
			if err := c.RemoveStrandUseCase().Execute(cmd.Context(), usecase.RemoveStrandInput{StrandID: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed strand %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm the destructive removal")
	return cmd
}
