package internal

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/clibforge/cshim/internal/env"
	"github.com/clibforge/cshim/project"
)

var envCmd = &cobra.Command{
	Use:   "env [project-name]",
	Short: "List the environment variables cshim responds to",
	Long: `Env lists the environment configuration surface for a project. The
project name comes from the argument, or from the cshim.json descriptor
in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		proj, err := project.Load(".")
		if err != nil {
			return fmt.Errorf("no project name given and no descriptor here: %w", err)
		}
		name = proj.Name
	}

	vars := env.AsMap(name)
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)

	var data [][]string
	for _, k := range names {
		v := vars[k]
		data = append(data, []string{v.Name, fmt.Sprintf("%v", v.Value), v.Description})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "VALUE", "DESCRIPTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
