package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/clibforge/cshim/link"
	"github.com/clibforge/cshim/x/cgoflags"
)

var (
	linkargsConfig   string
	linkargsPlatform string
	linkargsFlags    bool
)

var linkargsCmd = &cobra.Command{
	Use:   "linkargs <build-dir> <target>",
	Short: "Recover link arguments from an existing native build tree",
	Long: `Linkargs parses the build files CMake generated for <target> under
<build-dir> and lists the recovered link arguments, without building
anything. The platform override allows inspecting build trees produced
on another operating system.`,
	Args: cobra.ExactArgs(2),
	RunE: runLinkargs,
}

func init() {
	linkargsCmd.Flags().StringVar(&linkargsConfig, "config", "Release", "Build configuration to select in project files")
	linkargsCmd.Flags().StringVar(&linkargsPlatform, "platform", "host", "Artifact platform: host, unix or windows")
	linkargsCmd.Flags().BoolVar(&linkargsFlags, "flags", false, "Print plain cgo flags instead of a table")
	rootCmd.AddCommand(linkargsCmd)
}

func runLinkargs(cmd *cobra.Command, args []string) error {
	p, err := parsePlatform(linkargsPlatform)
	if err != nil {
		return err
	}

	linkArgs, err := p.Extract(args[0], args[1], linkargsConfig)
	if err != nil {
		return err
	}

	if linkargsFlags {
		fmt.Println(strings.Join(cgoflags.Flags(linkArgs), " "))
		return nil
	}

	var data [][]string
	for _, arg := range linkArgs {
		switch a := arg.(type) {
		case link.Dir:
			data = append(data, []string{"dir", a.Path, ""})
		case link.Lib:
			data = append(data, []string{"lib", a.Name, ""})
		case link.Dylib:
			data = append(data, []string{"dylib", a.Path(), a.Basename()})
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"KIND", "VALUE", "BASENAME"})
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

func parsePlatform(name string) (link.Platform, error) {
	switch name {
	case "host", "":
		return link.Host(), nil
	case "unix":
		return link.Unix, nil
	case "windows":
		return link.Windows, nil
	}
	return 0, fmt.Errorf("unknown platform %q (want host, unix or windows)", name)
}
