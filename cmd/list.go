package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ddboline/sts-profile-auth/lib"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list shows the profiles that resolve to usable credentials",
	RunE:  listRun,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func listRun(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return ErrTooManyArguments
	}

	profiles, err := lib.LoadProfiles()
	if err != nil {
		return err
	}

	// sort the profile names so the output is deterministic
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	w := new(tabwriter.Writer)
	w.Init(os.Stdout, 0, 8, 2, '\t', 0)
	fmt.Fprintln(w, "PROFILE\tREGION\tROLE_ARN\tSOURCE_PROFILE\t")
	for _, name := range names {
		p := profiles[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Region, p.RoleArn, p.SourceProfile)
	}
	return w.Flush()
}
