package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"

	"github.com/ddboline/sts-profile-auth/lib"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:     "env",
	Short:   "env prints out export commands for the profile's credentials",
	Example: "  source <(sts-profile-auth env -p my-profile)",
	RunE:    envRun,
}

func init() {
	RootCmd.AddCommand(envCmd)
}

func printExport(varName, varValue string) {
	exportString := "export %s=%s\n"
	myShell, hasShell := os.LookupEnv("SHELL")
	if hasShell && strings.Contains(myShell, "fish") {
		exportString = "set -x %s %s\n"
	}
	fmt.Printf(exportString, varName, varValue)
}

func envRun(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return ErrTooManyArguments
	}

	instance, err := lib.NewStsInstance(profileName)
	if err != nil {
		return err
	}

	creds, err := instance.Credentials().Get()
	if err != nil {
		return err
	}

	printExport("AWS_ACCESS_KEY_ID", shellescape.Quote(creds.AccessKeyID))
	printExport("AWS_SECRET_ACCESS_KEY", shellescape.Quote(creds.SecretAccessKey))
	printExport("AWS_DEFAULT_REGION", shellescape.Quote(instance.Region()))
	printExport("AWS_REGION", shellescape.Quote(instance.Region()))

	if creds.SessionToken != "" {
		printExport("AWS_SESSION_TOKEN", shellescape.Quote(creds.SessionToken))
		printExport("AWS_SECURITY_TOKEN", shellescape.Quote(creds.SessionToken))
	}

	return nil
}
