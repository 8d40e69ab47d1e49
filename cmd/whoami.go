package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/spf13/cobra"

	"github.com/ddboline/sts-profile-auth/lib"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "whoami prints the caller identity the profile's credentials resolve to",
	RunE:  whoamiRun,
}

func init() {
	RootCmd.AddCommand(whoamiCmd)
}

func whoamiRun(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return ErrTooManyArguments
	}

	instance, err := lib.NewStsInstance(profileName)
	if err != nil {
		return err
	}

	sess, err := instance.Session()
	if err != nil {
		return err
	}

	identity, err := sts.New(sess).GetCallerIdentityWithContext(cmd.Context(), &sts.GetCallerIdentityInput{})
	if err != nil {
		return err
	}

	w := new(tabwriter.Writer)
	w.Init(os.Stdout, 0, 8, 2, '\t', 0)
	fmt.Fprintln(w, "ACCOUNT\tARN\tUSER_ID\t")
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		aws.StringValue(identity.Account),
		aws.StringValue(identity.Arn),
		aws.StringValue(identity.UserId))
	return w.Flush()
}
