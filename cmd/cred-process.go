package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/spf13/cobra"

	"github.com/ddboline/sts-profile-auth/lib"
)

const credProcessVersion = 1

var pretty bool

type credProcess struct {
	Version         int    `json:"Version"`
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	SessionToken    string `json:"SessionToken,omitempty"`
	Expiration      string `json:"Expiration,omitempty"`
}

// credProcessCmd represents the cred-process command
var credProcessCmd = &cobra.Command{
	Use:     "cred-process",
	Short:   "cred-process generates credential_process ready output",
	Example: "  [profile foo]\n  credential_process = sts-profile-auth cred-process -p foo",
	RunE:    credProcessRun,
}

func init() {
	RootCmd.AddCommand(credProcessCmd)
	credProcessCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty print display")
}

func credProcessRun(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return ErrTooManyArguments
	}

	instance, err := lib.NewStsInstance(profileName)
	if err != nil {
		return err
	}

	cp := credProcess{Version: credProcessVersion}

	if provider := instance.Provider(); provider != nil {
		creds, err := provider.GetCredentials(cmd.Context())
		if err != nil {
			return err
		}
		cp.AccessKeyID = aws.StringValue(creds.AccessKeyId)
		cp.SecretAccessKey = aws.StringValue(creds.SecretAccessKey)
		cp.SessionToken = aws.StringValue(creds.SessionToken)
		cp.Expiration = aws.TimeValue(creds.Expiration).Format(time.RFC3339)
	} else {
		// static keys do not expire; leaving Expiration out tells the
		// consumer not to schedule a refresh
		value, err := instance.Credentials().Get()
		if err != nil {
			return err
		}
		cp.AccessKeyID = value.AccessKeyID
		cp.SecretAccessKey = value.SecretAccessKey
	}

	var output []byte
	if pretty {
		output, err = json.MarshalIndent(cp, "", "    ")
	} else {
		output, err = json.Marshal(cp)
	}
	if err != nil {
		return err
	}

	fmt.Println(string(output))
	return nil
}
