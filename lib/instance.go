package lib

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// StsInstance is the credential chain for one resolved profile: the
// long-lived key pair, the region, and the role to assume if the profile
// designates one. The static keys authenticate the role-assumption calls
// themselves; when no role is configured they are the caller's credential
// source directly.
type StsInstance struct {
	client  *sts.STS
	creds   *credentials.Credentials
	region  string
	roleArn string
}

// NewStsInstance resolves profileName, falling back to $AWS_PROFILE and
// then to DefaultProfileName when it is empty, and builds the chain from
// the profile's key material.
func NewStsInstance(profileName string) (*StsInstance, error) {
	info, err := ResolveProfile(profileName)
	if err != nil {
		return nil, err
	}
	return NewStsInstanceFromProfile(info)
}

// NewStsInstanceFromProfile builds the chain from an already resolved
// profile.
func NewStsInstanceFromProfile(info *ProfileInfo) (*StsInstance, error) {
	staticCreds := credentials.NewStaticCredentials(info.AccessKeyID, info.SecretAccessKey, "")
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(info.Region),
		Credentials: staticCreds,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating sts session for profile %s", info.Name)
	}

	log.Debugf("Using profile %s with key %s in %s", info.Name, last4(info.AccessKeyID), info.Region)

	return &StsInstance{
		client:  sts.New(sess),
		creds:   staticCreds,
		region:  info.Region,
		roleArn: info.RoleArn,
	}, nil
}

// Region returns the region the profile resolved to.
func (i *StsInstance) Region() string {
	return i.region
}

// RoleArn returns the role the profile assumes, or "" when the profile
// holds a direct identity.
func (i *StsInstance) RoleArn() string {
	return i.roleArn
}

// Provider returns an auto-refreshing provider for the instance's role,
// or nil when the profile carries no role to assume and the static keys
// should be used directly.
func (i *StsInstance) Provider() *AutoRefreshingProvider {
	if i.roleArn == "" {
		return nil
	}
	return NewAutoRefreshingProvider(i.client, i.roleArn)
}

// Credentials returns the credential source downstream clients should
// sign requests with: auto-refreshing role credentials when a role is
// configured, the static key pair otherwise.
func (i *StsInstance) Credentials() *credentials.Credentials {
	if p := i.Provider(); p != nil {
		return credentials.NewCredentials(p)
	}
	return i.creds
}

// Session returns an SDK session in the instance's region, backed by
// Credentials. Any service client can be constructed from it.
func (i *StsInstance) Session() (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(i.region),
		Credentials: i.Credentials(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating aws session")
	}
	return sess, nil
}
