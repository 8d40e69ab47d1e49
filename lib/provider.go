package lib

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ddboline/sts-profile-auth/internal/sessioncache"
)

const (
	// DefaultRoleSessionName is the session name recorded in CloudTrail
	// for roles assumed through this package.
	DefaultRoleSessionName = "default"

	// DefaultExpiryWindow is how long before the hard expiration cached
	// role credentials are treated as stale and refreshed.
	DefaultExpiryWindow = time.Minute * 5

	// ProviderName is reported in credentials.Value by Retrieve.
	ProviderName = "sts-profile-auth"
)

// assumeRoleAPI is the slice of the STS client the provider needs,
// narrowed so tests can count and gate the upstream calls.
type assumeRoleAPI interface {
	AssumeRoleWithContext(aws.Context, *sts.AssumeRoleInput, ...request.Option) (*sts.AssumeRoleOutput, error)
}

// AutoRefreshingProvider hands out temporary credentials for one role,
// re-assuming it shortly before the previous set expires. It is safe for
// concurrent use: callers racing on an expired cache share a single
// AssumeRole call and all observe its result or its failure.
type AutoRefreshingProvider struct {
	credentials.Expiry
	client          assumeRoleAPI
	roleArn         string
	roleSessionName string
	window          time.Duration
	sessions        *sessioncache.Store
}

// NewAutoRefreshingProvider wraps an AssumeRole-capable client and a role
// ARN in a provider with an empty cache.
func NewAutoRefreshingProvider(client assumeRoleAPI, roleArn string) *AutoRefreshingProvider {
	return &AutoRefreshingProvider{
		client:          client,
		roleArn:         roleArn,
		roleSessionName: DefaultRoleSessionName,
		window:          DefaultExpiryWindow,
		sessions:        &sessioncache.Store{Window: DefaultExpiryWindow},
	}
}

// GetCredentials returns the cached credential set, refreshing it first
// when it is missing or inside the expiry window. ctx cancels only this
// caller's wait: a refresh already under way continues for the other
// waiters and its result is cached for whoever asks next.
func (p *AutoRefreshingProvider) GetCredentials(ctx context.Context) (*sts.Credentials, error) {
	sess, err := p.sessions.Fetch(ctx, p.assumeRole)
	if err != nil {
		return nil, err
	}
	return &sess.Credentials, nil
}

func (p *AutoRefreshingProvider) assumeRole(ctx context.Context) (*sessioncache.Session, error) {
	input := &sts.AssumeRoleInput{
		RoleArn:         aws.String(p.roleArn),
		RoleSessionName: aws.String(p.roleSessionName),
	}

	log.Debugf("Assuming role %s", p.roleArn)
	resp, err := p.client.AssumeRoleWithContext(ctx, input)
	if err != nil {
		return nil, errors.Wrapf(err, "assuming role %s", p.roleArn)
	}
	if resp.Credentials == nil {
		return nil, errors.Errorf("assuming role %s returned no credentials", p.roleArn)
	}

	creds := resp.Credentials
	log.Debugf("Assumed role %s with key %s, expires in %s",
		p.roleArn,
		last4(aws.StringValue(creds.AccessKeyId)),
		time.Until(aws.TimeValue(creds.Expiration)).String())

	return &sessioncache.Session{
		Name:        p.roleSessionName,
		Credentials: *creds,
	}, nil
}

// Retrieve implements the SDK credentials.Provider contract so service
// clients can consume the provider through credentials.NewCredentials.
func (p *AutoRefreshingProvider) Retrieve() (credentials.Value, error) {
	creds, err := p.GetCredentials(context.Background())
	if err != nil {
		return credentials.Value{}, err
	}

	p.SetExpiration(aws.TimeValue(creds.Expiration), p.window)

	return credentials.Value{
		AccessKeyID:     aws.StringValue(creds.AccessKeyId),
		SecretAccessKey: aws.StringValue(creds.SecretAccessKey),
		SessionToken:    aws.StringValue(creds.SessionToken),
		ProviderName:    ProviderName,
	}, nil
}

// last4 is what access key ids look like in logs. Secret keys and session
// tokens are never logged at all.
func last4(s string) string {
	if len(s) < 4 {
		return "****"
	}
	return s[len(s)-4:]
}
