package lib

import (
	"os"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultProfileName is used when neither an explicit name nor
	// $AWS_PROFILE selects a profile.
	DefaultProfileName = "default"

	// DefaultRegion is applied to profiles that do not set one.
	DefaultRegion = "us-east-1"
)

// ProfileInfo is a fully resolved profile: concrete long-lived key
// material, the region to use, and the role to assume if the profile
// designates one. Key material has already been borrowed from the source
// profile where applicable.
type ProfileInfo struct {
	Name            string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	RoleArn         string
	SourceProfile   string
}

// LoadProfiles parses and merges the config files and resolves every
// profile found there. Profiles without usable key material, including
// those whose source_profile is dangling, are dropped rather than
// returned half-resolved.
func LoadProfiles() (map[string]ProfileInfo, error) {
	config, err := NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	raw, err := config.Parse()
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]ProfileInfo, len(raw))
	for name := range raw {
		info := resolveProfile(name, raw)
		if info == nil {
			log.Debugf("Dropping profile %s: no usable key material", name)
			continue
		}
		resolved[name] = *info
	}
	return resolved, nil
}

// ResolveProfile resolves a single named profile against a freshly parsed
// table. An empty name falls back to $AWS_PROFILE and then to
// DefaultProfileName.
func ResolveProfile(name string) (*ProfileInfo, error) {
	name = profileNameOrDefault(name)

	config, err := NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	raw, err := config.Parse()
	if err != nil {
		return nil, err
	}

	info := resolveProfile(name, raw)
	if info == nil {
		return nil, &ProfileNotFoundError{Profile: name}
	}
	return info, nil
}

func profileNameOrDefault(name string) string {
	if name != "" {
		return name
	}
	if env := os.Getenv("AWS_PROFILE"); env != "" {
		return env
	}
	return DefaultProfileName
}

// resolveProfile converts one raw entry, following at most one
// source_profile hop for key material. The source's key and secret each
// replace the profile's own value only when the source carries them; a
// dangling source or missing final key material makes the profile
// unresolvable and nil is returned.
func resolveProfile(name string, from Profiles) *ProfileInfo {
	conf, ok := from[name]
	if !ok {
		return nil
	}

	info := ProfileInfo{
		Name:            name,
		Region:          conf["region"],
		AccessKeyID:     conf["aws_access_key_id"],
		SecretAccessKey: conf["aws_secret_access_key"],
		RoleArn:         conf["role_arn"],
		SourceProfile:   conf["source_profile"],
	}
	if info.Region == "" {
		info.Region = DefaultRegion
	}

	if info.SourceProfile != "" {
		source, ok := from[info.SourceProfile]
		if !ok {
			log.Debugf("Profile %s references missing source profile %s", name, info.SourceProfile)
			return nil
		}
		if id := source["aws_access_key_id"]; id != "" {
			info.AccessKeyID = id
		}
		if secret := source["aws_secret_access_key"]; secret != "" {
			info.SecretAccessKey = secret
		}
	}

	if info.AccessKeyID == "" || info.SecretAccessKey == "" {
		return nil
	}
	return &info
}
