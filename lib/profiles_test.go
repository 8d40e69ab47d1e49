package lib

import (
	"errors"
	"testing"
)

func TestResolveProfileDirectKeys(t *testing.T) {
	table := Profiles{
		"direct": {
			"aws_access_key_id":     "AKIADIRECTKEY",
			"aws_secret_access_key": "directsecret",
			"region":                "eu-west-1",
		},
	}

	info := resolveProfile("direct", table)
	if info == nil {
		t.Fatal("profile with its own keys should resolve")
	}
	if info.AccessKeyID != "AKIADIRECTKEY" || info.SecretAccessKey != "directsecret" {
		t.Error("resolved keys should be the profile's own")
	}
	if info.Region != "eu-west-1" {
		t.Errorf("region should be taken from the profile, got %q", info.Region)
	}
	if info.RoleArn != "" || info.SourceProfile != "" {
		t.Error("no role or source profile was configured")
	}
}

func TestResolveProfileRegionDefault(t *testing.T) {
	table := Profiles{
		"noregion": {
			"aws_access_key_id":     "AKIANOREGIONKEY",
			"aws_secret_access_key": "secret",
		},
	}

	info := resolveProfile("noregion", table)
	if info == nil {
		t.Fatal("profile should resolve")
	}
	if info.Region != DefaultRegion {
		t.Errorf("missing region should default to %s, got %q", DefaultRegion, info.Region)
	}
}

func TestResolveProfileSourceProfile(t *testing.T) {
	table := Profiles{
		"role": {
			"role_arn":       "arn:aws:iam::123456789012:role/admin",
			"source_profile": "base",
		},
		"base": {
			"aws_access_key_id":     "AKIABASEKEY",
			"aws_secret_access_key": "basesecret",
		},
	}

	info := resolveProfile("role", table)
	if info == nil {
		t.Fatal("profile borrowing keys from its source should resolve")
	}
	if info.AccessKeyID != "AKIABASEKEY" || info.SecretAccessKey != "basesecret" {
		t.Error("key material should come from the source profile")
	}
	if info.RoleArn != "arn:aws:iam::123456789012:role/admin" {
		t.Error("role_arn should be the profile's own")
	}
	if info.SourceProfile != "base" {
		t.Error("source profile name should be recorded")
	}
}

func TestResolveProfileSourceOverridesOwnKeys(t *testing.T) {
	table := Profiles{
		"both": {
			"aws_access_key_id":     "AKIAOWNKEY",
			"aws_secret_access_key": "ownsecret",
			"source_profile":        "base",
		},
		"base": {
			"aws_access_key_id":     "AKIABASEKEY",
			"aws_secret_access_key": "basesecret",
		},
	}

	info := resolveProfile("both", table)
	if info == nil {
		t.Fatal("profile should resolve")
	}
	if info.AccessKeyID != "AKIABASEKEY" || info.SecretAccessKey != "basesecret" {
		t.Error("keys present on the source should replace the profile's own")
	}
}

func TestResolveProfilePartialSourceFallsBack(t *testing.T) {
	table := Profiles{
		"mixed": {
			"aws_access_key_id":     "AKIAOWNKEY",
			"aws_secret_access_key": "ownsecret",
			"source_profile":        "keyonly",
		},
		"keyonly": {
			"aws_access_key_id": "AKIASOURCEKEY",
		},
	}

	info := resolveProfile("mixed", table)
	if info == nil {
		t.Fatal("profile should resolve")
	}
	if info.AccessKeyID != "AKIASOURCEKEY" {
		t.Error("the key the source carries should be used")
	}
	if info.SecretAccessKey != "ownsecret" {
		t.Error("the secret the source lacks should fall back to the profile's own")
	}
}

func TestResolveProfileDanglingSource(t *testing.T) {
	table := Profiles{
		"dangling": {
			"aws_access_key_id":     "AKIADANGLINGKEY",
			"aws_secret_access_key": "secret",
			"source_profile":        "missing",
		},
	}

	if info := resolveProfile("dangling", table); info != nil {
		t.Error("a dangling source_profile reference should fail resolution")
	}
}

func TestResolveProfileMissingKeys(t *testing.T) {
	table := Profiles{
		"nokeys": {
			"region": "us-east-1",
		},
		"nosecret": {
			"aws_access_key_id": "AKIANOSECRETKEY",
		},
	}

	if info := resolveProfile("nokeys", table); info != nil {
		t.Error("a profile without key material should not resolve")
	}
	if info := resolveProfile("nosecret", table); info != nil {
		t.Error("a profile missing its secret should not resolve")
	}
}

func TestResolveProfileAbsent(t *testing.T) {
	if info := resolveProfile("ghost", Profiles{}); info != nil {
		t.Error("an absent profile should not resolve")
	}
}

func TestProfileNameOrDefault(t *testing.T) {
	t.Run("explicit name wins", func(t *testing.T) {
		t.Setenv("AWS_PROFILE", "from-env")
		if got := profileNameOrDefault("explicit"); got != "explicit" {
			t.Errorf("expected explicit, got %q", got)
		}
	})

	t.Run("environment fills an empty name", func(t *testing.T) {
		t.Setenv("AWS_PROFILE", "from-env")
		if got := profileNameOrDefault(""); got != "from-env" {
			t.Errorf("expected from-env, got %q", got)
		}
	})

	t.Run("default is the last resort", func(t *testing.T) {
		t.Setenv("AWS_PROFILE", "")
		if got := profileNameOrDefault(""); got != DefaultProfileName {
			t.Errorf("expected %s, got %q", DefaultProfileName, got)
		}
	})
}

func TestLoadProfilesDropsUnresolvable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config", `[profile good]
aws_access_key_id = AKIAGOODKEY
aws_secret_access_key = goodsecret

[profile keyless]
region = us-east-1

[profile dangling]
role_arn = arn:aws:iam::123456789012:role/orphan
source_profile = nowhere
`)
	t.Setenv("AWS_CONFIG_FILE", dir)

	profiles, err := LoadProfiles()
	if err != nil {
		t.Fatalf("load error: %s", err)
	}

	if len(profiles) != 1 {
		t.Errorf("only the resolvable profile should survive, got %v", profiles)
	}
	if _, ok := profiles["good"]; !ok {
		t.Error("the resolvable profile should be present")
	}
}

func TestLoadProfilesMissingFiles(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", t.TempDir())

	profiles, err := LoadProfiles()
	if err != nil {
		t.Fatalf("missing config files should not be an error: %s", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected an empty table, got %v", profiles)
	}
}

func TestResolveProfileNotFound(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", t.TempDir())

	_, err := ResolveProfile("ghost")
	if err == nil {
		t.Fatal("resolving a profile that does not exist should fail")
	}

	var notFound *ProfileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected a ProfileNotFoundError, got %T: %s", err, err)
	}
	if notFound.Profile != "ghost" {
		t.Errorf("error should name the profile, got %q", notFound.Profile)
	}
}

func TestResolveProfileUsesEnvName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "credentials", `[envprof]
aws_access_key_id = AKIAENVKEY
aws_secret_access_key = envsecret
`)
	t.Setenv("AWS_CONFIG_FILE", dir)
	t.Setenv("AWS_PROFILE", "envprof")

	info, err := ResolveProfile("")
	if err != nil {
		t.Fatalf("resolve error: %s", err)
	}
	if info.Name != "envprof" {
		t.Errorf("AWS_PROFILE should select the profile, got %q", info.Name)
	}
}
