package lib

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Profiles maps a profile name to the raw key/value directives read for it
// from the config files. Within a profile, a later duplicate key wins.
type Profiles map[string]map[string]string

// profileHeader matches `[NAME]` and `[profile NAME]` section headers.
var profileHeader = regexp.MustCompile(`^\[(profile )?([^\]]+)\]$`)

type config interface {
	Parse() (Profiles, error)
}

type fileConfig struct {
	dir string
}

// NewConfigFromEnv locates the AWS config directory: $AWS_CONFIG_FILE when
// set, otherwise ~/.aws. The directory itself is not required to exist;
// missing files inside it simply contribute no profiles at parse time.
func NewConfigFromEnv() (config, error) {
	dir := os.Getenv("AWS_CONFIG_FILE")
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil || home == "" {
			return nil, ErrNoHomeDir
		}
		dir = filepath.Join(home, ".aws")
	}
	return &fileConfig{dir: dir}, nil
}

// Parse reads the `config` and `credentials` files into a single Profiles
// table. The credentials file is read second: its keys merge into profiles
// already seen, overriding same-name keys, and profiles only present there
// are added.
func (c *fileConfig) Parse() (Profiles, error) {
	profiles := Profiles{}
	for _, name := range []string{"config", "credentials"} {
		if err := parseConfigFile(filepath.Join(c.dir, name), profiles); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// parseConfigFile reads one INI-style file into profiles. A missing or
// non-regular file contributes nothing. Lines that fit neither the header
// grammar nor `key = value` are skipped rather than treated as errors, so
// directives this package does not understand never abort parsing.
func parseConfigFile(file string, profiles Profiles) error {
	fi, err := os.Stat(file)
	if err != nil || !fi.Mode().IsRegular() {
		log.Debugf("Skipping config file %s", file)
		return nil
	}

	log.Debugf("Parsing config file %s", file)
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrapf(err, "opening config file %s", file)
	}
	defer f.Close()

	current := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := profileHeader.FindStringSubmatch(line); m != nil {
			current = m[2]
			continue
		}
		// key/value lines before the first header have no profile to
		// belong to and are dropped.
		if current == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		if _, ok := profiles[current]; !ok {
			profiles[current] = map[string]string{}
		}
		profiles[current][key] = value
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "reading config file %s", file)
	}
	return nil
}
