// Package profile resolves named OCI connection profiles from the local config file.
package profile

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-ini/ini"

	"usagereports/config"
	"usagereports/internal/errs"
)

// DefaultSection holds values inherited by every named profile.
var DefaultSection = ini.DefaultSection

// Profile is one named set of connection settings for a tenancy.
type Profile struct {
	Name            string
	Tenancy         string
	Region          string
	User            string
	Fingerprint     string
	KeyFile         string
	AccessKeyID     string
	SecretAccessKey string
}

// HasStaticCredentials reports whether the profile carries its own S3 compatibility keys.
func (p *Profile) HasStaticCredentials() bool {
	return p.AccessKeyID != "" && p.SecretAccessKey != ""
}

// Store loads profiles by name.
type Store interface {
	Load(name string) (*Profile, error)
}

// FileStore reads profiles from an INI file in the layout of ~/.oci/config.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: config.ExpandHome(path)}
}

func (s *FileStore) Load(name string) (*Profile, error) {
	const op = "load profile"

	if name == "" {
		return nil, errs.Wrap(errs.CodeConfiguration, op, errors.New("profile name is empty"))
	}

	if _, err := os.Stat(s.Path); err != nil {
		return nil, errs.Wrap(errs.CodeConfiguration, op, fmt.Errorf("config file %s: %w", s.Path, err))
	}

	file, err := ini.Load(s.Path)
	if err != nil {
		return nil, errs.Wrap(errs.CodeConfiguration, op, fmt.Errorf("failed to parse %s: %w", s.Path, err))
	}

	section, err := file.GetSection(name)
	if err != nil {
		return nil, errs.Wrap(errs.CodeConfiguration, op,
			fmt.Errorf("profile %q not found in %s (available: %s)", name, s.Path, strings.Join(sectionNames(file), ", ")))
	}
	defaults := file.Section(DefaultSection)

	value := func(key string) string {
		if k, err := section.GetKey(key); err == nil {
			return strings.TrimSpace(k.String())
		}
		if k, err := defaults.GetKey(key); err == nil {
			return strings.TrimSpace(k.String())
		}
		return ""
	}

	p := &Profile{
		Name:            name,
		Tenancy:         value("tenancy"),
		Region:          value("region"),
		User:            value("user"),
		Fingerprint:     value("fingerprint"),
		KeyFile:         config.ExpandHome(value("key_file")),
		AccessKeyID:     value("access_key_id"),
		SecretAccessKey: value("secret_access_key"),
	}

	if p.Tenancy == "" {
		return nil, errs.Wrap(errs.CodeConfiguration, op, fmt.Errorf("profile %q has no tenancy", name))
	}
	if p.Region == "" {
		return nil, errs.Wrap(errs.CodeConfiguration, op, fmt.Errorf("profile %q has no region", name))
	}

	return p, nil
}

// List returns the names of every profile in the file, DEFAULT first.
func (s *FileStore) List() ([]string, error) {
	file, err := ini.Load(s.Path)
	if err != nil {
		return nil, errs.Wrap(errs.CodeConfiguration, "list profiles", err)
	}
	return sectionNames(file), nil
}

func sectionNames(file *ini.File) []string {
	var names []string
	hasDefault := false
	for _, section := range file.Sections() {
		if section.Name() == DefaultSection {
			hasDefault = len(section.Keys()) > 0
			continue
		}
		names = append(names, section.Name())
	}
	sort.Strings(names)
	if hasDefault {
		names = append([]string{DefaultSection}, names...)
	}
	return names
}
