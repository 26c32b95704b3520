package moderation

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed dictionaries.yaml
var defaultDictionaries []byte

// Dictionaries is the versioned keyword reference data shared by the
// Assessor and the severity classifier. It is loaded once and never mutated.
type Dictionaries struct {
	Version       int                 `yaml:"version" json:"version"`
	HighSeverity  []string            `yaml:"high_severity" json:"high_severity"`
	Emergency     []string            `yaml:"emergency" json:"emergency"`
	Profanity     map[string][]string `yaml:"profanity" json:"profanity"`
	Substitutions map[string]string   `yaml:"substitutions" json:"substitutions"`
}

// BlobReader is the subset of blob storage needed to fetch a dictionary document.
type BlobReader interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// DefaultDictionaries returns the dictionaries compiled into the binary.
func DefaultDictionaries() *Dictionaries {
	d, err := ParseDictionaries(bytes.NewReader(defaultDictionaries))
	if err != nil {
		panic(fmt.Sprintf("embedded dictionaries: %v", err))
	}
	return d
}

// ParseDictionaries decodes and validates a YAML dictionary document.
func ParseDictionaries(r io.Reader) (*Dictionaries, error) {
	var d Dictionaries
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidDictionaries, err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDictionaries resolves the dictionary source: a blob key when both key
// and blobs are set, else a file path, else the embedded default.
func LoadDictionaries(ctx context.Context, path, key string, blobs BlobReader) (*Dictionaries, error) {
	switch {
	case key != "" && blobs != nil:
		rc, err := blobs.Download(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("download dictionaries %s: %w", key, err)
		}
		defer rc.Close()
		return ParseDictionaries(rc)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dictionaries: %w", err)
		}
		defer f.Close()
		return ParseDictionaries(f)
	default:
		return DefaultDictionaries(), nil
	}
}

// ProfanityTerms returns every profanity list merged in list-name order.
func (d *Dictionaries) ProfanityTerms() []string {
	names := make([]string, 0, len(d.Profanity))
	for name := range d.Profanity {
		names = append(names, name)
	}
	slices.Sort(names)

	var terms []string
	for _, name := range names {
		terms = append(terms, d.Profanity[name]...)
	}
	return terms
}

func (d *Dictionaries) validate() error {
	if d.Version < 1 {
		return fmt.Errorf("%w: version must be positive", ErrInvalidDictionaries)
	}
	if len(d.HighSeverity) == 0 {
		return fmt.Errorf("%w: high_severity list is empty", ErrInvalidDictionaries)
	}
	if len(d.Emergency) == 0 {
		return fmt.Errorf("%w: emergency list is empty", ErrInvalidDictionaries)
	}
	for from, to := range d.Substitutions {
		if utf8.RuneCountInString(from) != 1 || utf8.RuneCountInString(to) != 1 {
			return fmt.Errorf("%w: substitution %q -> %q must map one character to one character", ErrInvalidDictionaries, from, to)
		}
	}
	return nil
}
