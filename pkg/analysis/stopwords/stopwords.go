package stopwords

import (
	"embed"
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"
)

//go:embed lists/*.yaml
var lists embed.FS

var aliases = map[string]string{
	"pt":         "pt",
	"pt-pt":      "pt",
	"pt-br":      "pt",
	"portuguese": "pt",
	"en":         "en",
	"english":    "en",
}

// List is a case-insensitive stopword set for one language
type List struct {
	language string
	set      mapset.Set[string]
}

type listFile struct {
	Terms []string `yaml:"terms"`
}

// New returns the built-in list for language
func New(language string) (*List, error) {
	code, ok := aliases[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("no stopword list for language %q", language)
	}

	data, err := lists.ReadFile("lists/" + code + ".yaml")
	if err != nil {
		return nil, err
	}

	terms, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("built-in %s stopwords: %w", code, err)
	}
	return FromTerms(code, terms), nil
}

// Load returns the list for language, replaced by the terms of the YAML file
// at path when path is not empty.
func Load(language, path string) (*List, error) {
	if path == "" {
		return New(language)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stopword file %s: %w", path, err)
	}

	terms, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stopword file %s: %w", path, err)
	}
	return FromTerms(language, terms), nil
}

// FromTerms builds a list from explicit terms
func FromTerms(language string, terms []string) *List {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set.Add(t)
		}
	}
	return &List{language: language, set: set}
}

func parse(data []byte) ([]string, error) {
	var f listFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Terms) == 0 {
		return nil, fmt.Errorf("no terms")
	}
	return f.Terms, nil
}

// IsStopword reports whether word is in the list
func (l *List) IsStopword(word string) bool {
	return l.set.Contains(strings.ToLower(word))
}

// Language returns the language code of the list
func (l *List) Language() string {
	return l.language
}

// Len returns the number of stopwords
func (l *List) Len() int {
	return l.set.Cardinality()
}
