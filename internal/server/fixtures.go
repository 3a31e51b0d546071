package server

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/desertthunder/skillstream/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures seeds the in-memory store.
type Fixtures struct {
	Users      []UserFixture    `yaml:"users"`
	Courses    []models.Course  `yaml:"courses"`
	Favourites map[string][]int `yaml:"favourites"`
}

// UserFixture carries a plaintext password that is hashed at seed time.
type UserFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// DefaultFixtures returns the embedded sample catalog.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// LoadFixtures reads a fixtures file. An empty path returns [DefaultFixtures].
func LoadFixtures(path string) (*Fixtures, error) {
	if path == "" {
		return DefaultFixtures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	for i := range f.Courses {
		if f.Courses[i].Tags == nil {
			f.Courses[i].Tags = []string{}
		}
	}
	return &f, nil
}
