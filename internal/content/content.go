// Package content loads the site's static data: timeline entries for the
// orb, carousel runes, tarot services, testimonials, projects and socials.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/helasrebellion/arcana-forges/internal/carousel"
	"github.com/helasrebellion/arcana-forges/internal/orb"
)

//go:embed site.yaml
var defaultSite []byte

type TarotCard struct {
	ID       string `yaml:"id"`
	FrontImg string `yaml:"front_img"`
	BackImg  string `yaml:"back_img"`
	AltFront string `yaml:"alt_front"`
	AltBack  string `yaml:"alt_back"`
}

type Testimonial struct {
	Name         string `yaml:"name"`
	Title        string `yaml:"title"`
	Date         string `yaml:"date"`
	Relationship string `yaml:"relationship"`
	Quote        string `yaml:"quote"`
	LinkedInURL  string `yaml:"linkedin_url,omitempty"`
}

type Project struct {
	Title   string `yaml:"title"`
	Video   string `yaml:"video"`
	Poster  string `yaml:"poster"`
	RepoURL string `yaml:"repo_url"`
}

type Social struct {
	Label    string `yaml:"label"`
	URL      string `yaml:"url"`
	External bool   `yaml:"external"`
}

// Site is everything the pages render.
type Site struct {
	Origins      []orb.Entry      `yaml:"origins"`
	Runes        []carousel.Image `yaml:"runes"`
	Tarot        []TarotCard      `yaml:"tarot"`
	Testimonials []Testimonial    `yaml:"testimonials"`
	Projects     []Project        `yaml:"projects"`
	Socials      []Social         `yaml:"socials"`
	SeeMoreURL   string           `yaml:"see_more_url"`
	HeroVideo    string           `yaml:"hero_video"`
}

// Default returns the embedded site content.
func Default() (*Site, error) {
	return Parse(defaultSite)
}

// LoadFile reads a site file with the same shape as the embedded one.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects duplicate entry ids and unnamed testimonials.
func (s *Site) Validate() error {
	ids := make(map[string]bool, len(s.Origins))
	for i, e := range s.Origins {
		if e.ID == "" {
			return fmt.Errorf("origin %d: missing id", i)
		}
		if ids[e.ID] {
			return fmt.Errorf("origin %q: duplicate id", e.ID)
		}
		ids[e.ID] = true
	}
	for i, t := range s.Testimonials {
		if t.Name == "" {
			return fmt.Errorf("testimonial %d: missing name", i)
		}
	}
	return nil
}
