package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("catalog: not found")

type MediaKind string

const (
	Image MediaKind = "image"
	Video MediaKind = "video"
)

// Project is an immutable portfolio entry. Interactive points hold a pointer
// into the catalog slice but never own or mutate it.
type Project struct {
	Slug        string    `yaml:"slug,omitempty"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Media       string    `yaml:"media"`
	Kind        MediaKind `yaml:"type"`
}

type file struct {
	Projects []Project `yaml:"projects"`
}

func Default() []Project {
	return []Project{
		{Slug: "project1", Title: "Metaverse Concierge", Description: "A cross-reality onboarding funnel aligning 3D, product, and brand surfaces.", Media: "assets/portfolio/project1.jpg", Kind: Image},
		{Slug: "project2", Title: "AI Ops Cockpit", Description: "Realtime observability with adaptive automation patterns for lean teams.", Media: "assets/portfolio/project2.jpg", Kind: Image},
		{Slug: "project3", Title: "Fintech Origination", Description: "Borrower journeys reimagined with trust micro-interactions and audit trails.", Media: "assets/portfolio/project3.jpg", Kind: Image},
		{Slug: "project4", Title: "Mobility Cloud", Description: "Fleet intelligence dashboard scaling from pilots to global deployments.", Media: "assets/portfolio/project4.jpg", Kind: Image},
		{Slug: "project5", Title: "Healthcare OS", Description: "Clinical workflows unified around signal-based care loops and metrics.", Media: "assets/portfolio/project5.jpg", Kind: Image},
		{Slug: "project6", Title: "Immersive Retail", Description: "Spatial storytelling bridging physical retail and digital loyalty.", Media: "assets/portfolio/project6.jpg", Kind: Image},
	}
}

// Load reads a YAML catalog of the form `projects: [...]`.
func Load(path string) ([]Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	for i := range f.Projects {
		p := &f.Projects[i]
		if p.Kind == "" {
			p.Kind, _ = KindFor(p.Media)
		}
		if p.Slug == "" {
			p.Slug = Slugify(p.Title)
		}
	}
	return f.Projects, nil
}

func Save(path string, projects []Project) error {
	data, err := yaml.Marshal(file{Projects: projects})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Discover builds a catalog from the media files found in dir, ordered by
// file name. Each file is matched to an entry of meta by slug; unmatched files
// get a title derived from the file name and an empty description.
func Discover(dir string, meta []Project) ([]Project, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, err
	}

	bySlug := make(map[string]Project, len(meta))
	for _, m := range meta {
		slug := m.Slug
		if slug == "" {
			slug = Slugify(m.Title)
		}
		bySlug[slug] = m
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := KindFor(e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	projects := make([]Project, 0, len(names))
	for _, name := range names {
		kind, _ := KindFor(name)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		slug := Slugify(stem)

		p, ok := bySlug[slug]
		if !ok {
			p = Project{Slug: slug, Title: TitleCase(stem)}
		}
		p.Media = filepath.ToSlash(filepath.Join(dir, name))
		p.Kind = kind
		projects = append(projects, p)
	}
	return projects, nil
}

var extKinds = map[string]MediaKind{
	".jpg": Image, ".jpeg": Image, ".png": Image, ".webp": Image, ".gif": Image, ".avif": Image,
	".mp4": Video, ".webm": Video, ".mov": Video,
}

// KindFor infers the media kind from a file extension.
func KindFor(path string) (MediaKind, bool) {
	k, ok := extKinds[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Image, false
	}
	return k, true
}

// Slugify lowercases s and collapses every run of non-alphanumerics into '-'.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// TitleCase turns a file stem like "mobility_cloud-v2" into "Mobility Cloud V2".
func TitleCase(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}
