package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// projectTypePatterns maps marker files to human-readable project types
// and the build output usually worth hiding from rendered trees.
var projectTypePatterns = map[string]struct {
	Name    string
	Exclude []string
}{
	"go.mod":           {Name: "Go", Exclude: []string{"bin"}},
	"package.json":     {Name: "Node.js/TypeScript", Exclude: []string{"dist", "coverage"}},
	"requirements.txt": {Name: "Python", Exclude: []string{"*.egg-info", ".pytest_cache"}},
	"pyproject.toml":   {Name: "Python", Exclude: []string{"*.egg-info", ".pytest_cache"}},
	"Cargo.toml":       {Name: "Rust", Exclude: nil},
	"pom.xml":          {Name: "Java", Exclude: []string{"*.class"}},
	"build.gradle":     {Name: "Java/Kotlin", Exclude: []string{"build", ".gradle"}},
	"Gemfile":          {Name: "Ruby", Exclude: []string{".bundle"}},
	"composer.json":    {Name: "PHP", Exclude: nil},
	"*.csproj":         {Name: ".NET", Exclude: []string{"bin", "obj"}},
}

// detectProjectType checks dir for well-known project markers. Markers are
// tried in name order so the result is stable.
func detectProjectType(dir string) (name string, exclude []string) {
	markers := make([]string, 0, len(projectTypePatterns))
	for marker := range projectTypePatterns {
		markers = append(markers, marker)
	}
	sort.Strings(markers)

	for _, marker := range markers {
		matches, _ := filepath.Glob(filepath.Join(dir, marker))
		if len(matches) > 0 {
			info := projectTypePatterns[marker]
			return info.Name, info.Exclude
		}
	}
	return "", nil
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to asciitree! Let's configure your editor.")
	fmt.Println()

	cfg := DefaultConfig()

	projType, suggested := detectProjectType(".")
	if projType != "" {
		fmt.Printf("Detected project type: %s\n\n", projType)
	}

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:   "Editor port",
		Default: strconv.Itoa(DefaultPort),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 0 || p > 65535 {
				return fmt.Errorf("port must be a number between 0 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 2. Sibling order for ingested folders.
	sortPrompt := promptui.Select{
		Label: "Order of ingested folder entries",
		Items: []string{
			"sorted  - directories first, then by name",
			"listing - as the file system returns them",
		},
	}
	sortIdx, _, err := sortPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sort selection: %w", err)
	}
	cfg.Ingest.Sort = sortIdx == 0

	// 3. Exclude patterns, starting from the defaults.
	excludePrompt := promptui.Prompt{
		Label:   "Exclude patterns (comma-separated globs, empty for none)",
		Default: strings.Join(append(cfg.Ingest.Exclude, suggested...), ","),
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Ingest.Exclude = splitAndTrim(excludeStr)

	// 4. Placeholders.
	rootPrompt := promptui.Prompt{
		Label:   "Label shown for an unnamed root",
		Default: cfg.Placeholders.Root,
	}
	if cfg.Placeholders.Root, err = rootPrompt.Run(); err != nil {
		return nil, fmt.Errorf("root placeholder: %w", err)
	}
	branchPrompt := promptui.Prompt{
		Label:   "Label shown for an unnamed node",
		Default: cfg.Placeholders.Branch,
	}
	if cfg.Placeholders.Branch, err = branchPrompt.Run(); err != nil {
		return nil, fmt.Errorf("branch placeholder: %w", err)
	}

	// 5. Log level.
	levelPrompt := promptui.Select{
		Label: "Log level",
		Items: []string{"info", "debug", "warn", "error"},
	}
	if _, cfg.LogLevel, err = levelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
