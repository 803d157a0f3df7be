// Package prompts holds the model prompt catalogs. Each catalog is a JSON
// file mapping prompt keys to templates, embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	catalogOnce sync.Once
	catalogErr  error
	catalog     map[string]map[string]string
)

var placeholderRe = regexp.MustCompile(`\{\{\.([A-Za-z]+)\}\}`)

// loadCatalog parses every embedded catalog file once.
func loadCatalog() {
	catalog = make(map[string]map[string]string)

	entries, err := promptFiles.ReadDir(".")
	if err != nil {
		catalogErr = fmt.Errorf("failed to read embedded prompts: %w", err)
		return
	}

	for _, entry := range entries {
		data, err := promptFiles.ReadFile(entry.Name())
		if err != nil {
			catalogErr = fmt.Errorf("failed to read prompt file %s: %w", entry.Name(), err)
			return
		}

		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			catalogErr = fmt.Errorf("failed to parse prompt file %s: %w", entry.Name(), err)
			return
		}
		catalog[entry.Name()] = prompts
	}
}

// Get retrieves a prompt template by catalog filename and key. The filename
// carries no path (e.g. "builder.json").
func Get(filename, key string) (string, error) {
	catalogOnce.Do(loadCatalog)
	if catalogErr != nil {
		return "", catalogErr
	}

	prompts, ok := catalog[filename]
	if !ok {
		return "", fmt.Errorf("failed to read prompt file %s: no such catalog", filename)
	}

	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet retrieves a prompt template by catalog filename and key, panicking
// if not found. Use for prompts required at initialization time.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders in the template with values from data.
// Placeholders with no matching key are left in place.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}

// Render loads a prompt and substitutes data into it. It fails if the
// template still contains a placeholder afterwards, so a catalog edit that
// introduces a new variable is caught at call time rather than sent to the
// model as literal braces.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}

	result := Format(template, data)
	if m := placeholderRe.FindString(result); m != "" {
		return "", fmt.Errorf("prompt %s/%s: unresolved placeholder %s", filename, key, m)
	}
	return result, nil
}
