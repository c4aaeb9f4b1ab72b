package messages

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var catalogFiles embed.FS

// DefaultLocale is used when a requested locale has no catalog.
const DefaultLocale = "en"

// Message keys used by the delete flow.
const (
	KeyPrivateNamespace = "private_namespace"
	KeyPermissionDenied = "permission_denied"
	KeyLookupFailed     = "lookup_failed"
	KeyDeleteSucceeded  = "delete_succeeded"
	KeyDeleteFailed     = "delete_failed"
)

// Message is one user-facing notification.
type Message struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type catalogFile struct {
	Locale   string             `yaml:"locale"`
	Messages map[string]Message `yaml:"messages"`
}

// Catalog holds the embedded message catalogs, keyed by locale.
type Catalog struct {
	locales map[string]map[string]Message
	locale  string
	mu      sync.RWMutex
}

// NewCatalog loads the embedded catalogs and selects locale, falling back
// to DefaultLocale when it is unknown.
func NewCatalog(locale string) (*Catalog, error) {
	c := &Catalog{
		locales: make(map[string]map[string]Message),
	}

	for _, name := range []string{"en", "zh"} {
		if err := c.loadLocaleFile(name); err != nil {
			return nil, fmt.Errorf("failed to load %s messages: %w", name, err)
		}
	}

	c.locale = DefaultLocale
	if _, ok := c.locales[locale]; ok {
		c.locale = locale
	}

	return c, nil
}

func (c *Catalog) loadLocaleFile(name string) error {
	filename := fmt.Sprintf("catalog/%s.yaml", name)
	data, err := catalogFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if file.Locale != name {
		return fmt.Errorf("%s declares locale %q", filename, file.Locale)
	}

	c.mu.Lock()
	c.locales[name] = file.Messages
	c.mu.Unlock()

	return nil
}

// Locale returns the selected locale
func (c *Catalog) Locale() string {
	return c.locale
}

// Get returns the message for key formatted with args. Keys missing from the
// selected locale fall back to DefaultLocale, then to the key itself.
func (c *Catalog) Get(key string, args ...any) Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	msg, ok := c.locales[c.locale][key]
	if !ok {
		msg, ok = c.locales[DefaultLocale][key]
	}
	if !ok {
		return Message{Title: key, Text: key}
	}

	if len(args) > 0 {
		msg.Text = fmt.Sprintf(msg.Text, args...)
	}
	return msg
}

// Text is shorthand for Get(key, args...).Text
func (c *Catalog) Text(key string, args ...any) string {
	return c.Get(key, args...).Text
}
