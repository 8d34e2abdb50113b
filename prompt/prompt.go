// Package prompt renders the text sent to the classification, drafting and
// review capabilities.
package prompt

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/template"
)

// Template is a named text/template. Rendering fails on any variable the
// caller did not supply.
type Template struct {
	Name string
	tmpl *template.Template
}

// NewTemplate parses content.
func NewTemplate(name, content string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return &Template{Name: name, tmpl: tmpl}, nil
}

// Render executes the template with vars.
func (t *Template) Render(vars map[string]any) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", t.Name, err)
	}
	return sb.String(), nil
}

// Manager is a concurrency-safe registry of templates keyed by name.
type Manager struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{templates: make(map[string]*Template)}
}

// Register adds tmpl. Names are unique.
func (m *Manager) Register(tmpl *Template) error {
	if tmpl == nil || tmpl.Name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[tmpl.Name]; ok {
		return fmt.Errorf("template %s already registered", tmpl.Name)
	}
	m.templates[tmpl.Name] = tmpl
	return nil
}

// RegisterString parses content and registers it under name.
func (m *Manager) RegisterString(name, content string) error {
	tmpl, err := NewTemplate(name, content)
	if err != nil {
		return err
	}
	return m.Register(tmpl)
}

// Render looks up name and renders it.
func (m *Manager) Render(name string, vars map[string]any) (string, error) {
	m.mu.RLock()
	tmpl, ok := m.templates[name]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}
	return tmpl.Render(vars)
}

// List returns the registered names, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
