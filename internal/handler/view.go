package handler

import (
	"sync"

	"nsportal/internal/domain/models"
)

// responseView collects what the delete flow reports for one request so it
// can be written back as JSON. The reload callback may fire after the
// response was sent, hence the lock.
type responseView struct {
	mu           sync.Mutex
	confirmation *models.Namespace
	errors       []string
	successes    []string
	reloads      int
}

// ViewMessages is the JSON form of what the operator would have seen
type ViewMessages struct {
	Confirmation *models.Namespace `json:"confirmation,omitempty"`
	Errors       []string          `json:"errors"`
	Successes    []string          `json:"successes"`
}

func newResponseView() *responseView {
	return &responseView{}
}

func (v *responseView) ShowConfirmationDialog(ns models.Namespace) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.confirmation = &ns
}

func (v *responseView) ShowLocalError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, message)
}

func (v *responseView) ShowSuccess(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.successes = append(v.successes, message)
}

// ReloadView only counts calls. HTTP clients reload on their own after
// reload_after_ms.
func (v *responseView) ReloadView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reloads++
}

func (v *responseView) snapshot() ViewMessages {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ViewMessages{
		Confirmation: v.confirmation,
		Errors:       append([]string{}, v.errors...),
		Successes:    append([]string{}, v.successes...),
	}
}
