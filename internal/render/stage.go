package render

import (
	"html/template"
	"sync"

	"github.com/jask/cardcraft/internal/card"
)

// PreviewElementID is the id of the live preview in the builder.
const PreviewElementID = "business-card-preview"

// ExportElementID is the off-screen element mounted for an export.
func ExportElementID(cardID string) string { return "export-card-" + cardID }

// ShareElementID is the off-screen element mounted for a share.
func ShareElementID(cardID string) string { return "share-card-" + cardID }

// Element is a mounted card rendering.
type Element struct {
	ID   string
	Card card.Card
	HTML template.HTML
}

// Stage is the tree of mounted elements, addressed by element id.
// It is safe for concurrent use.
type Stage struct {
	mu       sync.RWMutex
	elements map[string]Element
}

func NewStage() *Stage {
	return &Stage{elements: map[string]Element{}}
}

// Mount renders c under id, replacing any element already there.
func (s *Stage) Mount(id string, c card.Card) error {
	html, err := Fragment(id, c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[id] = Element{ID: id, Card: c, HTML: html}
	return nil
}

// MountTemporary mounts c and returns the matching unmount.
func (s *Stage) MountTemporary(id string, c card.Card) (func(), error) {
	if err := s.Mount(id, c); err != nil {
		return func() {}, err
	}
	return func() { s.Unmount(id) }, nil
}

func (s *Stage) Unmount(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.elements, id)
}

func (s *Stage) Lookup(id string) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.elements[id]
	return el, ok
}

// Len reports how many elements are mounted.
func (s *Stage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}
