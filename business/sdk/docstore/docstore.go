// Package docstore provides a single-document flat-file persistence engine.
//
// The whole relay state lives in one JSON document. Reads and writes are
// serialized through a single in-process writer (one mutex) and every save
// is a write-to-temp-file plus atomic rename. Read-modify-write of the whole
// document is only safe because of that single writer; the relay process must
// be the only writer of the file.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Tenant is the persisted form of a registered tenant.
type Tenant struct {
	ID                 string    `json:"id"`
	APIKey             string    `json:"apiKey"`
	RequiredCapability string    `json:"requiredCapability"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Entry is the persisted form of a mailbox slot entry.
type Entry struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"`
	Payload     map[string]string `json:"payload"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// Document is the complete persisted state: the tenant registry keyed by
// tenant id and the mailbox slots keyed by bearer key and command kind.
type Document struct {
	Tenants   map[string]Tenant           `json:"tenants"`
	Mailboxes map[string]map[string]Entry `json:"mailboxes"`
}

// Store owns the document file. All access goes through Update and View.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  Document
}

// Open loads the document from disk, creating an empty one if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := Store{
		path: path,
		doc: Document{
			Tenants:   make(map[string]Tenant),
			Mailboxes: make(map[string]map[string]Entry),
		},
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &s, nil
	case err != nil:
		return nil, fmt.Errorf("reading document: %w", err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	if s.doc.Tenants == nil {
		s.doc.Tenants = make(map[string]Tenant)
	}
	if s.doc.Mailboxes == nil {
		s.doc.Mailboxes = make(map[string]map[string]Entry)
	}

	return &s, nil
}

// Update runs fn against the document under the writer lock and persists the
// result. fn operates on a copy that is published only after a successful
// save, so a failed mutation is never observable.
func (s *Store) Update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Work on a copy so a failed fn or a failed save leaves the published
	// document untouched.
	work := s.doc.clone()

	if err := fn(&work); err != nil {
		return err
	}

	if err := s.save(work); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	s.doc = work

	return nil
}

// View runs fn against the document under the reader lock. fn must not
// mutate the document or retain references past the call.
func (s *Store) View(fn func(doc *Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&s.doc)
}

func (s *Store) save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".relay-*.json")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

func (d Document) clone() Document {
	c := Document{
		Tenants:   make(map[string]Tenant, len(d.Tenants)),
		Mailboxes: make(map[string]map[string]Entry, len(d.Mailboxes)),
	}

	for id, t := range d.Tenants {
		c.Tenants[id] = t
	}

	for key, slots := range d.Mailboxes {
		m := make(map[string]Entry, len(slots))
		for kind, e := range slots {
			cp := e
			cp.Payload = make(map[string]string, len(e.Payload))
			for k, v := range e.Payload {
				cp.Payload[k] = v
			}
			m[kind] = cp
		}
		c.Mailboxes[key] = m
	}

	return c
}
