package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"kontak/internal/models"
)

// MemoryStore implements ContactStore with in-memory storage. It mirrors the
// PostgreSQL adapter's semantics, including the student id uniqueness
// invariant, and backs the handler tests.
type MemoryStore struct {
	contacts map[string]models.Contact
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory contact store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contacts: make(map[string]models.Contact),
	}
}

// FindAll returns all contacts ordered by name, case-insensitively.
func (m *MemoryStore) FindAll(ctx context.Context, order SortOrder) ([]models.Contact, error) {
	m.mu.RLock()
	contacts := make([]models.Contact, 0, len(m.contacts))
	for _, contact := range m.contacts {
		contacts = append(contacts, contact)
	}
	m.mu.RUnlock()

	sortByName(contacts, order)
	return contacts, nil
}

// FindOne retrieves a contact by id.
func (m *MemoryStore) FindOne(ctx context.Context, id string) (models.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	contact, exists := m.contacts[id]
	if !exists {
		return models.Contact{}, ErrNotFound
	}
	return contact, nil
}

// FindByStudentID retrieves the contact holding the given student id.
func (m *MemoryStore) FindByStudentID(ctx context.Context, npm string) (models.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, contact := range m.contacts {
		if contact.StudentID == npm {
			return contact, nil
		}
	}
	return models.Contact{}, ErrNotFound
}

// Search returns contacts whose name contains the given text, ignoring case.
func (m *MemoryStore) Search(ctx context.Context, name string) ([]models.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}
	needle := strings.ToLower(name)

	m.mu.RLock()
	matches := make([]models.Contact, 0)
	for _, contact := range m.contacts {
		if strings.Contains(strings.ToLower(contact.Name), needle) {
			matches = append(matches, contact)
		}
	}
	m.mu.RUnlock()

	sortByName(matches, SortAsc)
	return matches, nil
}

// Insert stores a new contact and returns it with the assigned id.
func (m *MemoryStore) Insert(ctx context.Context, contact models.Contact) (models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.contacts {
		if existing.StudentID != "" && existing.StudentID == contact.StudentID {
			return models.Contact{}, ErrDuplicateStudentID
		}
	}

	contact.ID = uuid.NewString()
	m.contacts[contact.ID] = contact
	return contact, nil
}

// Update replaces the fields of an existing contact. Unknown ids are a no-op,
// matching the SQL adapter.
func (m *MemoryStore) Update(ctx context.Context, id string, contact models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.contacts[id]; !exists {
		return nil
	}

	for existingID, existing := range m.contacts {
		if existingID != id && existing.StudentID != "" && existing.StudentID == contact.StudentID {
			return ErrDuplicateStudentID
		}
	}

	contact.ID = id
	m.contacts[id] = contact
	return nil
}

// Delete removes a contact. Unknown ids are not an error.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.contacts, id)
	return nil
}

// sortByName orders contacts by name with a case-folding collation, so the
// ordering agrees with the lower() expression index used by the SQL adapter.
func sortByName(contacts []models.Contact, order SortOrder) {
	collator := collate.New(language.English, collate.Loose)
	sort.SliceStable(contacts, func(i, j int) bool {
		cmp := collator.CompareString(contacts[i].Name, contacts[j].Name)
		if order == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}
