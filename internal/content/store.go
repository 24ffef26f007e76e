package content

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Store runs section operations against the content tables.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// List returns a section's rows. Singletons yield zero or one element,
// collections come back by order then id.
func (s *Store) List(ctx context.Context, name string) (any, error) {
	sec, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	items, err := sec.list(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", name, err)
	}
	return items, nil
}

// Create inserts rec and returns a one-element slice with the stored row.
func (s *Store) Create(ctx context.Context, name string, rec any) (any, error) {
	sec, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	items, err := sec.create(ctx, s.db, rec)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return items, nil
}

// Update applies the listed fields of rec to row id.
func (s *Store) Update(ctx context.Context, name string, id uint, rec any, fields []string) (any, error) {
	sec, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	items, err := sec.update(ctx, s.db, id, rec, fields)
	if err != nil {
		return nil, fmt.Errorf("update %s/%d: %w", name, id, err)
	}
	return items, nil
}

// Delete removes row id from a collection section. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, name string, id uint) error {
	sec, err := Lookup(name)
	if err != nil {
		return err
	}
	if !sec.Deletable() {
		return ErrNotDeletable
	}
	if err := sec.remove(ctx, s.db, id); err != nil {
		return fmt.Errorf("delete %s/%d: %w", name, id, err)
	}
	return nil
}

// Upsert writes a singleton section: the first row is updated, or one is created.
// rec may come from DecodePartial; the full form rules apply before an insert.
func (s *Store) Upsert(ctx context.Context, name string, rec any, fields []string) (any, error) {
	sec, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if !sec.Singleton() {
		return nil, ErrNotSingleton
	}

	id, ok, err := sec.firstID(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", name, err)
	}
	if !ok {
		if err := sec.check(rec); err != nil {
			return nil, err
		}
		return s.Create(ctx, name, rec)
	}
	return s.Update(ctx, name, id, rec, fields)
}

// Counts reports the row count of every section.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(sectionNames))
	for _, name := range sectionNames {
		n, err := registry[name].count(ctx, s.db)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		out[name] = n
	}
	return out, nil
}
