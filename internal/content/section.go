package content

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"phPortfolio/internal/database"
)

// Section is one editable content table.
type Section interface {
	Name() string
	// Singleton sections hold at most one meaningful row.
	Singleton() bool
	Deletable() bool
	// Decode parses a JSON body and validates it against the full form rules.
	// It returns the record and the struct fields the body actually carried.
	Decode(body []byte) (any, []string, error)
	// DecodePartial is Decode for updates: only the carried fields are validated.
	DecodePartial(body []byte) (any, []string, error)

	check(rec any) error

	list(ctx context.Context, db *gorm.DB) (any, error)
	create(ctx context.Context, db *gorm.DB, rec any) (any, error)
	update(ctx context.Context, db *gorm.DB, id uint, rec any, fields []string) (any, error)
	remove(ctx context.Context, db *gorm.DB, id uint) error
	firstID(ctx context.Context, db *gorm.DB) (uint, bool, error)
	count(ctx context.Context, db *gorm.DB) (int64, error)
}

type record interface {
	database.Hero | database.About | database.Project | database.Skill | database.Experience | database.Contact
}

var (
	orderColumn = clause.OrderByColumn{Column: clause.Column{Name: "order"}}
	idColumn    = clause.OrderByColumn{Column: clause.Column{Name: "id"}}
)

type section[T record, P interface {
	*T
	SetID(uint)
	GetID() uint
}] struct {
	name      string
	singleton bool
	// json key -> struct field, only for client-writable columns
	fields map[string]string
}

func newSection[T record, P interface {
	*T
	SetID(uint)
	GetID() uint
}](name string, singleton bool) *section[T, P] {
	s, err := schema.Parse(new(T), &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		panic(fmt.Sprintf("parse %s schema: %v", name, err))
	}

	fields := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if f.DBName == "" || f.PrimaryKey || f.AutoCreateTime > 0 || f.AutoUpdateTime > 0 {
			continue
		}
		key := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if key == "" || key == "-" {
			continue
		}
		fields[key] = f.Name
	}

	return &section[T, P]{name: name, singleton: singleton, fields: fields}
}

func (s *section[T, P]) Name() string    { return s.name }
func (s *section[T, P]) Singleton() bool { return s.singleton }
func (s *section[T, P]) Deletable() bool { return !s.singleton }

func (s *section[T, P]) Decode(body []byte) (any, []string, error) {
	rec, present, err := s.parse(body)
	if err != nil {
		return nil, nil, err
	}
	if err := validate.Struct(rec); err != nil {
		return nil, nil, &ValidationError{Err: err}
	}
	return rec, present, nil
}

func (s *section[T, P]) DecodePartial(body []byte) (any, []string, error) {
	rec, present, err := s.parse(body)
	if err != nil {
		return nil, nil, err
	}
	if len(present) > 0 {
		if err := validate.StructPartial(rec, present...); err != nil {
			return nil, nil, &ValidationError{Err: err}
		}
	}
	return rec, present, nil
}

// parse keeps only client-writable keys and decodes them into a fresh record.
func (s *section[T, P]) parse(body []byte) (*T, []string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, &ValidationError{Err: fmt.Errorf("invalid JSON body: %w", err)}
	}

	// id and timestamps are server-managed; client values are dropped
	writable := make(map[string]json.RawMessage, len(raw))
	present := make([]string, 0, len(raw))
	for key, value := range raw {
		if field, ok := s.fields[key]; ok {
			writable[key] = value
			present = append(present, field)
		}
	}
	sort.Strings(present)

	clean, err := json.Marshal(writable)
	if err != nil {
		return nil, nil, &ValidationError{Err: err}
	}
	rec := new(T)
	if err := json.Unmarshal(clean, rec); err != nil {
		return nil, nil, &ValidationError{Err: fmt.Errorf("invalid JSON body: %w", err)}
	}
	return rec, present, nil
}

// check runs the full form rules on a record decoded with DecodePartial.
func (s *section[T, P]) check(rec any) error {
	r, err := s.cast(rec)
	if err != nil {
		return err
	}
	if err := validate.Struct(r); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func (s *section[T, P]) cast(rec any) (*T, error) {
	r, ok := rec.(*T)
	if !ok || r == nil {
		return nil, fmt.Errorf("%s: unexpected record type %T", s.name, rec)
	}
	return r, nil
}

func (s *section[T, P]) list(ctx context.Context, db *gorm.DB) (any, error) {
	if s.singleton {
		items := make([]T, 0, 1)
		if err := db.WithContext(ctx).Order(idColumn).Limit(1).Find(&items).Error; err != nil {
			return nil, err
		}
		return items, nil
	}
	return ordered[T](ctx, db)
}

// create inserts the record and returns the row as stored, so column
// precision (timestamps) matches what a later read returns.
func (s *section[T, P]) create(ctx context.Context, db *gorm.DB, rec any) (any, error) {
	r, err := s.cast(rec)
	if err != nil {
		return nil, err
	}
	P(r).SetID(0)
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return s.byID(ctx, db, P(r).GetID())
}

func (s *section[T, P]) byID(ctx context.Context, db *gorm.DB, id uint) ([]T, error) {
	items := make([]T, 0, 1)
	if err := db.WithContext(ctx).Where("id = ?", id).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// update writes only the given fields, then reads the row back. A missing id
// yields an empty slice rather than an error.
func (s *section[T, P]) update(ctx context.Context, db *gorm.DB, id uint, rec any, fields []string) (any, error) {
	r, err := s.cast(rec)
	if err != nil {
		return nil, err
	}
	P(r).SetID(id)

	if len(fields) > 0 {
		if err := db.WithContext(ctx).Model(r).Select(fields).Updates(r).Error; err != nil {
			return nil, err
		}
	}

	return s.byID(ctx, db, id)
}

func (s *section[T, P]) remove(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Delete(new(T), id).Error
}

func (s *section[T, P]) firstID(ctx context.Context, db *gorm.DB) (uint, bool, error) {
	var ids []uint
	if err := db.WithContext(ctx).Model(new(T)).Order(idColumn).Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

func (s *section[T, P]) count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, err
}

func first[T record](ctx context.Context, db *gorm.DB) (*T, error) {
	items := make([]T, 0, 1)
	if err := db.WithContext(ctx).Order(idColumn).Limit(1).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ordered returns rows by display order, ties broken by insertion id.
func ordered[T record](ctx context.Context, db *gorm.DB) ([]T, error) {
	items := make([]T, 0)
	if err := db.WithContext(ctx).Order(orderColumn).Order(idColumn).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

var (
	sectionNames = []string{"hero", "about", "projects", "skills", "experience", "contact"}
	registry     = map[string]Section{
		"hero":       newSection[database.Hero]("hero", true),
		"about":      newSection[database.About]("about", true),
		"projects":   newSection[database.Project]("projects", false),
		"skills":     newSection[database.Skill]("skills", false),
		"experience": newSection[database.Experience]("experience", false),
		"contact":    newSection[database.Contact]("contact", true),
	}
)

// Lookup resolves a section name from the URL.
func Lookup(name string) (Section, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return s, nil
}

// Names lists the sections in page order.
func Names() []string {
	out := make([]string, len(sectionNames))
	copy(out, sectionNames)
	return out
}
