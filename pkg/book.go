package runbook

import (
	"sort"

	"github.com/pkg/errors"
)

// Routine is the body of a book: a plain function that drives the
// engine through an ordered sequence of steps. Routines compose; a
// book's routine may call other functions that take the same engine.
type Routine func(e *Executor) error

// Book is a named routine with a human description.
type Book struct {
	Name        string
	Description string
	Routine     Routine
}

// Run resets the engine and plays the book's routine against it. It
// returns the output accumulated by the chain and the first error the
// routine or the chain recorded.
func (b *Book) Run(e *Executor) (string, error) {
	e.reset()

	err := b.Routine(e)
	if err == nil {
		err = e.Err()
	}

	return e.Output(), err
}

// BookSet is a registry of books looked up by name.
type BookSet struct {
	books map[string]*Book
}

func NewBookSet() *BookSet {
	return &BookSet{books: map[string]*Book{}}
}

func (s *BookSet) Register(b *Book) error {
	if b.Name == "" {
		return errors.New("book has no name")
	}
	if _, ok := s.books[b.Name]; ok {
		return errors.Errorf("book %q is already registered", b.Name)
	}
	s.books[b.Name] = b
	return nil
}

func (s *BookSet) Find(name string) (*Book, error) {
	b, ok := s.books[name]
	if !ok {
		return nil, errors.Errorf("no book named %q", name)
	}
	return b, nil
}

func (s *BookSet) Names() []string {
	names := make([]string, 0, len(s.books))
	for name := range s.books {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run finds the named book and plays it against a fresh engine built
// from opts.
func (s *BookSet) Run(name string, opts ...Opts) (string, error) {
	b, err := s.Find(name)
	if err != nil {
		return "", err
	}

	e, err := New(opts...)
	if err != nil {
		return "", err
	}

	return b.Run(e)
}

var defaultBooks = NewBookSet()

// Register adds a book to the default set. It panics on a duplicate
// name.
func Register(b *Book) {
	if err := defaultBooks.Register(b); err != nil {
		panic(err)
	}
}

// DefaultBooks returns the process-wide book set that Register adds to.
func DefaultBooks() *BookSet {
	return defaultBooks
}
