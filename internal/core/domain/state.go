package domain

import (
	"slices"
	"time"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// CatalogState is the observable state of one storefront session.
//
// VisibleProducts is the set the presentation layer shows. A Loaded state
// with no visible products means the last search had zero results, which is
// not the same thing as an Error state.
type CatalogState struct {
	AllProducts     []Product
	VisibleProducts []Product
	Status          Status
	IsLoading       bool
	LastError       *FetchError
	Query           string
}

// NewCatalogState returns the state a session starts with.
func NewCatalogState() CatalogState {
	return CatalogState{
		AllProducts:     []Product{},
		VisibleProducts: []Product{},
		Status:          StatusLoading,
		IsLoading:       true,
	}
}

// Clone returns a deep copy of s.
func (s CatalogState) Clone() CatalogState {
	c := s
	c.AllProducts = slices.Clone(s.AllProducts)
	c.VisibleProducts = slices.Clone(s.VisibleProducts)
	if s.LastError != nil {
		e := *s.LastError
		c.LastError = &e
	}
	return c
}

type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

type SearchEventKind string

const (
	SearchEventLoad   SearchEventKind = "load"
	SearchEventSearch SearchEventKind = "search"
	SearchEventReset  SearchEventKind = "reset"
)

// SearchEvent describes one completed catalog operation of a session.
type SearchEvent struct {
	Kind        SearchEventKind
	Query       string
	Status      Status
	ResultCount int
	ErrorKind   string
	OccurredAt  time.Time
}
