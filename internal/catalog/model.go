package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/tuannm99/tupledesc/internal/record"
)

type TableMeta struct {
	ID         uuid.UUID         `json:"id" yaml:"id"`
	Name       string            `json:"name" yaml:"name"`
	Desc       *record.TupleDesc `json:"desc" yaml:"desc"`
	PrimaryKey string            `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
}

// file is the on-disk layout of a saved catalog.
type file struct {
	Version int         `json:"version" yaml:"version"`
	Tables  []TableMeta `json:"tables" yaml:"tables"`
}

const fileVersion = 1
