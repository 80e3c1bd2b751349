package helper

import (
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventhub_backend/internals/helpers/apperror"
)

/* ===============================
   Typed list filters
=================================*/

type FilterKind int

const (
	// FilterExact: column = value
	FilterExact FilterKind = iota
	// FilterEnum: column = value, value must be in Allowed
	FilterEnum
	// FilterBool: column = true|false
	FilterBool
	// FilterUUID: column = uuid
	FilterUUID
	// FilterZero: true -> column = 0, false -> column > 0
	FilterZero
)

// FilterField binds one query-string key to a column expression. Column
// must be qualified when the list query joins other tables.
type FilterField struct {
	Param   string
	Column  string
	Kind    FilterKind
	Allowed []string
}

// FilterSpec is the whitelist of what a list endpoint can be filtered by.
type FilterSpec struct {
	// searchTerm matches any of these, case-insensitive substring
	SearchColumns []string
	Fields        []FilterField
}

type filterCond struct {
	field FilterField
	value any
}

// Filter is a validated FilterSpec applied to one request.
type Filter struct {
	SearchTerm string
	spec       FilterSpec
	conds      []filterCond
}

// ParseFilter validates the query against spec. Unknown keys are ignored,
// malformed values are reported per field.
func ParseFilter(query map[string]string, spec FilterSpec) (Filter, error) {
	f := Filter{
		SearchTerm: strings.TrimSpace(query["searchTerm"]),
		spec:       spec,
	}
	var bad []apperror.FieldError

	for _, fd := range spec.Fields {
		raw, ok := query[fd.Param]
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			continue
		}

		var (
			val any
			err string
		)
		switch fd.Kind {
		case FilterEnum:
			if !slices.Contains(fd.Allowed, raw) {
				err = fd.Param + " must be one of " + strings.Join(fd.Allowed, ", ")
			}
			val = raw
		case FilterBool, FilterZero:
			b, perr := strconv.ParseBool(raw)
			if perr != nil {
				err = fd.Param + " must be true or false"
			}
			val = b
		case FilterUUID:
			id, perr := uuid.Parse(raw)
			if perr != nil {
				err = fd.Param + " must be a valid id"
			}
			val = id
		default:
			val = raw
		}

		if err != "" {
			bad = append(bad, apperror.FieldError{Path: fd.Param, Message: err})
			continue
		}
		f.conds = append(f.conds, filterCond{field: fd, value: val})
	}

	if len(bad) > 0 {
		return Filter{}, apperror.Validation(bad)
	}
	return f, nil
}

// Apply adds the search and exact-match conditions to q.
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	if f.SearchTerm != "" && len(f.spec.SearchColumns) > 0 {
		like := "%" + strings.ToLower(f.SearchTerm) + "%"
		parts := make([]string, 0, len(f.spec.SearchColumns))
		args := make([]any, 0, len(f.spec.SearchColumns))
		for _, col := range f.spec.SearchColumns {
			parts = append(parts, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}
		q = q.Where("("+strings.Join(parts, " OR ")+")", args...)
	}

	for _, c := range f.conds {
		switch c.field.Kind {
		case FilterZero:
			if c.value.(bool) {
				q = q.Where(c.field.Column + " = 0")
			} else {
				q = q.Where(c.field.Column + " > 0")
			}
		default:
			q = q.Where(c.field.Column+" = ?", c.value)
		}
	}
	return q
}
