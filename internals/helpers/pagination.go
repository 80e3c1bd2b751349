package helper

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage = 1
)

type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// ===== Preset =====
var (
	DefaultOpts = Options{DefaultLimit: 10, MaxLimit: 100}
	AdminOpts   = Options{DefaultLimit: 20, MaxLimit: 500}
)

type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // asc|desc
}

func (p Params) Offset() int { return (p.Page - 1) * p.Limit }

// ParseFiber reads ?page, ?limit, ?sortBy and ?sortOrder.
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	q := c.Queries()

	page := atoiDefault(q["page"], DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	limit := atoiDefault(strings.TrimSpace(q["limit"]), opt.DefaultLimit)
	if limit < 1 {
		limit = opt.DefaultLimit
	}
	if opt.MaxLimit > 0 && limit > opt.MaxLimit {
		limit = opt.MaxLimit
	}

	sortBy := strings.TrimSpace(q["sortBy"])
	if sortBy == "" {
		sortBy = defaultSortBy
	}

	order := strings.ToLower(strings.TrimSpace(q["sortOrder"]))
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultSortOrder)
		if order != "asc" && order != "desc" {
			order = "desc"
		}
	}

	return Params{
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		SortOrder: order,
	}
}

// OrderClause maps SortBy through a whitelist of column expressions and falls
// back to defaultKey for anything unknown.
func (p Params) OrderClause(allowed map[string]string, defaultKey string) string {
	col, ok := allowed[p.SortBy]
	if !ok {
		col = allowed[defaultKey]
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Meta is the pagination block of list responses.
type Meta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	TotalPage int   `json:"totalPage"`
	Total     int64 `json:"total"`
}

func BuildMeta(total int64, p Params) Meta {
	totalPage := 0
	if total > 0 && p.Limit > 0 {
		totalPage = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Meta{
		Page:      p.Page,
		Limit:     p.Limit,
		TotalPage: totalPage,
		Total:     total,
	}
}
