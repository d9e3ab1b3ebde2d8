package postgres

import (
	"errors"

	"github.com/hacknight/server/internal/domain/relation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint
// rejection.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// derefString safely dereferences a string pointer, returning empty string if nil
func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// nullableString maps empty strings to NULL on the way into the database.
func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// scanRefs collects (id, slug, name) rows. It takes the Query return values
// directly so store methods stay one expression.
func scanRefs(rows pgx.Rows, err error) ([]relation.Ref, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]relation.Ref, 0)
	for rows.Next() {
		var ref relation.Ref
		if err := rows.Scan(&ref.ID, &ref.Slug, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// scanIDs collects single-column id rows.
func scanIDs(rows pgx.Rows, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// orderBySlugs reorders resolved refs to match the requested slug order.
func orderBySlugs(refs []relation.Ref, slugs []string) []relation.Ref {
	bySlug := make(map[string]relation.Ref, len(refs))
	for _, ref := range refs {
		bySlug[ref.Slug] = ref
	}

	ordered := make([]relation.Ref, 0, len(refs))
	for _, slug := range slugs {
		if ref, ok := bySlug[slug]; ok {
			ordered = append(ordered, ref)
		}
	}
	return ordered
}
