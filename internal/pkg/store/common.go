package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/jackc/pgx/v5"
)

const (
	tableCompanies     = "companies"
	tableDirectors     = "directors"
	tableRemunerations = "director_remunerations"
	tableFinancials    = "company_financial_timeseries"
	tablePeers         = "peer_comparisons"
)

// UpsertPolicy решает, что делать с атрибутами уже существующей записи.
type UpsertPolicy string

const (
	// PolicyFill заполняет только те атрибуты, которые сейчас NULL.
	PolicyFill UpsertPolicy = "fill"
	// PolicyOverwrite заменяет атрибуты непустыми входящими значениями.
	PolicyOverwrite UpsertPolicy = "overwrite"
)

func ParseUpsertPolicy(s string) (UpsertPolicy, error) {
	switch UpsertPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFill:
		return PolicyFill, nil
	case PolicyOverwrite:
		return PolicyOverwrite, nil
	default:
		return "", fmt.Errorf("unknown upsert policy %q", s)
	}
}

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder возвращает squirrel SQL Builder обьект.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// conflictSet собирает SET для "on conflict do update". NULL никогда не
// затирает сохранённое значение ни при какой политике.
func conflictSet(policy UpsertPolicy, table string, columns ...string) string {
	parts := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		existing := table + "." + c
		incoming := "excluded." + c
		if policy == PolicyOverwrite {
			parts = append(parts, fmt.Sprintf("%s = coalesce(%s, %s)", c, incoming, existing))
		} else {
			parts = append(parts, fmt.Sprintf("%s = coalesce(%s, %s)", c, existing, incoming))
		}
	}
	parts = append(parts, "updated_at = now()")
	return strings.Join(parts, ", ")
}

// upsertSuffix: xmax = 0 только у строки, вставленной этим же запросом.
func upsertSuffix(policy UpsertPolicy, table string, key []string, columns []string, returning ...string) string {
	returning = append(returning, "(xmax = 0) as inserted")
	return fmt.Sprintf("on conflict (%s) do update set %s returning %s",
		strings.Join(key, ", "),
		conflictSet(policy, table, columns...),
		strings.Join(returning, ", "),
	)
}
