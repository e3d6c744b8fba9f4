package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/nersearch/internal/db"
	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

// Search runs a bool query via FT.SEARCH with BM25 scores.
func (s *Store) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	if req.Index == nil || req.Index.Name == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("size must be positive")
	}

	q, ok := buildQuery(req.Query)
	if !ok {
		return &db.SearchResult{}, nil
	}

	args := []string{
		req.Index.Name, q,
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(req.Size),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseResult(req.Index, raw)
}

// --- Result parsing ---

func parseResult(def *db.IndexDefinition, raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	prefix := def.KeyPrefix()
	hits := make([]db.Hit, 0, (len(raw)-1)/3)
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		src, err := decodeHash(def, parseFieldPairs(fields))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}

		hits = append(hits, db.Hit{
			ID:     strings.TrimPrefix(key, prefix),
			Score:  score,
			Source: src,
		})
	}

	return &db.SearchResult{Total: int(total), Hits: hits}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query building ---

// buildQuery translates query.Bool into FT.SEARCH syntax. Must clauses are
// intersected; should clauses are marked optional with ~ and only add score.
// ok is false when a must clause has nothing to match on, so no document
// can satisfy the query.
func buildQuery(b query.Bool) (q string, ok bool) {
	var must []string
	for _, c := range b.Must() {
		s := buildClause(c)
		if s == "" {
			return "", false
		}
		must = append(must, s)
	}

	var should []string
	for _, c := range b.Should() {
		if s := buildClause(c); s != "" {
			should = append(should, s)
		}
	}

	switch {
	case len(must) == 0 && len(should) == 0:
		return "*", true
	case len(must) == 0:
		return strings.Join(should, " | "), true
	}

	parts := must
	for _, s := range should {
		parts = append(parts, "~"+s)
	}
	return strings.Join(parts, " "), true
}

func buildClause(c query.Clause) string {
	switch c.Kind() {
	case query.KindMatch:
		return buildTextFilter(c.Field(), c.Text())
	case query.KindTerms:
		return buildTagFilter(c.Field(), c.Values())
	case query.KindRange:
		return buildNumericFilter(c.Field(), c.GTE(), c.LTE())
	default:
		return ""
	}
}

// buildTextFilter matches any analyzed term of text.
func buildTextFilter(field, text string) string {
	terms := tokenize(text)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = escapeQuery(t)
	}
	return fmt.Sprintf("@%s:(%s)", field, strings.Join(terms, "|"))
}

func buildTagFilter(field string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, " | "))
}

func buildNumericFilter(field string, gte, lte *float64) string {
	minBound := "-inf"
	maxBound := "+inf"
	if gte != nil {
		minBound = strconv.FormatFloat(*gte, 'f', -1, 64)
	}
	if lte != nil {
		maxBound = strconv.FormatFloat(*lte, 'f', -1, 64)
	}
	return fmt.Sprintf("@%s:[%s %s]", field, minBound, maxBound)
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
