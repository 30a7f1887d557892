package service

import (
	"context"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

var codeFenceRe = regexp.MustCompile("```(?:json)?|```")

// cleanModelJSON strips markdown code fences the model sometimes wraps around
// JSON output and bracket-wraps bare object lists so the result always parses
// as a JSON array.
func cleanModelJSON(raw string) string {
	cleaned := strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))
	if !strings.HasPrefix(cleaned, "[") {
		cleaned = "[" + cleaned
	}
	if !strings.HasSuffix(cleaned, "]") {
		cleaned = strings.TrimRight(cleaned, ",") + "]"
	}
	return cleaned
}

// cleanModelJSONObject is the single-object variant: fences are stripped but
// no array wrapping is applied.
func cleanModelJSONObject(raw string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))
}
