package db

import (
	"fmt"
	"time"
)

// RetentionPolicy deletes rows of Model whose Column is older than MaxAge.
type RetentionPolicy struct {
	Name   string
	Model  any
	Column string
	MaxAge time.Duration
}

// Purge applies every policy relative to now and reports deleted rows per
// policy name. It stops at the first failing policy.
func (d *DB) Purge(now time.Time, policies ...RetentionPolicy) (map[string]int64, error) {
	deleted := make(map[string]int64, len(policies))
	for _, p := range policies {
		cutoff := now.Add(-p.MaxAge)
		res := d.Conn.Where(fmt.Sprintf("%s < ?", p.Column), cutoff).Delete(p.Model)
		if res.Error != nil {
			return deleted, fmt.Errorf("purge %s: %w", p.Name, res.Error)
		}
		deleted[p.Name] = res.RowsAffected
	}
	return deleted, nil
}
