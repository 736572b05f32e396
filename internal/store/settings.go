// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// SetSetting stores value under key, replacing any previous value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("setting key is empty")
	}
	_, err := s.exec(ctx, sq.Insert("settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value"))
	if err != nil {
		return fmt.Errorf("saving setting %s: %w", key, err)
	}
	return nil
}

// Setting returns the value for key and whether it is set.
func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	query, args, err := sq.Select("value").From("settings").
		Where(sq.Eq{"key": strings.TrimSpace(key)}).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("building query: %w", err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

// SettingsMap returns every stored key/value pair.
func (s *Store) SettingsMap(ctx context.Context) (map[string]string, error) {
	rows, err := s.query(ctx, sq.Select("key", "value").From("settings").OrderBy("key"))
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		kv[k] = v
	}
	return kv, rows.Err()
}

// Settings returns the typed view of the settings table.
func (s *Store) Settings(ctx context.Context) (types.Settings, error) {
	kv, err := s.SettingsMap(ctx)
	if err != nil {
		return types.Settings{}, err
	}
	return types.SettingsFromMap(kv)
}
