package repository

import (
	"context"
	"fftpeg/config"
	"fftpeg/database"
	"fftpeg/database/model"
	L "fftpeg/logger"
	"fftpeg/metrics"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// TagRepository interns tag names and keeps file<->tag associations and the
// auto-tag rules.
type TagRepository interface {
	GetOrCreate(ctx context.Context, name string) (int64, error)
	// insert-if-absent, re-associating is a no-op
	Associate(ctx context.Context, fileId int64, name string, autoAssigned bool) error
	// reports whether an association was removed
	Dissociate(ctx context.Context, fileId int64, name string) (bool, error)
	FileTags(ctx context.Context, fileId int64) ([]model.FileTag, error)

	EnabledRules(ctx context.Context) ([]model.AutoTagRule, error)
	ListRules(ctx context.Context) ([]model.AutoTagRule, error)
	// enables the rule, creating it if absent
	AddRule(ctx context.Context, source string, tag string) error
	RemoveRule(ctx context.Context, source string, tag string) error
	// reports whether a matching rule exists
	SetRuleEnabled(ctx context.Context, source string, tag string, enabled bool) (bool, error)
	// inserts rules that are not present yet, existing rows keep their state
	SeedRules(ctx context.Context, rules []config.AutoTagRule) error
}

type tagRepository struct {
	db    *database.DB
	cache *lru.Cache[string, int64]
}

func NewTagRepository(db *database.DB, cacheSize int) (TagRepository, error) {
	cache, err := lru.New[string, int64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create tag cache: %w", err)
	}
	return &tagRepository{db: db, cache: cache}, nil
}

func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return -1, fmt.Errorf("tag name must not be empty")
	}
	if id, ok := r.cache.Get(name); ok {
		metrics.TagCacheHits.Inc()
		return id, nil
	}
	metrics.TagCacheMisses.Inc()

	// a concurrent creator makes the insert a no-op and the select finds its row
	_, err := r.db.D.ExecContext(ctx,
		"INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name)
	if err != nil {
		return -1, database.Wrap(fmt.Sprintf("create tag %s", name), err)
	}
	var id int64
	err = r.db.D.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&id)
	if err != nil {
		return -1, database.Wrap(fmt.Sprintf("get tag %s", name), err)
	}
	r.cache.Add(name, id)
	return id, nil
}

func (r *tagRepository) Associate(ctx context.Context, fileId int64, name string, autoAssigned bool) error {
	tagId, err := r.GetOrCreate(ctx, name)
	if err != nil {
		return err
	}
	_, err = r.db.D.ExecContext(ctx,
		`INSERT INTO file_tags (file_id, tag_id, auto_assigned, assigned_at)
  VALUES (?,?,?,?)
  ON CONFLICT(file_id, tag_id) DO NOTHING`,
		fileId, tagId, autoAssigned, database.ToTimeStr(time.Now()))
	if err != nil {
		return database.Wrap(fmt.Sprintf("associate file %d with tag %s", fileId, name), err)
	}
	L.Debug(fmt.Sprintf("db: file %d tagged %s (auto: %t)", fileId, name, autoAssigned))
	return nil
}

func (r *tagRepository) Dissociate(ctx context.Context, fileId int64, name string) (bool, error) {
	result, err := r.db.D.ExecContext(ctx,
		`DELETE FROM file_tags
  WHERE file_id = ? AND tag_id = (SELECT id FROM tags WHERE name = ?)`,
		fileId, name)
	if err != nil {
		return false, database.Wrap(fmt.Sprintf("dissociate file %d from tag %s", fileId, name), err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, database.Wrap("dissociate: rows affected", err)
	}
	return n > 0, nil
}

func (r *tagRepository) FileTags(ctx context.Context, fileId int64) ([]model.FileTag, error) {
	rows, err := r.db.D.QueryContext(ctx,
		`SELECT ft.file_id, ft.tag_id, t.name, ft.auto_assigned, ft.assigned_at
  FROM file_tags ft
  JOIN tags t ON t.id = ft.tag_id
  WHERE ft.file_id = ?
  ORDER BY t.name`, fileId)
	if err != nil {
		return nil, database.Wrap("file tags", err)
	}
	defer rows.Close()
	fileTags := []model.FileTag{}
	for rows.Next() {
		var ft model.FileTag
		var assignedAtStr string
		err := rows.Scan(&ft.FileId, &ft.TagId, &ft.Name, &ft.AutoAssigned, &assignedAtStr)
		if err != nil {
			return nil, database.Wrap("file tags", err)
		}
		ft.AssignedAt = database.FromTimeStr(assignedAtStr)
		fileTags = append(fileTags, ft)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("file tags", err)
	}
	return fileTags, nil
}

func (r *tagRepository) queryRules(ctx context.Context, where string) ([]model.AutoTagRule, error) {
	rows, err := r.db.D.QueryContext(ctx,
		"SELECT id, source, tag, enabled FROM auto_tag_rules "+where+" ORDER BY source, tag")
	if err != nil {
		return nil, database.Wrap("list rules", err)
	}
	defer rows.Close()
	rules := []model.AutoTagRule{}
	for rows.Next() {
		var rule model.AutoTagRule
		if err := rows.Scan(&rule.Id, &rule.Source, &rule.Tag, &rule.Enabled); err != nil {
			return nil, database.Wrap("list rules", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list rules", err)
	}
	return rules, nil
}

func (r *tagRepository) EnabledRules(ctx context.Context) ([]model.AutoTagRule, error) {
	return r.queryRules(ctx, "WHERE enabled = 1")
}

func (r *tagRepository) ListRules(ctx context.Context) ([]model.AutoTagRule, error) {
	return r.queryRules(ctx, "")
}

func (r *tagRepository) AddRule(ctx context.Context, source string, tag string) error {
	_, err := r.db.D.ExecContext(ctx,
		`INSERT INTO auto_tag_rules (source, tag, enabled) VALUES (?,?,1)
  ON CONFLICT(source, tag) DO UPDATE SET enabled = 1`,
		source, tag)
	return database.Wrap(fmt.Sprintf("add rule %s -> %s", source, tag), err)
}

func (r *tagRepository) RemoveRule(ctx context.Context, source string, tag string) error {
	_, err := r.db.D.ExecContext(ctx,
		"DELETE FROM auto_tag_rules WHERE source = ? AND tag = ?", source, tag)
	return database.Wrap(fmt.Sprintf("remove rule %s -> %s", source, tag), err)
}

func (r *tagRepository) SetRuleEnabled(ctx context.Context, source string, tag string, enabled bool) (bool, error) {
	result, err := r.db.D.ExecContext(ctx,
		"UPDATE auto_tag_rules SET enabled = ? WHERE source = ? AND tag = ?", enabled, source, tag)
	if err != nil {
		return false, database.Wrap(fmt.Sprintf("set rule %s -> %s", source, tag), err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, database.Wrap("set rule: rows affected", err)
	}
	return n > 0, nil
}

func (r *tagRepository) SeedRules(ctx context.Context, rules []config.AutoTagRule) error {
	tx, err := r.db.D.BeginTx(ctx, nil)
	if err != nil {
		return database.Wrap("seed rules", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO auto_tag_rules (source, tag, enabled) VALUES (?,?,?)
  ON CONFLICT(source, tag) DO NOTHING`)
	if err != nil {
		tx.Rollback()
		return database.Wrap("seed rules", err)
	}
	defer stmt.Close()
	for _, rule := range rules {
		_, err = stmt.ExecContext(ctx, rule.Source, rule.Tag, rule.Enabled)
		if err != nil {
			err1 := tx.Rollback()
			if err1 != nil {
				return database.Wrap("seed rules: rollback", err1)
			}
			L.Debug("db: SeedRules failure rollback success.")
			return database.Wrap(fmt.Sprintf("seed rule %s -> %s", rule.Source, rule.Tag), err)
		}
	}
	return database.Wrap("seed rules: commit", tx.Commit())
}
