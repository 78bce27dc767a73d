package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/venky7799/aemsearch"
)

// Compile-time interface verification.
var (
	_ aemsearch.RepositoryClient = (*NodeStore)(nil)
	_ aemsearch.LocaleLister     = (*NodeStore)(nil)
	_ aemsearch.NodeWriter       = (*NodeStore)(nil)
)

// NodeStore serves a mirrored content tree from SQLite. Ancestors of stored
// nodes exist implicitly, so a mirror of /content/site answers probes for
// /content itself.
type NodeStore struct {
	db *DB
}

// NewNodeStore creates a new NodeStore.
func NewNodeStore(db *DB) *NodeStore {
	return &NodeStore{db: db}
}

// hashNode computes an xxHash fingerprint of the mirrored fields of n and
// returns it as a hex string.
func hashNode(n *aemsearch.Node) string {
	d := xxhash.New()
	for _, s := range []string{
		n.Path,
		n.Name,
		n.Title,
		n.NodeType,
		formatTime(n.LastModified),
		strconv.FormatBool(n.Active),
	} {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	return hex.EncodeToString(d.Sum(nil))
}

// SaveNodes upserts nodes in one transaction. Rows whose fingerprint is
// unchanged are left alone and not counted.
func (s *NodeStore) SaveNodes(ctx context.Context, nodes []*aemsearch.Node) (int, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (path, parent, name, title, node_type, last_modified, active, depth, hash, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			parent = excluded.parent,
			name = excluded.name,
			title = excluded.title,
			node_type = excluded.node_type,
			last_modified = excluded.last_modified,
			active = excluded.active,
			depth = excluded.depth,
			hash = excluded.hash,
			updated_at = excluded.updated_at
		WHERE nodes.hash <> excluded.hash
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	var changed int
	for _, n := range nodes {
		p := aemsearch.JoinPath(n.Path)
		if p == "/" {
			return 0, aemsearch.Errorf(aemsearch.EINVALID, "cannot store the repository root")
		}
		name := n.Name
		if name == "" {
			name = path.Base(p)
		}
		stored := *n
		stored.Path, stored.Name = p, name

		res, err := stmt.ExecContext(ctx, p, path.Dir(p), name, n.Title, n.NodeType,
			formatTime(n.LastModified), n.Active, aemsearch.PathDepth(p), hashNode(&stored), now)
		if err != nil {
			return 0, fmt.Errorf("saving %s: %w", p, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		changed += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return changed, nil
}

// Exists reports whether path is stored, or is an ancestor of a stored node.
// A stored inactive node only counts with includeInactive.
func (s *NodeStore) Exists(ctx context.Context, p string, includeInactive bool) (bool, error) {
	p = aemsearch.JoinPath(p)

	var active bool
	err := s.db.QueryRowContext(ctx, `SELECT active FROM nodes WHERE path = ?`, p).Scan(&active)
	if err == nil {
		return active || includeInactive, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, s.repositoryError(p, err)
	}

	var n int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM nodes
		WHERE substr(path, 1, length(?)) = ?
		LIMIT 1
	`, descendantPrefix(p), descendantPrefix(p)).Scan(&n)
	if err != nil {
		return false, s.repositoryError(p, err)
	}
	return n > 0, nil
}

// ListChildren returns stored descendants of path up to depth levels below
// it, sorted by path.
func (s *NodeStore) ListChildren(ctx context.Context, p string, depth int, includeInactive bool) ([]*aemsearch.Node, error) {
	p = aemsearch.JoinPath(p)
	base := aemsearch.PathDepth(p)

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, name, title, node_type, last_modified, active
		FROM nodes
		WHERE substr(path, 1, length(?)) = ?
			AND depth BETWEEN ? AND ?
			AND (active = 1 OR ?)
		ORDER BY path
	`, descendantPrefix(p), descendantPrefix(p), base+1, base+depth, includeInactive)
	if err != nil {
		return nil, s.repositoryError(p, err)
	}
	defer rows.Close()

	var nodes []*aemsearch.Node
	for rows.Next() {
		var n aemsearch.Node
		var lastModified string
		if err := rows.Scan(&n.Path, &n.Name, &n.Title, &n.NodeType, &lastModified, &n.Active); err != nil {
			return nil, s.repositoryError(p, err)
		}
		if n.LastModified, err = parseTime(lastModified, "last_modified"); err != nil {
			return nil, err
		}
		nodes = append(nodes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, s.repositoryError(p, err)
	}
	return nodes, nil
}

// Locales returns the sorted names of stored children of path that look
// like locale codes.
func (s *NodeStore) Locales(ctx context.Context, p string) ([]string, error) {
	p = aemsearch.JoinPath(p)

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM nodes WHERE parent = ? ORDER BY name`, p)
	if err != nil {
		return nil, s.repositoryError(p, err)
	}
	defer rows.Close()

	var locales []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, s.repositoryError(p, err)
		}
		if aemsearch.IsLocaleCode(name) {
			locales = append(locales, name)
		}
	}
	return locales, rows.Err()
}

// repositoryError wraps a database failure. Context errors pass through.
func (s *NodeStore) repositoryError(p string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &aemsearch.RepositoryError{Kind: aemsearch.RepoUnknown, Path: p, Err: err}
}

// descendantPrefix returns the prefix shared by every descendant of p.
func descendantPrefix(p string) string {
	if p == "/" {
		return p
	}
	return p + "/"
}
