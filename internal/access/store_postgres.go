package access

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultSchema = "campfire"

// PostgresStores bundles the DB-backed collaborators consumed by the
// gate and the allowlist: room bans, room settings, and allowlist rows.
type PostgresStores struct {
	pool   *pgxpool.Pool
	schema string
}

// StoreOption configures PostgresStores behavior.
type StoreOption func(*PostgresStores) error

// WithSchema sets the DB schema used by the stores (default: "campfire").
func WithSchema(schema string) StoreOption {
	return func(s *PostgresStores) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return errors.New("access: empty schema")
		}
		if !isValidPGIdent(schema) {
			return errors.New("access: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStores constructs the DB-backed access collaborators.
func NewPostgresStores(pool *pgxpool.Pool, opts ...StoreOption) (*PostgresStores, error) {
	st := &PostgresStores{
		pool:   pool,
		schema: defaultSchema,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, errors.New("access: nil pool")
	}
	return st, nil
}

// IsBanned implements BanStore via the room_bans table.
func (s *PostgresStores) IsBanned(ctx context.Context, roomID, did string) (bool, error) {
	roomID = strings.TrimSpace(roomID)
	did = strings.TrimSpace(did)
	if roomID == "" || did == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	bans := pgIdent(s.schema, "room_bans")

	var one int
	err := s.pool.QueryRow(ctx,
		`SELECT 1 FROM `+bans+` WHERE room_id = $1 AND did = $2`,
		roomID, did,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetRoom implements RoomStore via the rooms table.
func (s *PostgresStores) GetRoom(ctx context.Context, roomID string) (Room, bool, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return Room{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		return Room{}, false, err
	}

	rooms := pgIdent(s.schema, "rooms")

	var room Room
	err := s.pool.QueryRow(ctx,
		`SELECT id, COALESCE(min_account_age_days, 0) FROM `+rooms+` WHERE id = $1`,
		roomID,
	).Scan(&room.ID, &room.MinAccountAgeDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, false, nil
	}
	if err != nil {
		return Room{}, false, err
	}
	return room, true, nil
}

// List implements AllowlistStore.
func (s *PostgresStores) List(ctx context.Context) ([]AllowlistEntry, error) {
	allowlist := pgIdent(s.schema, "allowlist")

	rows, err := s.pool.Query(ctx,
		`SELECT did, handle, COALESCE(reason, ''), COALESCE(added_by, '') FROM `+allowlist,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AllowlistEntry
	for rows.Next() {
		var e AllowlistEntry
		if err := rows.Scan(&e.DID, &e.Handle, &e.Reason, &e.AddedBy); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Insert implements AllowlistStore.
func (s *PostgresStores) Insert(ctx context.Context, e AllowlistEntry) error {
	allowlist := pgIdent(s.schema, "allowlist")

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+allowlist+` (did, handle, reason, added_by)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (did) DO UPDATE SET handle = $2, reason = $3, added_by = $4`,
		e.DID, e.Handle, e.Reason, e.AddedBy,
	)
	return err
}

// Remove implements AllowlistStore.
func (s *PostgresStores) Remove(ctx context.Context, did string) error {
	allowlist := pgIdent(s.schema, "allowlist")

	_, err := s.pool.Exec(ctx, `DELETE FROM `+allowlist+` WHERE did = $1`, did)
	return err
}

// ---- identifier safety ----

var pgIdentRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func isValidPGIdent(s string) bool {
	return pgIdentRE.MatchString(s)
}

func pgIdent(schema, table string) string {
	return `"` + schema + `"."` + table + `"`
}
