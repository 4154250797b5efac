package access

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultPLCHost is the public PLC directory.
const DefaultPLCHost = "https://plc.directory"

// PLCResolver resolves did:plc account-creation dates from the PLC
// directory audit log. Results are cached for the process lifetime;
// creation dates never change.
//
// Failures are caught here, at the collaborator boundary: any fetch or
// decode error, and any non-plc DID scheme, resolves as "unknown" so the
// age gate fails open.
type PLCResolver struct {
	log    *slog.Logger
	host   string
	client *http.Client

	mu    sync.Mutex
	cache map[string]time.Time
}

// NewPLCResolver constructs a resolver against host (DefaultPLCHost when empty).
func NewPLCResolver(log *slog.Logger, host string, client *http.Client) *PLCResolver {
	if host == "" {
		host = DefaultPLCHost
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &PLCResolver{
		log:    log,
		host:   strings.TrimRight(host, "/"),
		client: client,
		cache:  make(map[string]time.Time),
	}
}

type plcAuditEntry struct {
	CreatedAt time.Time `json:"createdAt"`
}

// CreatedAt implements AccountAgeResolver.
func (r *PLCResolver) CreatedAt(ctx context.Context, did string) (time.Time, bool) {
	if !strings.HasPrefix(did, "did:plc:") {
		return time.Time{}, false
	}

	r.mu.Lock()
	created, ok := r.cache[did]
	r.mu.Unlock()
	if ok {
		return created, true
	}

	created, err := r.fetch(ctx, did)
	if err != nil {
		r.log.Debug("plc.resolve.fail", "did", did, "err", err)
		return time.Time{}, false
	}

	r.mu.Lock()
	r.cache[did] = created
	r.mu.Unlock()

	return created, true
}

// fetch reads the audit log and returns the earliest operation's createdAt.
func (r *PLCResolver) fetch(ctx context.Context, did string) (time.Time, error) {
	url := fmt.Sprintf("%s/%s/log/audit", r.host, did)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Time{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("plc directory status %d", resp.StatusCode)
	}

	var entries []plcAuditEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return time.Time{}, err
	}
	if len(entries) == 0 || entries[0].CreatedAt.IsZero() {
		return time.Time{}, fmt.Errorf("empty audit log")
	}

	return entries[0].CreatedAt, nil
}
