package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"campfire/internal/access"
	"campfire/internal/auth/session"
)

const (
	wsSubprotocolV1 = "campfire.v1"

	wsDefaultSendQueueSize = 256
	wsMinSendQueueSize     = 32

	wsDefaultWriteTimeout = 5 * time.Second
	wsDefaultReadIdle     = 2 * time.Minute

	// Security defaults: origin required, localhost only (secure-by-default for dev).
	wsDefaultOriginRequired = true
	wsDefaultAllowedOrigins = "http://localhost,http://127.0.0.1"
)

// WSGateway is the WebSocket entrypoint for Campfire realtime.
//
// It enforces origin policy, subprotocol selection, session
// authentication, the global allowlist gate, per-key rate limits, and
// heartbeats, and routes validated envelopes to the presence tracker,
// the access gate, and the IM signaling relay.
type WSGateway struct {
	log      *slog.Logger
	sessions *session.Store
	presence *PresenceTracker
	hub      *Hub
	ims      *IMRegistry
	gate     *access.Gate
	policy   PresencePolicy
	filter   TextFilter
	metrics  *Metrics

	// allowlist gates connections before any room-specific check; nil
	// or requireAllowlist=false disables the gate.
	allowlist        *access.Allowlist
	requireAllowlist bool

	originRequired bool
	allowedOrigins []string
	originPatterns []string

	writeTimeout    time.Duration
	readIdleTimeout time.Duration
	sendQueueSize   int

	heartbeat HeartbeatConfig

	rateLimiter *RateLimiter
}

// WSGatewayDeps bundles the collaborators a gateway needs.
type WSGatewayDeps struct {
	Sessions  *session.Store
	Presence  *PresenceTracker
	Hub       *Hub
	IMs       *IMRegistry
	Gate      *access.Gate
	Allowlist *access.Allowlist
	Policy    PresencePolicy
	Filter    TextFilter
	Metrics   *Metrics
}

// NewWSGateway constructs a gateway with secure defaults, reading the
// CAMPFIRE_WS_* environment knobs the way the rest of the app config does.
func NewWSGateway(log *slog.Logger, deps WSGatewayDeps) *WSGateway {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	if deps.Presence == nil {
		deps.Presence = NewPresenceTracker(log)
	}
	if deps.Hub == nil {
		deps.Hub = NewHub(log)
	}
	if deps.IMs == nil {
		deps.IMs = NewIMRegistry()
	}
	if deps.Policy == nil {
		deps.Policy = OpenPresencePolicy{}
	}
	if deps.Filter == nil {
		deps.Filter = AllowAllFilter{}
	}

	g := &WSGateway{
		log:       log,
		sessions:  deps.Sessions,
		presence:  deps.Presence,
		hub:       deps.Hub,
		ims:       deps.IMs,
		gate:      deps.Gate,
		allowlist: deps.Allowlist,
		policy:    deps.Policy,
		filter:    deps.Filter,
		metrics:   deps.Metrics,
	}

	g.requireAllowlist = envBoolWS("CAMPFIRE_REQUIRE_ALLOWLIST", false) && g.allowlist != nil

	g.originRequired = envBoolWS("CAMPFIRE_WS_ORIGIN_REQUIRED", wsDefaultOriginRequired)
	g.allowedOrigins = envCSVWS("CAMPFIRE_WS_ALLOWED_ORIGINS", wsDefaultAllowedOrigins)

	// websocket.Accept enforces its own origin policy: same-host is ok,
	// cross-origin requires OriginPatterns. Derive the patterns from the
	// allowlist so the two layers agree.
	g.originPatterns = deriveOriginPatterns(g.allowedOrigins)

	g.writeTimeout = envDurationWS("CAMPFIRE_WS_WRITE_TIMEOUT", wsDefaultWriteTimeout)
	g.readIdleTimeout = envDurationWS("CAMPFIRE_WS_READ_IDLE_TIMEOUT", wsDefaultReadIdle)

	g.sendQueueSize = envIntWS("CAMPFIRE_WS_SEND_QUEUE", wsDefaultSendQueueSize)
	if g.sendQueueSize < wsMinSendQueueSize {
		g.sendQueueSize = wsMinSendQueueSize
	}

	g.heartbeat = HeartbeatConfig{
		Interval:  envDurationWS("CAMPFIRE_HEARTBEAT_INTERVAL", heartbeatInterval),
		MaxMissed: envIntWS("CAMPFIRE_HEARTBEAT_MAX_MISSED", heartbeatMaxMissed),
	}

	g.rateLimiter = NewRateLimiter(
		envIntWS("CAMPFIRE_RATE_MAX", rateLimitEvents),
		envDurationWS("CAMPFIRE_RATE_WINDOW", rateLimitWindow),
	)

	return g
}

// RateLimiter exposes the gateway's limiter for the app's prune loop.
func (g *WSGateway) RateLimiter() *RateLimiter { return g.rateLimiter }

// ServeHTTP adapter so the gateway can be mounted as http.Handler.
func (g *WSGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.HandleWS(w, r)
}

// HandleWS upgrades an HTTP request to a WebSocket session and runs the realtime loop.
func (g *WSGateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	if err := g.enforceOrigin(r); err != nil {
		g.log.Info("ws.reject.origin", "err", err, "origin", r.Header.Get("Origin"), "remote", r.RemoteAddr)
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{wsSubprotocolV1},
		OriginPatterns: g.originPatterns,
	})
	if err != nil {
		g.log.Error("ws.accept.fail", "err", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	if sp := conn.Subprotocol(); sp != wsSubprotocolV1 {
		g.log.Info("ws.reject.subprotocol", "got", sp, "want", wsSubprotocolV1)
		_ = conn.Close(websocket.StatusProtocolError, "subprotocol required")
		return
	}

	conn.SetReadLimit(maxFrameBytes)

	connID := newConnID()
	client := NewClient(connID, g.sendQueueSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var closeOnce sync.Once

	// shutdown is idempotent. It does NOT close client.Send; membership
	// and presence cleanup happen before client.Close so broadcasters
	// never race a half-torn-down client.
	shutdown := func(code websocket.StatusCode, reason string) {
		closeOnce.Do(func() {
			g.teardownClient(client)
			client.Close()
			_ = conn.Close(code, reason)
			cancel()
		})
	}

	// Liveness watchdog: the probe rides the websocket ping frame, and a
	// completed Ping call (coder/websocket blocks until the pong arrives)
	// is the answer that resets the monitor.
	var hb *HeartbeatMonitor
	hb = NewHeartbeatMonitor(g.heartbeat,
		func() {
			go func() {
				pingCtx, pingCancel := context.WithTimeout(ctx, g.writeTimeout)
				defer pingCancel()
				if err := conn.Ping(pingCtx); err == nil {
					hb.Pong()
				}
			}()
		},
		func() {
			g.metrics.heartbeatDrop()
			g.log.Info("ws.heartbeat.terminate", "conn_id", connID, "did", client.DID)
			shutdown(websocket.StatusGoingAway, "heartbeat failed")
		},
	)
	stopHeartbeat := hb.Start()
	defer stopHeartbeat()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)

		for {
			select {
			case <-ctx.Done():
				return
			case <-client.Done():
				return
			case env := <-client.Send:
				if err := writeEnvelope(ctx, conn, env, g.writeTimeout); err != nil {
					g.log.Info("ws.write.fail", "conn_id", connID, "close_status", websocket.CloseStatus(err), "err", err)
					shutdown(websocket.StatusAbnormalClosure, "write failed")
					return
				}
			}
		}
	}()

	remoteKey := remoteAddrKey(r)

readLoop:
	for {
		readCtx, readCancel := context.WithTimeout(ctx, g.readIdleTimeout)
		env, err := readEnvelope(readCtx, conn)
		readCancel()

		if err != nil {
			switch classifyReadErr(err) {
			case readErrClose:
				shutdown(websocket.StatusNormalClosure, "peer closed")
				break readLoop
			case readErrCtxDone:
				shutdown(websocket.StatusNormalClosure, "context done")
				break readLoop
			case readErrConnClosed:
				shutdown(websocket.StatusAbnormalClosure, "conn closed")
				break readLoop
			case readErrBadJSON:
				g.trySendError(ctx, client, "bad_json", "invalid JSON")
				continue readLoop
			default:
				g.log.Info("ws.read.fail", "conn_id", connID, "err", err)
				shutdown(websocket.StatusAbnormalClosure, "read failed")
				break readLoop
			}
		}

		now := time.Now().UTC()

		// Abuse key: the DID once authenticated, the network address before.
		rateKey := client.DID
		if rateKey == "" {
			rateKey = remoteKey
		}
		if !g.rateLimiter.Allow(rateKey, now) {
			g.metrics.rateLimit()
			g.trySendError(ctx, client, "rate_limited", "too many events")
			continue readLoop
		}

		if err := env.Validate(); err != nil {
			g.trySendError(ctx, client, "bad_envelope", err.Error())
			continue readLoop
		}

		if env.Type != TypeHello && client.DID == "" {
			g.trySendError(ctx, client, "not_authenticated", "hello first")
			continue readLoop
		}

		switch env.Type {
		case TypeHello:
			if err := g.onHello(ctx, client, env, now); err != nil {
				g.trySendError(ctx, client, "auth_failed", err.Error())
				shutdown(websocket.StatusPolicyViolation, "auth failed")
				break readLoop
			}

		case TypeStatusSet:
			if err := g.onStatusSet(client, env); err != nil {
				g.trySendError(ctx, client, "bad_status", err.Error())
			}

		case TypeRoomJoin:
			if err := g.onRoomJoin(ctx, client, env, now); err != nil {
				g.trySendError(ctx, client, "join_failed", err.Error())
			}

		case TypeRoomLeave:
			if err := g.onRoomLeave(client, env); err != nil {
				g.trySendError(ctx, client, "leave_failed", err.Error())
			}

		case TypeRoomMessage:
			if err := g.onRoomMessage(client, env, now); err != nil {
				g.trySendError(ctx, client, "send_failed", err.Error())
			}

		case TypePresenceFetch:
			if err := g.onPresenceFetch(ctx, client, env, now); err != nil {
				g.trySendError(ctx, client, "presence_failed", err.Error())
			}

		case TypeRTCOffer, TypeRTCAnswer, TypeRTCCandidate, TypeRTCHangup:
			if err := g.onRTCSignal(client, env, now); err != nil {
				g.trySendError(ctx, client, "relay_denied", err.Error())
			}

		default:
			g.trySendError(ctx, client, "unsupported", fmt.Sprintf("unsupported type: %s", env.Type))
		}
	}

	shutdown(websocket.StatusNormalClosure, "bye")
	<-writerDone
}

// teardownClient releases the connection's hub and presence state. When a
// newer connection for the same DID has already replaced this one, the hub
// refuses the unregister and presence must be left alone: the user is still
// online through the replacement, and its room memberships must survive the
// stale connection's teardown.
func (g *WSGateway) teardownClient(client *Client) {
	if client.DID == "" {
		return
	}
	if !g.hub.Unregister(client) {
		return
	}
	g.presence.Disconnect(client.DID)
	g.metrics.setOnline(g.presence.OnlineCount())
}

// ---- handlers ----

var errNotRelayed = errors.New("not relayed")

func (g *WSGateway) onHello(ctx context.Context, client *Client, env Envelope, now time.Time) error {
	var p HelloPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	token := strings.TrimSpace(p.Token)
	if token == "" {
		return errors.New("missing token")
	}
	if g.sessions == nil {
		return errors.New("sessions unavailable")
	}

	sess, ok := g.sessions.Get(now, token)
	if !ok {
		return errors.New("invalid or expired session")
	}

	if g.requireAllowlist && !g.allowlist.IsAllowed(sess.DID) {
		return errors.New("not on the allowlist")
	}

	client.DID = sess.DID
	client.Handle = sess.Handle

	g.hub.Register(client)
	g.presence.Connect(sess.DID)
	g.metrics.connect()
	g.metrics.setOnline(g.presence.OnlineCount())

	g.log.Info("ws.hello", "conn_id", client.ConnID, "did", sess.DID, "handle", sess.Handle)

	ackPayload, _ := json.Marshal(HelloAckPayload{DID: sess.DID, Handle: sess.Handle})
	if !g.enqueue(ctx, client, g.newEnvelope(TypeHelloAck, ackPayload, now)) {
		return errors.New("backpressure: hello_ack")
	}
	return nil
}

func (g *WSGateway) onStatusSet(client *Client, env Envelope) error {
	var p StatusSetPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	status := Status(strings.TrimSpace(p.Status))
	if !ValidStatus(status) {
		return fmt.Errorf("unknown status: %q", p.Status)
	}

	msg := p.AwayMessage
	if len([]rune(msg)) > maxAwayMessageChars {
		return fmt.Errorf("away message too long: max=%d chars", maxAwayMessageChars)
	}

	g.presence.SetStatus(client.DID, status, msg)
	g.metrics.setOnline(g.presence.OnlineCount())
	return nil
}

func (g *WSGateway) onRoomJoin(ctx context.Context, client *Client, env Envelope, now time.Time) error {
	var p RoomJoinPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	roomID := strings.TrimSpace(p.RoomID)
	if roomID == "" {
		return errors.New("missing room_id")
	}

	if g.gate != nil {
		decision, err := g.gate.CheckAccess(ctx, now, roomID, client.DID)
		if err != nil {
			g.log.Error("ws.room.gate.fail", "room_id", roomID, "did", client.DID, "err", err)
			return errors.New("room unavailable")
		}
		if !decision.Allowed {
			return errors.New(decision.Reason)
		}
	}

	g.presence.JoinRoom(client.DID, roomID)

	echoPayload, _ := json.Marshal(RoomJoinPayload{
		RoomID:  roomID,
		Members: g.presence.RoomMembers(roomID),
	})
	if !g.enqueue(ctx, client, g.newEnvelope(TypeRoomJoin, echoPayload, now)) {
		g.presence.LeaveRoom(client.DID, roomID)
		return errors.New("backpressure: join echo")
	}
	return nil
}

func (g *WSGateway) onRoomLeave(client *Client, env Envelope) error {
	var p RoomLeavePayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	roomID := strings.TrimSpace(p.RoomID)
	if roomID == "" {
		return errors.New("missing room_id")
	}

	g.presence.LeaveRoom(client.DID, roomID)
	return nil
}

func (g *WSGateway) onRoomMessage(client *Client, env Envelope, now time.Time) error {
	var p RoomMessagePayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	roomID := strings.TrimSpace(p.RoomID)
	if roomID == "" {
		return errors.New("missing room_id")
	}
	if !g.presence.InRoom(client.DID, roomID) {
		return errors.New("join the room first")
	}

	text := strings.TrimSpace(p.Text)
	if text == "" {
		return errors.New("empty text")
	}
	if len([]rune(text)) > maxMessageChars {
		return fmt.Errorf("message too long: max=%d chars", maxMessageChars)
	}

	if ok, reason := g.filter.Check(text); !ok {
		return fmt.Errorf("message rejected: %s", reason)
	}

	outPayload, _ := json.Marshal(RoomMessagePayload{
		RoomID: roomID,
		Sender: client.DID,
		Text:   text,
	})
	out := g.newEnvelope(TypeRoomMessage, outPayload, now)

	// Fan out to connected members, sender included (its echo is the ack).
	for _, did := range g.presence.RoomMembers(roomID) {
		g.hub.Deliver(did, out)
	}
	g.metrics.roomMessage()
	return nil
}

func (g *WSGateway) onPresenceFetch(ctx context.Context, client *Client, env Envelope, now time.Time) error {
	var p PresenceFetchPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	if len(p.DIDs) == 0 {
		return errors.New("missing dids")
	}
	if len(p.DIDs) > presenceBulkMax {
		return fmt.Errorf("too many dids: max=%d", presenceBulkMax)
	}

	raw := g.presence.PresenceBulk(p.DIDs)

	viewer := client.DID
	isCommunity := g.policy.IsCommunityMember(ctx, viewer)

	disclosed := make(map[string]Presence, len(raw))
	for target, pres := range raw {
		vis := g.policy.Visibility(ctx, target)
		status := ResolveVisibility(vis, pres.Status, isCommunity, g.policy.IsInnerCircle(ctx, target, viewer))
		if status == StatusOffline {
			// Never leak an away message through a hidden status.
			disclosed[target] = Presence{Status: StatusOffline}
			continue
		}
		disclosed[target] = Presence{Status: status, AwayMessage: pres.AwayMessage}
	}

	resPayload, _ := json.Marshal(PresenceResultPayload{Presences: disclosed})
	if !g.enqueue(ctx, client, g.newEnvelope(TypePresenceResult, resPayload, now)) {
		return errors.New("backpressure: presence result")
	}
	return nil
}

func (g *WSGateway) onRTCSignal(client *Client, env Envelope, now time.Time) error {
	var p RTCSignalPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	convID := strings.TrimSpace(p.ConversationID)

	var recipient string
	switch env.Type {
	case TypeRTCOffer:
		to := strings.TrimSpace(p.To)
		if to == "" {
			return errors.New("missing to")
		}
		if convID == "" {
			id, err := NewConversationID(now)
			if err != nil {
				return errNotRelayed
			}
			convID = id
		}
		if err := g.ims.Register(convID, client.DID, to); err != nil {
			return errNotRelayed
		}
		recipient = to

	default:
		if convID == "" {
			return errors.New("missing conversation_id")
		}
		// Unknown conversation and non-participant sender report the
		// same generic failure so registry state is not leaked.
		r, ok := g.ims.RecipientDID(convID, client.DID)
		if !ok {
			return errNotRelayed
		}
		recipient = r
	}

	outPayload, _ := json.Marshal(RTCSignalPayload{
		ConversationID: convID,
		From:           client.DID,
		Signal:         p.Signal,
	})
	g.hub.Deliver(recipient, g.newEnvelope(env.Type, outPayload, now))
	g.metrics.relaySignal()

	if env.Type == TypeRTCHangup {
		g.ims.Unregister(convID)
	}
	return nil
}

// ---- send helpers ----

func (g *WSGateway) trySendError(ctx context.Context, client *Client, code, msg string) {
	p, _ := json.Marshal(ErrorPayload{Code: code, Message: msg})
	_ = g.enqueue(ctx, client, g.newEnvelope(TypeError, p, time.Now().UTC()))
}

func (g *WSGateway) enqueue(ctx context.Context, client *Client, env Envelope) bool {
	select {
	case <-ctx.Done():
		return false
	case <-client.Done():
		return false
	case client.Send <- env:
		return true
	default:
		return false
	}
}

// ---- envelope IO ----

func (g *WSGateway) newEnvelope(typ string, payload json.RawMessage, ts time.Time) Envelope {
	id, _ := NewEnvelopeID(ts)
	return Envelope{
		V:       Version,
		Type:    typ,
		ID:      id,
		TS:      ts,
		Payload: payload,
	}
}

func readEnvelope(ctx context.Context, conn *websocket.Conn) (Envelope, error) {
	mt, data, err := conn.Read(ctx)
	if err != nil {
		return Envelope{}, err
	}
	if mt != websocket.MessageText && mt != websocket.MessageBinary {
		return Envelope{}, fmt.Errorf("unsupported message type: %v", mt)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

func writeEnvelope(parent context.Context, conn *websocket.Conn, env Envelope, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, b)
}

// ---- read error classification ----

type readErrKind uint8

const (
	readErrUnknown readErrKind = iota
	readErrClose
	readErrCtxDone
	readErrConnClosed
	readErrBadJSON
)

func classifyReadErr(err error) readErrKind {
	if websocket.CloseStatus(err) != -1 {
		return readErrClose
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return readErrCtxDone
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
		return readErrConnClosed
	}

	// JSON decode errors may be propagated as strings through the
	// websocket read path; classify them for a friendlier client error.
	s := err.Error()
	if strings.Contains(s, "unexpected end of JSON input") || strings.Contains(s, "invalid character") {
		return readErrBadJSON
	}
	return readErrUnknown
}

// ---- origin policy ----

func (g *WSGateway) enforceOrigin(r *http.Request) error {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		if g.originRequired {
			return errors.New("missing origin")
		}
		return nil
	}

	if len(g.allowedOrigins) == 0 {
		return errors.New("origin not allowed (no allowlist)")
	}

	originHost := originHostOnly(origin)

	for _, a := range g.allowedOrigins {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if a == "*" {
			// Strongly discouraged, but honored if explicitly configured.
			return nil
		}
		if origin == a {
			return nil
		}
		if originHost != "" && originHost == originHostOnly(a) {
			return nil
		}
	}

	return fmt.Errorf("origin not allowed: %s", origin)
}

func originHostOnly(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return ""
		}
		h := strings.TrimSpace(u.Host)
		if h == "" {
			return ""
		}
		if host, _, err := net.SplitHostPort(h); err == nil {
			return strings.ToLower(host)
		}
		return strings.ToLower(h)
	}

	if host, _, err := net.SplitHostPort(s); err == nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(s)
}

func deriveOriginPatterns(allowed []string) []string {
	seen := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		h := originHostOnly(a)
		if h == "" || h == "*" {
			continue
		}
		seen[h] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	return out
}

func remoteAddrKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ---- env helpers ----

func envBoolWS(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envIntWS(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDurationWS(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envCSVWS(key string, def string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = def
	}
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
