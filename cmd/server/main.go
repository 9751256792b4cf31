package main

import (
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"orbduel-server/internal/config"
	"orbduel-server/internal/match"
	"orbduel-server/internal/matchlog"
	"orbduel-server/internal/protocol"
	"orbduel-server/internal/server"
	"orbduel-server/internal/stats"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu       sync.Mutex
	times    map[string]time.Time
	cooldown time.Duration
}

func newIPRateLimiter(cooldown time.Duration) *ipRateLimiter {
	rl := &ipRateLimiter{times: make(map[string]time.Time), cooldown: cooldown}
	// Cleanup stale entries every 60s
	go func() {
		for range time.Tick(60 * time.Second) {
			rl.mu.Lock()
			cutoff := time.Now().Add(-rl.cooldown)
			for ip, t := range rl.times {
				if t.Before(cutoff) {
					delete(rl.times, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if last, ok := rl.times[ip]; ok {
		if time.Since(last) < rl.cooldown {
			return false
		}
	}
	rl.times[ip] = time.Now()
	return true
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

// sendErrorAndClose sends an error message then closes the raw socket.
func sendErrorAndClose(ws *websocket.Conn, code, msg string) {
	data, _ := json.Marshal(protocol.ErrorMsg{Type: protocol.TypeError, Code: code, Message: msg})
	_ = ws.WriteMessage(websocket.TextMessage, data)
	ws.Close()
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to server config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	statsStore, err := stats.Open(cfg.StatsDBPath)
	if err != nil {
		log.Fatalf("stats db: %v", err)
	}
	defer statsStore.Close()

	journal := matchlog.NewJournal(cfg.MatchLogDir)
	defer journal.Close()

	manager := match.NewManager(cfg.StakeTiers)
	// Terminal summaries fan out best-effort: a failed journal write must
	// never disturb the next match.
	manager.OnGameOver = func(sum protocol.FinalSummary) {
		statsStore.Record(sum)
		if err := journal.Append(sum); err != nil {
			log.Printf("matchlog: append %s: %v", sum.MatchID, err)
		}
	}

	handler := server.NewHandler(manager)
	rateLimiter := newIPRateLimiter(time.Duration(cfg.IPCooldownSec) * time.Second)
	var connCount atomic.Int64

	http.HandleFunc(cfg.WebSocketPath, func(w http.ResponseWriter, r *http.Request) {
		// Extract client IP (handle X-Forwarded-For for reverse proxies)
		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws upgrade error: %v", err)
			return
		}

		// Check limits after upgrade so the client can receive the reason
		if int(connCount.Load()) >= cfg.MaxConnections {
			sendErrorAndClose(ws, protocol.ErrServerFull, "server full, try again later")
			return
		}
		if !rateLimiter.allow(ip) {
			sendErrorAndClose(ws, protocol.ErrRateLimit, "too many connections, please wait")
			return
		}
		ws.EnableWriteCompression(true)

		conn := server.NewConn(ws)
		connCount.Add(1)
		log.Printf("client connected: %s", conn.ID)

		// An escaped panic in one read loop must not take down every
		// active match in the process.
		defer func() {
			connCount.Add(-1)
			if r := recover(); r != nil {
				log.Printf("conn %s: read loop panic: %v", conn.ID, r)
			}
		}()
		conn.ReadLoop(handler)
	})

	http.HandleFunc("/debug/queues", server.QueuesHandler(manager))
	http.HandleFunc("/debug/matches", server.MatchesHandler(manager))
	http.HandleFunc("/stats", server.StatsHandler(statsStore))

	log.Printf("server listening on %s (tiers=%v)", cfg.ListenAddr, cfg.StakeTiers)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
