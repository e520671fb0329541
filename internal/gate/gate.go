package gate

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const flashDuration = 2 * time.Second

// Gate is the session access gate: a shared secret compared by exact string
// equality. It starts locked, unlocks at most once per session, and shows a
// transient error flash after a wrong attempt. Retries are unlimited; the
// fixed code with no lockout is a known, deliberate property of the app.
type Gate struct {
	mu         sync.Mutex
	code       string
	unlocked   bool
	flash      bool
	token      string
	flashDelay time.Duration
}

// Status is the gate's observable state for the UI.
type Status struct {
	Unlocked bool `json:"unlocked"`
	Flash    bool `json:"flash"`
}

func New(code string) *Gate {
	return &Gate{code: code, flashDelay: flashDuration}
}

// Submit compares the attempt against the secret. On the first success it
// issues a session token; later correct submits return the same token. A
// wrong attempt sets the error flash, which clears on its own.
func (g *Gate) Submit(attempt string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if attempt == g.code {
		if !g.unlocked {
			g.unlocked = true
			g.token = uuid.NewString()
		}
		return g.token, true
	}
	g.flash = true
	time.AfterFunc(g.flashDelay, func() {
		g.mu.Lock()
		g.flash = false
		g.mu.Unlock()
	})
	return "", false
}

func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{Unlocked: g.unlocked, Flash: g.flash}
}

// Authorized reports whether token is the one issued at unlock.
func (g *Gate) Authorized(token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked && token != "" && token == g.token
}

// Middleware rejects requests that do not carry the session token.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Authorized(r.Header.Get("X-Session-Token")) {
			http.Error(w, "locked", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
