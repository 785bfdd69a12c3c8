package profile

import (
	"context"
	"fmt"
	"sync"

	"crewdeck/internal/auth"
	"crewdeck/internal/errs"
	"crewdeck/internal/logger"
	"crewdeck/internal/models"
)

// GateState is the gate's position in its one-shot check.
type GateState int

const (
	GateUnchecked GateState = iota
	GateChecking
	GateFound
	GateNotFound
	GateError
)

func (s GateState) String() string {
	switch s {
	case GateUnchecked:
		return "unchecked"
	case GateChecking:
		return "checking"
	case GateFound:
		return "found"
	case GateNotFound:
		return "not_found"
	case GateError:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher is the profile lookup the gate performs exactly once per
// identity.
type Fetcher interface {
	GetByEmail(ctx context.Context, email string) (*Result, error)
}

// Navigator is where the gate sends users who have no profile yet.
type Navigator interface {
	RedirectToProfileSetup()
}

// IdentityCache persists the resolved profile identifier for the other
// services to scope their calls by.
type IdentityCache interface {
	Put(ctx context.Context, email string, profileID int, loginID string) error
	Delete(ctx context.Context, email string) error
}

// Gate runs the post-login profile check: look the profile up by email
// once, cache its id on success, route new users into profile creation,
// and hold still on server errors so a broken backend cannot cause a
// redirect loop.
type Gate struct {
	mu        sync.Mutex
	state     GateState
	email     string
	attempted bool
	profile   *models.Profile
	loginID   string
	lastErr   error

	profiles Fetcher
	nav      Navigator
	cache    IdentityCache
	log      *logger.Logger
}

func NewGate(profiles Fetcher, nav Navigator, cache IdentityCache, log *logger.Logger) *Gate {
	return &Gate{profiles: profiles, nav: nav, cache: cache, log: log}
}

// Check runs the one-shot profile lookup for the given identity. Calling
// it again with the same email is a no-op; a different email starts one
// fresh check for the new identity.
func (g *Gate) Check(ctx context.Context, ident auth.Identity) GateState {
	g.mu.Lock()
	if ident.Email == "" {
		state := g.state
		g.mu.Unlock()
		return state
	}
	if g.attempted && g.email == ident.Email {
		state := g.state
		g.mu.Unlock()
		return state
	}
	if g.attempted && g.email != ident.Email {
		// Account switch: drop the previous identity's cached id.
		if g.cache != nil {
			_ = g.cache.Delete(ctx, g.email)
		}
		g.profile = nil
		g.loginID = ""
		g.lastErr = nil
	}
	g.attempted = true
	g.email = ident.Email
	g.state = GateChecking
	g.mu.Unlock()

	if g.log != nil {
		g.log.LogGate("checking", fmt.Sprintf("looking up profile for %s", ident.Email))
	}
	result, err := g.profiles.GetByEmail(ctx, ident.Email)

	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case err != nil && errs.IsServerError(err):
		// A 5xx must not redirect: doing so against a transiently failing
		// backend would loop forever.
		g.state = GateError
		g.lastErr = err
		if g.log != nil {
			g.log.Error("GATE", fmt.Sprintf("profile check failed with server error, not redirecting: %v", err))
		}
	case err != nil:
		g.state = GateError
		g.lastErr = err
		if g.log != nil {
			g.log.LogGate("error", fmt.Sprintf("profile check failed, treating as missing profile: %v", err))
		}
		g.nav.RedirectToProfileSetup()
	case result == nil:
		g.state = GateNotFound
		if g.log != nil {
			g.log.LogGate("not_found", fmt.Sprintf("no profile for %s, redirecting to setup", ident.Email))
		}
		g.nav.RedirectToProfileSetup()
	default:
		g.state = GateFound
		p := result.Profile
		g.profile = &p
		g.loginID = p.LoginID
		if g.loginID == "" {
			g.loginID = ident.Subject
		}
		if g.cache != nil {
			if cerr := g.cache.Put(ctx, ident.Email, p.ID, g.loginID); cerr != nil && g.log != nil {
				g.log.Warn("GATE", fmt.Sprintf("could not persist profile id: %v", cerr))
			}
		}
		if g.log != nil {
			g.log.LogGate("found", fmt.Sprintf("profile %d resolved for %s", p.ID, ident.Email))
		}
	}

	return g.state
}

// Reset returns the gate to unchecked, clearing the cached identifier.
// Call on logout.
func (g *Gate) Reset(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.email != "" && g.cache != nil {
		_ = g.cache.Delete(ctx, g.email)
	}
	g.state = GateUnchecked
	g.email = ""
	g.attempted = false
	g.profile = nil
	g.loginID = ""
	g.lastErr = nil
}

func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Profile returns a copy of the resolved profile, if any.
func (g *Gate) Profile() *models.Profile {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.profile == nil {
		return nil
	}
	p := *g.profile
	return &p
}

// ProfileID is the cached identifier other services scope their calls by.
func (g *Gate) ProfileID() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.profile == nil {
		return 0, false
	}
	return g.profile.ID, true
}

// LoginID is the profile's login id, falling back to the token subject.
func (g *Gate) LoginID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loginID
}

// Err is the failure from the last check, if it ended in GateError.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// HasChecked reports whether a check has run for the current identity.
func (g *Gate) HasChecked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempted && g.state != GateChecking
}
