package openid

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// clientTTL is how long a discovered client is served from the
	// cache before discovery runs again to pick up rotated keys.
	clientTTL = 24 * time.Hour

	// discoveryTimeout bounds a single discovery network call.
	discoveryTimeout = 10 * time.Second
)

// DiscoverFunc resolves a provider into a client. It exists so tests
// can substitute discovery without network access.
type DiscoverFunc func(ctx context.Context, provider Provider) (Client, error)

// ProviderClient pairs a provider with its client; Client is nil when
// the provider is currently unavailable.
type ProviderClient struct {
	Provider Provider
	Client   Client
}

// Registry caches one discovered client per provider with a fixed TTL.
// Reads are cheap lock-protected lookups; population is per-provider
// exclusive via singleflight so concurrent requests for a cold
// provider coalesce into one discovery call.
type Registry struct {
	mu       sync.RWMutex
	entries  map[Provider]registryEntry
	group    singleflight.Group
	discover DiscoverFunc
	ttl      time.Duration
}

type registryEntry struct {
	client  Client
	expires time.Time
}

// NewRegistry creates a registry using real network discovery.
func NewRegistry() *Registry {
	return newRegistry(Discover)
}

func newRegistry(discover DiscoverFunc) *Registry {
	return &Registry{
		entries:  make(map[Provider]registryEntry),
		discover: discover,
		ttl:      clientTTL,
	}
}

// Get returns a cached client for the provider, running discovery when
// the cache entry is missing or expired. Discovery failure is logged
// and reported as absent; callers treat an absent provider as
// temporarily unavailable.
func (r *Registry) Get(ctx context.Context, provider Provider) (Client, bool) {
	if client, ok := r.cached(provider); ok {
		return client, true
	}

	value, err, _ := r.group.Do(string(provider), func() (interface{}, error) {
		// Another flight may have populated the entry while this caller
		// was waiting to start.
		if client, ok := r.cached(provider); ok {
			return client, nil
		}

		// Discovery outlives the first caller's request deadline so a
		// cancelled request doesn't fail everyone coalesced behind it.
		dctx, cancel := context.WithTimeout(context.Background(), discoveryTimeout)
		defer cancel()

		client, err := r.discover(dctx, provider)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.entries[provider] = registryEntry{client: client, expires: time.Now().Add(r.ttl)}
		r.mu.Unlock()

		return client, nil
	})
	if err != nil {
		log.Printf("failed to initialize provider %s: %v", provider, err)
		return nil, false
	}
	return value.(Client), true
}

// All resolves every known provider concurrently and returns each with
// its client, nil for providers that are unavailable. It completes
// when the slowest provider settles.
func (r *Registry) All(ctx context.Context) []ProviderClient {
	providers := Providers()
	results := make([]ProviderClient, len(providers))

	var wg sync.WaitGroup
	for i, provider := range providers {
		wg.Add(1)
		go func(i int, provider Provider) {
			defer wg.Done()
			client, ok := r.Get(ctx, provider)
			if !ok {
				client = nil
			}
			results[i] = ProviderClient{Provider: provider, Client: client}
		}(i, provider)
	}
	wg.Wait()

	return results
}

// WarmUp resolves every configured provider once in the background so
// the first real login isn't slowed by cold discovery. Errors are
// swallowed; the providers will be retried on demand.
func (r *Registry) WarmUp() {
	go r.All(context.Background())
}

func (r *Registry) cached(provider Provider) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[provider]
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.client, true
}
