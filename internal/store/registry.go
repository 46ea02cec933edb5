// Package store provee el registry de adaptadores de almacenamiento y los
// decoradores (cache, circuit breaker) sobre los repositorios de grupos.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
)

// Adapter es un driver de storage ("memory", "postgres"). Cada driver se registra
// en su init() y server.Build lo elige por storage.driver.
type Adapter interface {
	Name() string
	Connect(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error)
}

// AdapterConnection expone los repositorios que usa roleviews.
type AdapterConnection interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error

	Groups() repository.GroupRepository
	Articles() repository.ArticleRepository
}

// Migratable lo implementan las conexiones con migraciones SQL (postgres).
type Migratable interface {
	Migrate(ctx context.Context) (applied []int, err error)
}

// AdapterConfig es la sección storage de la config, ya resuelta.
type AdapterConfig struct {
	Name     string
	DSN      string // postgres
	Fixtures string // memory: YAML con grupos, usuarios y artículos

	MaxOpenConns int // postgres
	MaxIdleConns int
}

type registry struct {
	mu      sync.RWMutex
	drivers map[string]Adapter
}

var drivers = registry{drivers: map[string]Adapter{}}

// RegisterAdapter agrega un driver. Registrar dos veces el mismo nombre es un bug: panic.
func RegisterAdapter(a Adapter) {
	drivers.mu.Lock()
	defer drivers.mu.Unlock()
	if _, dup := drivers.drivers[a.Name()]; dup {
		panic(fmt.Sprintf("store: adapter %q registered twice", a.Name()))
	}
	drivers.drivers[a.Name()] = a
}

// GetAdapter busca un driver por nombre.
func GetAdapter(name string) (Adapter, bool) {
	drivers.mu.RLock()
	defer drivers.mu.RUnlock()
	a, ok := drivers.drivers[name]
	return a, ok
}

// ListAdapters retorna los drivers registrados, ordenados.
func ListAdapters() []string {
	drivers.mu.RLock()
	defer drivers.mu.RUnlock()
	names := make([]string, 0, len(drivers.drivers))
	for name := range drivers.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenAdapter conecta con el driver cfg.Name.
func OpenAdapter(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("store: adapter %q not registered (available: %s)", cfg.Name, strings.Join(ListAdapters(), ", "))
	}
	return a.Connect(ctx, cfg)
}
