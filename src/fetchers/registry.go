package fetchers

import (
	"sort"

	"market-fetcher/src/helpers"
	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
)

// -----------------------------------------------------------------------------

// Constructor builds a fetcher bound to the shared network manager.
type Constructor func(netMgr interfaces.INetworkManager) interfaces.IFetcher

// Registry maps fetcher-kind identifiers to constructors. It is populated
// at process start; resolving an unknown kind is a configuration error, not
// a runtime lookup failure.
type Registry struct {
	kinds map[string]Constructor
}

// -----------------------------------------------------------------------------

// NewRegistry returns a registry with all built-in fetcher kinds.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Constructor)}

	r.Register(KindOCCSeries, func(netMgr interfaces.INetworkManager) interfaces.IFetcher {
		return NewOCCSeriesFetcher(netMgr, logger.NewLogger("OCCSeriesFetcher"))
	})
	r.Register(KindSECFTD, func(netMgr interfaces.INetworkManager) interfaces.IFetcher {
		return NewSECFTDFetcher(netMgr, logger.NewLogger("SECFTDFetcher"))
	})
	r.Register(KindETFShares, func(netMgr interfaces.INetworkManager) interfaces.IFetcher {
		return NewETFSharesFetcher(netMgr, logger.NewLogger("ETFSharesFetcher"))
	})
	r.Register(KindYahooBars, func(netMgr interfaces.INetworkManager) interfaces.IFetcher {
		return NewYahooBarsFetcher(netMgr, logger.NewLogger("YahooBarsFetcher"))
	})

	return r
}

// -----------------------------------------------------------------------------

// Register adds a constructor under a kind identifier.
func (r *Registry) Register(kind string, c Constructor) {
	r.kinds[kind] = c
}

// -----------------------------------------------------------------------------

// Resolve builds a fetcher for the given kind.
func (r *Registry) Resolve(kind string, netMgr interfaces.INetworkManager) (interfaces.IFetcher, error) {
	c, ok := r.kinds[kind]
	if !ok {
		return nil, helpers.NewConfigurationError("unknown fetcher kind '%s' (known: %v)", kind, r.Kinds())
	}
	return c(netMgr), nil
}

// -----------------------------------------------------------------------------

// Kinds lists registered kind identifiers, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
