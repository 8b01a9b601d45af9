package frontier

import "errors"

// Admission rejections. These are normal crawl outcomes, not failures.
var (
	ErrNoDomain              = errors.New("frontier: url has no domain")
	ErrDomainBudgetExhausted = errors.New("frontier: domain budget exhausted")
	ErrDepthBudgetExceeded   = errors.New("frontier: depth budget exceeded")
	ErrAlreadyVisited        = errors.New("frontier: already visited")
)

// Default budgets.
const (
	DefaultMaxDepthPerDomain = 3
	DefaultMaxDomainHops     = 10
)

// Policy bounds how far the crawl may wander.
type Policy struct {
	// MaxDepthPerDomain caps same-domain depth relative to the depth at
	// which the domain was first seen.
	MaxDepthPerDomain int

	// MaxDomainHops caps the number of domains admitted by following links.
	// The seed domain does not count against it.
	MaxDomainHops int
}

// DefaultPolicy returns the stock budgets.
func DefaultPolicy() Policy {
	return Policy{
		MaxDepthPerDomain: DefaultMaxDepthPerDomain,
		MaxDomainHops:     DefaultMaxDomainHops,
	}
}

// DomainState is what the frontier remembers about a domain.
type DomainState struct {
	// BaselineDepth is the depth at which the domain was first admitted.
	// It never changes afterwards.
	BaselineDepth int
}

// decision is the policy's verdict for one link.
type decision struct {
	depth     int
	newDomain bool
}

// decide applies the domain and depth budgets. state is nil when domain has
// not been seen before; hops is the number of domains admitted by hopping so
// far. Crossing into a new domain resets depth to 0.
func (p Policy) decide(state *DomainState, hops, depth int) (decision, error) {
	if state == nil {
		if hops >= p.MaxDomainHops {
			return decision{}, ErrDomainBudgetExhausted
		}
		return decision{depth: 0, newDomain: true}, nil
	}
	if depth > state.BaselineDepth+p.MaxDepthPerDomain {
		return decision{}, ErrDepthBudgetExceeded
	}
	return decision{depth: depth}, nil
}
