package policy

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

// CachedDecider memoizes verdicts over (role, object, action, scope)
// tuples. The role table is static, so a memoized tuple can never go
// stale; ownership still resolves on every call because scope is part
// of the key, not the cached value's input.
type CachedDecider struct {
	inner *Policy
	memo  *lru.Cache[string, bool]
}

var _ Decider = (*CachedDecider)(nil)

// NewCached wraps a Policy with an LRU memo of the given size.
func NewCached(inner *Policy, size int) (*CachedDecider, error) {
	memo, err := lru.New[string, bool](size)
	if err != nil {
		return nil, fmt.Errorf("create decision cache: %w", err)
	}
	return &CachedDecider{inner: inner, memo: memo}, nil
}

// Decide answers like the wrapped Policy, consulting the memo after
// scope resolution.
func (c *CachedDecider) Decide(ident sdk.Identity, action string, res Resource) bool {
	if !ident.Role.Valid() || !ValidateAction(action) || res.Object == "" {
		return false
	}
	scope := c.inner.scopeOf(ident, action, res)
	key := fmt.Sprintf("%s|%s|%s|%s", ident.Role, res.Object, action, scope)
	if verdict, ok := c.memo.Get(key); ok {
		return verdict
	}
	allowed, err := c.inner.enforcer.Enforce(roleID(ident.Role), res.Object, action, scope)
	if err != nil {
		return false
	}
	c.memo.Add(key, allowed)
	return allowed
}
