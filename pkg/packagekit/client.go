package packagekit

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Package is one search or browse result: the identity plus the one-line
// summary carried by the discovery signal.
type Package struct {
	ID        PackageID `json:"id"`
	Summary   string    `json:"summary"`
	Installed bool      `json:"installed"`
}

// PackageDetails supersets a Package with the progressively loaded detail
// fields. A detail fetch never removes information a prior search reported;
// fields the service left out stay empty or zero.
type PackageDetails struct {
	ID          PackageID `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	License     string    `json:"license"`
	Group       Group     `json:"group"`
	URL         string    `json:"url"`
	Size        uint64    `json:"size"`
	Installed   bool      `json:"installed"`
}

// PackageInfo is the full record shown by the info view: details plus the
// best-effort dependency list.
type PackageInfo struct {
	PackageDetails
	Dependencies []string `json:"dependencies,omitempty"`
}

// DefaultCacheMount is the filesystem mount the package service writes
// under. A read-only mount there means the service cannot function.
const DefaultCacheMount = "/var/cache"

// Client is the operation facade over the package service. All methods are
// safe for concurrent use; concurrent operations share only the bus
// connection, each owning its own transaction and result accumulator.
type Client struct {
	conns *ConnectionManager

	waitGrace     time.Duration
	cacheMount    string
	now           func() time.Time
	mountWritable func(string) (bool, error)
}

// NewClient returns a client running transactions over connections from
// conns.
func NewClient(conns *ConnectionManager) *Client {
	return &Client{
		conns:         conns,
		waitGrace:     DefaultWaitGrace,
		cacheMount:    DefaultCacheMount,
		now:           time.Now,
		mountWritable: mountWritable,
	}
}

// SetWaitGrace overrides the startup grace period before a wait status is
// reported as waiting.
func (c *Client) SetWaitGrace(d time.Duration) {
	c.waitGrace = d
}

// SetCacheMount overrides the mount checked by the availability probe.
func (c *Client) SetCacheMount(path string) {
	c.cacheMount = path
}

// run executes one transaction and folds a non-success exit code without an
// error signal into the generic failure code.
func (c *Client) run(ctx context.Context, call TransactionCall) error {
	exit, err := c.RunTransaction(ctx, call)
	if err != nil {
		return err
	}
	switch exit {
	case ExitSuccess:
		return nil
	case ExitCancelled:
		return &TransactionError{Code: ErrCancelled}
	default:
		return &TransactionError{
			Code:   ErrTransactionFailed,
			Detail: fmt.Sprintf("transaction finished with exit code %d", exit),
		}
	}
}

// search runs one query verb and accumulates package discoveries. The
// accumulator lives and dies with this call; concurrent searches cannot see
// each other's results.
func (c *Client) search(ctx context.Context, method string, filter Filter, values []string, onProgress ProgressFunc) ([]Package, error) {
	var acc []Package
	call := TransactionCall{
		Method:     method,
		Args:       []any{uint64(filter), values},
		OnProgress: onProgress,
		Handlers: SignalHandlers{
			Package: func(ev PackageEvent) {
				acc = append(acc, Package{
					ID:        ev.ID,
					Summary:   ev.Summary,
					Installed: ev.ID.Installed(),
				})
			},
		},
	}
	if err := c.run(ctx, call); err != nil {
		return nil, err
	}
	return acc, nil
}

// SearchNames finds packages whose name matches the query.
func (c *Client) SearchNames(ctx context.Context, query string, onProgress ProgressFunc) ([]Package, error) {
	return c.search(ctx, "SearchNames", searchFilter, []string{query}, onProgress)
}

// SearchDetails finds packages whose name, summary or description matches
// the query.
func (c *Client) SearchDetails(ctx context.Context, query string, onProgress ProgressFunc) ([]Package, error) {
	return c.search(ctx, "SearchDetails", searchFilter, []string{query}, onProgress)
}

// SearchGroups lists the packages in one or more categories. Filtering
// happens on the service side, which is what keeps category browsing fast.
func (c *Client) SearchGroups(ctx context.Context, groups []Group, onProgress ProgressFunc) ([]Package, error) {
	tokens := make([]string, len(groups))
	for i, g := range groups {
		tokens[i] = g.Token()
	}
	return c.search(ctx, "SearchGroups", searchFilter, tokens, onProgress)
}

// GetDetails fetches the full detail record for each given identity. Every
// result is a superset of the identity it was queried with.
func (c *Client) GetDetails(ctx context.Context, ids []PackageID) ([]PackageDetails, error) {
	wire := make([]string, len(ids))
	for i, id := range ids {
		wire[i] = id.String()
	}

	var acc []PackageDetails
	call := TransactionCall{
		Method: "GetDetails",
		Args:   []any{wire},
		Handlers: SignalHandlers{
			Details: func(ev DetailsEvent) {
				acc = append(acc, PackageDetails{
					ID:          ev.ID,
					Summary:     ev.Summary,
					Description: ev.Description,
					License:     ev.License,
					Group:       ev.Group,
					URL:         ev.URL,
					Size:        ev.Size,
					Installed:   ev.ID.Installed(),
				})
			},
		},
	}
	if err := c.run(ctx, call); err != nil {
		return nil, err
	}
	return acc, nil
}

// Resolve maps a package name to the newest matching identity. Zero matches
// is a not-found error.
func (c *Client) Resolve(ctx context.Context, name string) (PackageID, error) {
	return c.resolve(ctx, name, searchFilter)
}

func (c *Client) resolve(ctx context.Context, name string, filter Filter) (PackageID, error) {
	pkgs, err := c.search(ctx, "Resolve", filter, []string{name}, nil)
	if err != nil {
		return PackageID{}, err
	}
	if len(pkgs) == 0 {
		return PackageID{}, &TransactionError{
			Code:   ErrNotFound,
			Detail: fmt.Sprintf("%s matches no known package", name),
		}
	}
	return pkgs[0].ID, nil
}

// Install resolves name to its newest available build and installs it,
// reporting progress along the way.
func (c *Client) Install(ctx context.Context, name string, onProgress ProgressFunc) error {
	id, err := c.Resolve(ctx, name)
	if err != nil {
		return err
	}
	return c.run(ctx, TransactionCall{
		Method:     "InstallPackages",
		Args:       []any{uint64(TransactionFlagNone), []string{id.String()}},
		OnProgress: onProgress,
	})
}

// Remove resolves name among the installed packages and removes it. Unused
// dependencies are removed along with it; configuration files are kept.
func (c *Client) Remove(ctx context.Context, name string, onProgress ProgressFunc) error {
	id, err := c.resolve(ctx, name, FilterInstalled)
	if err != nil {
		return err
	}
	const (
		allowDeps  = true
		autoremove = true
	)
	return c.run(ctx, TransactionCall{
		Method:     "RemovePackages",
		Args:       []any{uint64(TransactionFlagNone), []string{id.String()}, allowDeps, autoremove},
		OnProgress: onProgress,
	})
}

// ListDependencies returns the wire IDs of the packages id depends on.
func (c *Client) ListDependencies(ctx context.Context, id PackageID) ([]string, error) {
	return c.listRelated(ctx, "DependsOn", id)
}

// ListReverseDependencies returns the wire IDs of the packages that depend
// on id.
func (c *Client) ListReverseDependencies(ctx context.Context, id PackageID) ([]string, error) {
	return c.listRelated(ctx, "RequiredBy", id)
}

func (c *Client) listRelated(ctx context.Context, method string, id PackageID) ([]string, error) {
	const recursive = false
	var acc []string
	call := TransactionCall{
		Method: method,
		Args:   []any{uint64(FilterNone), []string{id.String()}, recursive},
		Handlers: SignalHandlers{
			Package: func(ev PackageEvent) {
				acc = append(acc, ev.ID.String())
			},
		},
	}
	if err := c.run(ctx, call); err != nil {
		return nil, err
	}
	return acc, nil
}

// ListFiles returns the files installed by the given package.
func (c *Client) ListFiles(ctx context.Context, id PackageID) ([]string, error) {
	var acc []string
	call := TransactionCall{
		Method: "GetFiles",
		Args:   []any{[]string{id.String()}},
		Handlers: SignalHandlers{
			Files: func(ev FilesEvent) {
				acc = append(acc, ev.Files...)
			},
		},
	}
	if err := c.run(ctx, call); err != nil {
		return nil, err
	}
	return acc, nil
}

// RefreshCache re-downloads the repository metadata. There is nothing to
// accumulate; success is the terminal resolution itself.
func (c *Client) RefreshCache(ctx context.Context, force bool, onProgress ProgressFunc) error {
	return c.run(ctx, TransactionCall{
		Method:     "RefreshCache",
		Args:       []any{force},
		OnProgress: onProgress,
	})
}

// Info loads the full record for one package name. The dependency list is
// auxiliary data: a failure fetching it is logged and the rest of the record
// is returned anyway.
func (c *Client) Info(ctx context.Context, name string) (*PackageInfo, error) {
	id, err := c.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	details, err := c.GetDetails(ctx, []PackageID{id})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, &TransactionError{
			Code:   ErrNotFound,
			Detail: fmt.Sprintf("no details available for %s", id),
		}
	}

	info := &PackageInfo{PackageDetails: details[0]}
	deps, err := c.ListDependencies(ctx, id)
	if err != nil {
		logrus.Warnf("fetching dependencies of %s: %v", id, err)
	} else {
		info.Dependencies = deps
	}
	return info, nil
}
