// Package cloudflare is the remote API boundary: read-only collectors that
// materialize tunnel and DNS state for the differ, and the executor that
// applies planned actions. Nothing in here makes reconciliation decisions.
package cloudflare

import (
	"context"
	"fmt"
	"sort"
	"sync"

	cf "github.com/cloudflare/cloudflare-go/v6"
	"github.com/cloudflare/cloudflare-go/v6/dns"
	"github.com/cloudflare/cloudflare-go/v6/option"
	"github.com/cloudflare/cloudflare-go/v6/zero_trust"
	"github.com/cloudflare/cloudflare-go/v6/zones"
	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/yuriy-kovalchuk/yk-tunnel-dns/internal/config"
	"github.com/yuriy-kovalchuk/yk-tunnel-dns/internal/reconcile"
)

// Client wraps the Cloudflare API for one account.
type Client struct {
	api          *cf.Client
	accountID    string
	targetSuffix string
	proxied      bool
	ttl          int64
	concurrency  int
	log          logr.Logger
}

// NewClient creates a Client from a validated configuration.
func NewClient(cfg *config.Config, log logr.Logger, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIToken(cfg.APIToken)}, opts...)
	return &Client{
		api:          cf.NewClient(opts...),
		accountID:    cfg.AccountID,
		targetSuffix: cfg.TargetSuffix,
		proxied:      cfg.ProxiedValue(),
		ttl:          cfg.TTL,
		concurrency:  cfg.FetchConcurrency,
		log:          log,
	}
}

// Tunnels lists the account's non-deleted cloudflared tunnels and resolves
// each tunnel's declared ingress hostnames. Any failure is fatal for the
// run: a tunnel whose declarations cannot be read would make its records
// look stale, and the differ must never see that.
func (c *Client) Tunnels(ctx context.Context) ([]reconcile.Tunnel, error) {
	listParams := zero_trust.TunnelCloudflaredListParams{
		AccountID: cf.F(c.accountID),
		IsDeleted: cf.F(false),
	}

	var tunnels []reconcile.Tunnel
	iter := c.api.ZeroTrust.Tunnels.Cloudflared.ListAutoPaging(ctx, listParams)
	for iter.Next() {
		t := iter.Current()
		tunnels = append(tunnels, reconcile.Tunnel{ID: t.ID, Name: t.Name})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("cloudflare: list tunnels: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range tunnels {
		g.Go(func() error {
			hostnames, err := c.tunnelHostnames(gctx, tunnels[i].ID)
			if err != nil {
				return fmt.Errorf("cloudflare: configuration for tunnel %s (%s): %w", tunnels[i].Name, tunnels[i].ID, err)
			}
			tunnels[i].Hostnames = hostnames
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.log.V(1).Info("collected tunnels", "count", len(tunnels))
	return tunnels, nil
}

// tunnelHostnames extracts the hostnames from a tunnel's ingress rules.
// Rules without a hostname (the catch-all) are skipped.
func (c *Client) tunnelHostnames(ctx context.Context, tunnelID string) ([]string, error) {
	params := zero_trust.TunnelCloudflaredConfigurationGetParams{
		AccountID: cf.F(c.accountID),
	}
	configuration, err := c.api.ZeroTrust.Tunnels.Cloudflared.Configurations.Get(ctx, tunnelID, params)
	if err != nil {
		return nil, err
	}

	var hostnames []string
	for _, rule := range configuration.Config.Ingress {
		if rule.Hostname == "" {
			continue
		}
		hostnames = append(hostnames, rule.Hostname)
	}
	return hostnames, nil
}

// Zones lists every zone visible to the token. Total failure is fatal.
func (c *Client) Zones(ctx context.Context) ([]reconcile.Zone, error) {
	var out []reconcile.Zone
	iter := c.api.Zones.ListAutoPaging(ctx, zones.ZoneListParams{})
	for iter.Next() {
		z := iter.Current()
		out = append(out, reconcile.Zone{ID: z.ID, Name: z.Name})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("cloudflare: list zones: %w", err)
	}

	c.log.V(1).Info("collected zones", "count", len(out))
	return out, nil
}

// Records lists the CNAME records of the given zones with bounded
// concurrency. A zone that fails to list is dropped from the returned zone
// set so no create is planned into it blind; the failure is reported in the
// aggregated error while the remaining zones proceed.
func (c *Client) Records(ctx context.Context, zns []reconcile.Zone) ([]reconcile.Record, []reconcile.Zone, error) {
	var (
		mu      sync.Mutex
		records []reconcile.Record
		listed  []reconcile.Zone
		errs    *multierror.Error
	)

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, zone := range zns {
		g.Go(func() error {
			zoneRecords, err := c.zoneRecords(ctx, zone)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierror.Append(errs, err)
				return nil
			}
			listed = append(listed, zone)
			records = append(records, zoneRecords...)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(listed, func(i, j int) bool { return listed[i].Name < listed[j].Name })
	sort.Slice(records, func(i, j int) bool {
		if records[i].ZoneID != records[j].ZoneID {
			return records[i].ZoneID < records[j].ZoneID
		}
		return records[i].ID < records[j].ID
	})

	c.log.V(1).Info("collected records", "zones", len(listed), "records", len(records))
	return records, listed, errs.ErrorOrNil()
}

func (c *Client) zoneRecords(ctx context.Context, zone reconcile.Zone) ([]reconcile.Record, error) {
	listParams := dns.RecordListParams{
		ZoneID: cf.F(zone.ID),
		Type:   cf.F(dns.RecordListParamsType("CNAME")),
	}

	var out []reconcile.Record
	iter := c.api.DNS.Records.ListAutoPaging(ctx, listParams)
	for iter.Next() {
		r := iter.Current()
		out = append(out, reconcile.Record{
			ID:     r.ID,
			ZoneID: zone.ID,
			Name:   r.Name,
			Type:   string(r.Type),
			Target: r.Content,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("cloudflare: list records for zone %s: %w", zone.Name, err)
	}
	return out, nil
}
