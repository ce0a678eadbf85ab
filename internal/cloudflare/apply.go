package cloudflare

import (
	"context"
	"fmt"

	cf "github.com/cloudflare/cloudflare-go/v6"
	"github.com/cloudflare/cloudflare-go/v6/dns"
	"github.com/hashicorp/go-multierror"

	"github.com/yuriy-kovalchuk/yk-tunnel-dns/internal/reconcile"
)

// Apply executes the planned actions in order, one remote call each. A
// failed action is recorded and skipped, it does not stop the rest: every
// action targets its own record, and a later run recomputes the plan from
// live state anyway. Returns the actions that succeeded alongside the
// aggregated failures.
func (c *Client) Apply(ctx context.Context, actions []reconcile.Action) ([]reconcile.Action, error) {
	var (
		applied []reconcile.Action
		errs    *multierror.Error
	)
	for _, action := range actions {
		if err := c.apply(ctx, action); err != nil {
			c.log.Error(err, "action failed", "kind", action.Kind, "hostname", action.Hostname)
			errs = multierror.Append(errs, fmt.Errorf("cloudflare: %s %s: %w", action.Kind, action.Hostname, err))
			continue
		}
		c.log.Info("applied action", "kind", action.Kind, "hostname", action.Hostname, "reason", action.Reason)
		applied = append(applied, action)
	}
	return applied, errs.ErrorOrNil()
}

func (c *Client) apply(ctx context.Context, action reconcile.Action) error {
	switch action.Kind {
	case reconcile.ActionCreate:
		_, err := c.api.DNS.Records.New(ctx, dns.RecordNewParams{
			ZoneID: cf.F(action.ZoneID),
			Body:   c.cnameParam(action.Hostname, action.TunnelID),
		})
		return err

	case reconcile.ActionUpdate:
		_, err := c.api.DNS.Records.Edit(ctx, action.RecordID, dns.RecordEditParams{
			ZoneID: cf.F(action.ZoneID),
			Body:   c.cnameParam(action.Hostname, action.TunnelID),
		})
		return err

	case reconcile.ActionDelete:
		_, err := c.api.DNS.Records.Delete(ctx, action.RecordID, dns.RecordDeleteParams{
			ZoneID: cf.F(action.ZoneID),
		})
		return err

	default:
		return fmt.Errorf("unknown action kind %q", action.Kind)
	}
}

// cnameParam builds the record body routing a hostname to a tunnel.
func (c *Client) cnameParam(hostname, tunnelID string) dns.CNAMERecordParam {
	return dns.CNAMERecordParam{
		Name:    cf.F(hostname),
		Type:    cf.F(dns.CNAMERecordTypeCNAME),
		Content: cf.F(reconcile.TunnelTarget(tunnelID, c.targetSuffix)),
		TTL:     cf.F(dns.TTL(c.ttl)),
		Proxied: cf.F(c.proxied),
	}
}
