// Package discovery locates a Snapcast server on the local network via mDNS.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

var ErrNotFound = errors.New("no Snapcast server found")

// Browser is the part of *zeroconf.Resolver that discovery needs.
type Browser interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// Find browses for service in domain and returns the first server's
// host:port, or ErrNotFound after timeout.
func Find(ctx context.Context, service, domain string, timeout time.Duration) (string, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return "", fmt.Errorf("failed to initialize resolver: %w", err)
	}
	return FindWith(ctx, resolver, service, domain, timeout)
}

// FindWith is Find with an explicit browser.
func FindWith(ctx context.Context, b Browser, service, domain string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := b.Browse(ctx, service, domain, entries); err != nil {
		return "", fmt.Errorf("browse %s: %w", service, err)
	}

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return "", ErrNotFound
			}
			if addr := address(entry); addr != "" {
				return addr, nil
			}
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", fmt.Errorf("%w within %s", ErrNotFound, timeout)
			}
			return "", ctx.Err()
		}
	}
}

func address(entry *zeroconf.ServiceEntry) string {
	if entry == nil || entry.Port <= 0 {
		return ""
	}
	port := strconv.Itoa(entry.Port)
	switch {
	case len(entry.AddrIPv4) > 0:
		return net.JoinHostPort(entry.AddrIPv4[0].String(), port)
	case len(entry.AddrIPv6) > 0:
		return net.JoinHostPort(entry.AddrIPv6[0].String(), port)
	case entry.HostName != "":
		return net.JoinHostPort(strings.TrimSuffix(entry.HostName, "."), port)
	}
	return ""
}
