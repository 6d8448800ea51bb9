package net

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
	"go.uber.org/zap"

	"LocalBoard/internal/logging"
)

// ServiceType is the DNS-SD service boards are advertised under.
const ServiceType = "_localboard._tcp"

// Host is a board server found on the LAN.
type Host struct {
	Instance string
	Addr     string // host:port
	Info     []string
}

// Advertise announces a board server listening on port. An empty instance
// uses the host name. Shut the returned server down to stop advertising.
func Advertise(instance string, port int) (*mdns.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, []string{"LocalBoard", "path=/ws"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	logging.L().Named("mdns").Info("advertising", zap.String("instance", instance), zap.Int("port", port))
	return server, nil
}

// Browse queries the LAN for board servers for up to timeout and calls found
// for each IPv4 host. Hosts that arrive after ctx is done are dropped.
func Browse(ctx context.Context, timeout time.Duration, found func(Host)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if ctx.Err() != nil {
				continue
			}
			if h, ok := hostFromEntry(e); ok {
				found(h)
			}
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("mdns query: %w", err)
	}
	return ctx.Err()
}

func hostFromEntry(e *mdns.ServiceEntry) (Host, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Host{}, false
	}
	return Host{
		Instance: e.Name,
		Addr:     net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)),
		Info:     e.InfoFields,
	}, true
}
