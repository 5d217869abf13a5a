package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	"github.com/msto63/leitstand/pkg/core/cache"
)

// Snapshot is what the status and network pages show about the machine.
type Snapshot struct {
	Hostname    string
	Platform    string
	Uptime      time.Duration
	CPUCount    int
	CPUPercent  float64
	MemTotal    uint64
	MemUsed     uint64
	MemPercent  float64
	Load1       float64
	Load5       float64
	Load15      float64
	Interfaces  []Interface
	CollectedAt time.Time
}

// Interface is a network interface with its addresses.
type Interface struct {
	Name  string
	Addrs []string
}

// SystemProbe collects a Snapshot.
type SystemProbe interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// HostProbe reads the local machine through gopsutil.
type HostProbe struct{}

// Snapshot collects as much as possible. It fails only when every
// sub-collector failed.
func (HostProbe) Snapshot(ctx context.Context) (Snapshot, error) {
	s := Snapshot{CollectedAt: time.Now()}
	var errs []string

	if info, err := host.InfoWithContext(ctx); err == nil {
		s.Hostname = info.Hostname
		s.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		s.Uptime = time.Duration(info.Uptime) * time.Second
	} else {
		errs = append(errs, fmt.Sprintf("host: %v", err))
	}

	if total, err := cpu.PercentWithContext(ctx, 0, false); err == nil {
		if len(total) > 0 {
			s.CPUPercent = total[0]
		}
		if n, err := cpu.CountsWithContext(ctx, true); err == nil {
			s.CPUCount = n
		}
	} else {
		errs = append(errs, fmt.Sprintf("cpu: %v", err))
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemTotal = vm.Total
		s.MemUsed = vm.Used
		s.MemPercent = vm.UsedPercent
	} else {
		errs = append(errs, fmt.Sprintf("memory: %v", err))
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		s.Load1, s.Load5, s.Load15 = avg.Load1, avg.Load5, avg.Load15
	} else {
		errs = append(errs, fmt.Sprintf("load: %v", err))
	}

	if ifaces, err := net.InterfacesWithContext(ctx); err == nil {
		for _, iface := range ifaces {
			addrs := make([]string, 0, len(iface.Addrs))
			for _, a := range iface.Addrs {
				addrs = append(addrs, a.Addr)
			}
			s.Interfaces = append(s.Interfaces, Interface{Name: iface.Name, Addrs: addrs})
		}
	} else {
		errs = append(errs, fmt.Sprintf("net: %v", err))
	}

	if len(errs) == 5 {
		return s, fmt.Errorf("all probes failed: %s", strings.Join(errs, "; "))
	}
	return s, nil
}

// StaticProbe returns a fixed snapshot or error.
type StaticProbe struct {
	Snap Snapshot
	Err  error
}

// Snapshot returns the configured values.
func (p StaticProbe) Snapshot(context.Context) (Snapshot, error) {
	return p.Snap, p.Err
}

// DefaultSnapshotTTL is how long CachedProbe reuses a snapshot.
const DefaultSnapshotTTL = 2 * time.Second

// CachedProbe reuses the last successful snapshot of Probe for a while, so
// that language switches and sidebar rebuilds do not hit the host again.
type CachedProbe struct {
	Probe SystemProbe
	cache *cache.Cache[Snapshot]
}

// NewCachedProbe wraps probe. A ttl <= 0 uses DefaultSnapshotTTL.
func NewCachedProbe(probe SystemProbe, ttl time.Duration) *CachedProbe {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &CachedProbe{
		Probe: probe,
		cache: cache.New[Snapshot](cache.Config{MaxItems: 1, TTL: ttl}),
	}
}

// Snapshot returns the cached snapshot or collects a new one.
func (p *CachedProbe) Snapshot(ctx context.Context) (Snapshot, error) {
	return p.cache.GetOrLoad("snapshot", func() (Snapshot, error) {
		return p.Probe.Snapshot(ctx)
	})
}

// Stats returns the cache hits and misses.
func (p *CachedProbe) Stats() (hits, misses int64) {
	hits, misses, _ = p.cache.Stats()
	return hits, misses
}

// formatBytes formats a byte count into a compact string.
func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1fG", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%dB", b)
	}
}
