package geocode

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"
)

var ErrLocationUnavailable = errors.New("location unavailable")

type reverseGeocoder interface {
	Reverse(ctx context.Context, coords Coordinates) (*Address, error)
}

type IPLocator interface {
	GetIPInfo(ip net.IP) (*ipinfo.Core, error)
}

// Locator turns whatever the client can provide into a display address.
// Device coordinates are reverse geocoded; without them the caller IP is
// resolved to its city when an ipinfo client is configured.
type Locator struct {
	geocoder   reverseGeocoder
	ipResolver IPLocator
}

// NewLocator creates a Locator; ipResolver may be nil to disable the IP fallback.
func NewLocator(geocoder reverseGeocoder, ipResolver IPLocator) *Locator {
	return &Locator{
		geocoder:   geocoder,
		ipResolver: ipResolver,
	}
}

// NewIPInfoResolver returns nil when no token is configured.
func NewIPInfoResolver(httpClient *http.Client, token string) IPLocator {
	if token == "" {
		return nil
	}
	return ipinfo.NewClient(httpClient, nil, token)
}

func (l *Locator) Locate(ctx context.Context, coords *Coordinates, clientIP string) (string, error) {
	if coords != nil {
		addr, err := l.geocoder.Reverse(ctx, *coords)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
		}
		if display := addr.Display(); display != "" {
			return display, nil
		}
		return "", fmt.Errorf("%w: empty address", ErrLocationUnavailable)
	}

	if l.ipResolver == nil {
		return "", fmt.Errorf("%w: no coordinates", ErrLocationUnavailable)
	}

	ip := net.ParseIP(clientIP)
	if ip == nil {
		return "", fmt.Errorf("%w: invalid client ip [%s]", ErrLocationUnavailable, clientIP)
	}

	info, err := l.ipResolver.GetIPInfo(ip)
	if err != nil {
		return "", fmt.Errorf("%w: ip info: %w", ErrLocationUnavailable, err)
	}
	if info == nil || info.City == "" {
		return "", fmt.Errorf("%w: no city for ip", ErrLocationUnavailable)
	}

	log.Debugf("location for [%s] resolved from ip: %s", clientIP, info.City)
	return info.City, nil
}
