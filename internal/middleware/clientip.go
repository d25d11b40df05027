package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIPResolver определяет адрес клиента. X-Forwarded-For читается только
// когда соединение пришло от доверенного прокси, иначе заголовок подделывается
// самим клиентом.
type ClientIPResolver struct {
	trusted []netip.Prefix
}

func NewClientIPResolver(trusted []netip.Prefix) *ClientIPResolver {
	return &ClientIPResolver{trusted: trusted}
}

func (c *ClientIPResolver) isTrusted(addr netip.Addr) bool {
	if c == nil {
		return false
	}
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP идёт по X-Forwarded-For справа налево и возвращает первый адрес,
// который не принадлежит доверенным прокси.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	remote, err := netip.ParseAddr(host)
	if err != nil {
		return host
	}
	remote = remote.Unmap()
	if !c.isTrusted(remote) {
		return remote.String()
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			// мусор в цепочке: дальше левее доверять нельзя
			break
		}
		hop = hop.Unmap()
		if !c.isTrusted(hop) {
			return hop.String()
		}
	}
	return remote.String()
}
