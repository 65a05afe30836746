package source

import (
	"net"
	"os"

	"github.com/pkg/errors"
)

type HostIdentity struct {
	Hostname string
	Address  string
}

// LocalIdentity returns the hostname and the first non-loopback IPv4 address
// of ifaceName, or of any interface that is up when ifaceName is empty.
func LocalIdentity(ifaceName string) (HostIdentity, error) {
	var identity HostIdentity

	hostname, err := os.Hostname()
	if err != nil {
		return identity, errors.Wrap(err, "unable to read hostname")
	}
	identity.Hostname = hostname

	var ifaces []net.Interface
	if ifaceName != "" {
		iface, err := net.InterfaceByName(ifaceName)
		if err != nil {
			return identity, errors.Wrapf(err, "unknown interface %s", ifaceName)
		}
		ifaces = []net.Interface{*iface}
	} else {
		ifaces, err = net.Interfaces()
		if err != nil {
			return identity, errors.Wrap(err, "unable to list interfaces")
		}
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if address, ok := firstIPv4(addrs); ok {
			identity.Address = address
			return identity, nil
		}
	}

	return identity, errors.New("no ipv4 address found")
}

func firstIPv4(addrs []net.Addr) (string, bool) {
	for _, addr := range addrs {
		var ip net.IP
		switch a := addr.(type) {
		case *net.IPNet:
			ip = a.IP
		case *net.IPAddr:
			ip = a.IP
		}
		if ip == nil || ip.IsLoopback() {
			continue
		}
		if ip4 := ip.To4(); ip4 != nil {
			return ip4.String(), true
		}
	}
	return "", false
}
