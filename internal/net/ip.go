package net

import (
	"log/slog"
	"net"

	applog "dotmatrix/internal/log"
)

// LocalIPv4 returns the address other machines on the LAN should use to
// reach this one.
func LocalIPv4() string {
	// no packet is sent; dialing UDP only selects the outgoing interface
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP.String()
		}
	}
	return interfaceIPv4().String()
}

// interfaceIPv4 is the fallback for networks without a default route.
func interfaceIPv4() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		applog.With("net").Warn("list interfaces", slog.Any("err", err))
		return net.IPv4(127, 0, 0, 1)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	applog.With("net").Warn("no LAN address found, share link uses loopback")
	return net.IPv4(127, 0, 0, 1)
}
