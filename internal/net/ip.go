package net

import (
	"fmt"
	"net"

	"go.uber.org/zap"

	"LocalBoard/internal/logging"
)

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// no route out; fall back to the interfaces
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

// getLocalIPFallback is used on networks without internet access.
func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
	}
	logging.L().Named("net").Warn("no suitable local IP found, falling back to loopback")
	return "127.0.0.1", nil
}

// ShareURL returns the websocket URL peers on the LAN use to join a board
// served on port.
func ShareURL(port int) string {
	ip, err := GetOutgoingIP()
	if err != nil {
		logging.L().Named("net").Warn("share url", zap.Error(err))
		ip = "127.0.0.1"
	}
	return fmt.Sprintf("ws://%s/ws", net.JoinHostPort(ip, fmt.Sprint(port)))
}
