//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package tcp

import "net"

// listenTCP falls back to the runtime's listener; the backlog is left to the OS.
func listenTCP(address string, _ int) (net.Listener, error) {
	return net.Listen("tcp4", address)
}
