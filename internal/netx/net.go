// Package netx classifies network failures for the HTTP transport.
package netx

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"
)

// MaxBodyBytes bounds how much of a response body is read.
const MaxBodyBytes = 4 << 20

// IsTimeout reports whether err is a deadline expiry, either from the
// context or from the network stack.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsConnectivity reports whether err means the peer could not be reached or
// the connection broke mid-exchange.
func IsConnectivity(err error) bool {
	if err == nil || IsTimeout(err) {
		return false
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	var urlErr *url.Error
	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return true
	case errors.As(err, &urlErr):
		return !errors.Is(urlErr.Err, context.Canceled)
	}
	return false
}

// ReadBody reads at most MaxBodyBytes from r.
func ReadBody(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, MaxBodyBytes))
}
