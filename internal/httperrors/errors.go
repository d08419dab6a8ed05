// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures into user-friendly explanations.
// It detects common causes (timeout, DNS, refused connection, TLS, server error)
// and prints troubleshooting hints with pterm.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	apperr "tripdesk/cli/internal/errors"

	"github.com/pterm/pterm"
)

// Cause is the diagnosed category of a network failure.
type Cause int

const (
	CauseGeneric Cause = iota
	CauseTimeout
	CauseDNS
	CauseRefused
	CauseTLS
	CauseServer
)

// Diagnose classifies err.
func Diagnose(err error) Cause {
	switch {
	case err == nil:
		return CauseGeneric
	case apperr.StatusOf(err) >= 500:
		return CauseServer
	case isTimeoutError(err):
		return CauseTimeout
	case isDNSError(err):
		return CauseDNS
	case isConnectionRefusedError(err):
		return CauseRefused
	case isSSLError(err):
		return CauseTLS
	default:
		return CauseGeneric
	}
}

// FormatNetworkError prints a friendly explanation of err and returns it wrapped
// for logging. host names the API server in the hints.
func FormatNetworkError(err error, context, host string) error {
	if err == nil {
		return nil
	}
	pterm.Println(Describe(err, context, host))
	return fmt.Errorf("network error: %w", err)
}

// Describe returns the explanation FormatNetworkError prints.
func Describe(err error, context, host string) string {
	if host == "" {
		host = "the Tripdesk API"
	}
	var b strings.Builder
	line := func(s string) { b.WriteString(s + "\n") }

	switch Diagnose(err) {
	case CauseTimeout:
		line(fmt.Sprintf("⏱️  Connection timeout while %s", context))
		line("")
		line("The server took too long to respond. This could mean:")
		line("  • Slow internet connection")
		line("  • Server is under heavy load")
		line("  • The configured timeout is too short (see `timeout` in config)")
	case CauseDNS:
		line(fmt.Sprintf("🌐 Cannot resolve server address while %s", context))
		line("")
		line(fmt.Sprintf("Unable to look up %s. Please check:", host))
		line("  • Your internet connection is working")
		line("  • api_base_url in your config is spelled correctly")
	case CauseRefused:
		line(fmt.Sprintf("🚫 Connection refused while %s", context))
		line("")
		line(fmt.Sprintf("%s is not accepting connections. This could mean:", host))
		line("  • The API is not running (for local development, start the backend first)")
		line("  • Wrong server address or port")
	case CauseTLS:
		line(fmt.Sprintf("🔒 Secure connection failed while %s", context))
		line("")
		line("Cannot establish a secure HTTPS connection. This could mean:")
		line("  • The server uses a self-signed development certificate")
		line("  • System clock is incorrect")
		line("")
		line("For a local development server you can set TRIPDESK_INSECURE=true.")
	case CauseServer:
		line(fmt.Sprintf("⚠️  Server error while %s", context))
		line("")
		line("The booking service encountered an internal error.")
		line("This is not a problem with your setup. Please try again in a few minutes.")
	default:
		line(fmt.Sprintf("❌ Cannot reach %s while %s", host, context))
		line("")
		line("Please check:")
		line("  • Your internet connection")
		line("  • Whether the API is accessible from your network")
		if details := err.Error(); details != "" {
			if len(details) > 100 {
				details = details[:100] + "..."
			}
			line("")
			line(pterm.Gray("Technical details: " + details))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
