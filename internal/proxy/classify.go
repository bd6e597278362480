package proxy

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Kind says why the backend could not be reached.
type Kind int

const (
	KindUnknown Kind = iota
	KindCertificate
	KindRefused
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindCertificate:
		return "certificate"
	case KindRefused:
		return "refused"
	case KindUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Classify inspects the error chain of a failed backend call.
// Certificate problems win over everything, and a refused connection is reported
// before the generic network failures that would also match it.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var (
		verifyErr   *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		invalidCert x509.CertificateInvalidError
		hostErr     x509.HostnameError
	)
	if errors.As(err, &verifyErr) || errors.As(err, &unknownAuth) ||
		errors.As(err, &invalidCert) || errors.As(err, &hostErr) {
		return KindCertificate
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return KindRefused
	}

	var (
		dnsErr *net.DNSError
		opErr  *net.OpError
		netErr net.Error
	)
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return KindUnreachable
	}
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindUnreachable
	}
	return KindUnknown
}

// Failure is the 502 payload returned when the backend cannot be reached.
type Failure struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Tip     string `json:"tip"`
}

// TransportError is a classified backend failure.
type TransportError struct {
	Kind Kind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError classifies err.
func NewTransportError(err error) *TransportError {
	return &TransportError{Kind: Classify(err), Err: err}
}

// Failure turns the error into the user-facing payload. backendURL is quoted in tips.
func (e *TransportError) Failure(backendURL string) Failure {
	f := Failure{Details: e.Err.Error()}
	switch e.Kind {
	case KindCertificate:
		f.Error = "self-signed SSL certificate rejected"
		f.Tip = `Trust the local development certificate (run "dotnet dev-certs https --trust" as Administrator, or set backend.ca_file) and restart the backend and the proxy`
	case KindUnreachable:
		f.Error = "could not connect to backend"
		f.Tip = fmt.Sprintf("Verify the backend is running at %s (try it with curl or a browser)", backendURL)
	case KindRefused:
		f.Error = "connection refused"
		f.Tip = "The backend is not running or is listening on another port"
	default:
		f.Error = "failed to connect to the task server"
	}
	return f
}
