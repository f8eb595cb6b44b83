// Package adapter holds helpers shared by the inbound and outbound adapters.
package adapter

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// TLSRole selects which side of a mutual TLS connection a config serves.
type TLSRole int

const (
	TLSClient TLSRole = iota
	TLSServer
)

var ErrInvalidCA = errors.New("failed to parse CA certificate")

// MakeTLSConfig returns [*tls.Config] for mutual TLS.
//
// All file args are the filepaths. A client trusts servers signed by ca, a
// server requires client certificates signed by ca.
func MakeTLSConfig(role TLSRole, ca, cert, key string) (*tls.Config, error) {
	const op = "adapter.MakeTLSConfig"

	pool, err := loadCertPool(ca)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := tls.LoadX509KeyPair(cert, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{pair},
	}

	switch role {
	case TLSServer:
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	case TLSClient:
		cfg.RootCAs = pool
	default:
		panic(fmt.Sprintf("%s: unknown role %d", op, role)) // develop mistake
	}
	return cfg, nil
}

func loadCertPool(ca string) (*x509.CertPool, error) {
	data, err := os.ReadFile(ca)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, ErrInvalidCA
	}
	return pool, nil
}
