package tool

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
)

// EnsureTlsCertificate generates a self-signed key pair unless both files
// already exist. It reports whether new files were written.
func EnsureTlsCertificate(organization, commonName, keyFilename, certFilename string, hostnames []string) (bool, error) {
	existKey, err := IsFileExists(keyFilename)
	if err != nil {
		return false, errors.Wrapf(err, "unable to access %s", keyFilename)
	}
	existCert, err := IsFileExists(certFilename)
	if err != nil {
		return false, errors.Wrapf(err, "unable to access %s", certFilename)
	}
	if existKey && existCert {
		return false, nil
	}
	return true, GenerateTlsCertificate(organization, commonName, keyFilename, certFilename, hostnames)
}

func GenerateTlsCertificate(organization, commonName, keyFilename, certFilename string, hostnames []string) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return errors.Wrap(err, "unable to generate key")
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return errors.Wrap(err, "unable to generate serial number")
	}

	notBefore := time.Now()
	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{organization},
			CommonName:   commonName,
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.AddDate(10, 0, 0),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, h := range hostnames {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return errors.Wrap(err, "unable to create certificate")
	}

	rawKey, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return errors.Wrap(err, "unable to marshal key")
	}
	if err = writePem(keyFilename, "EC PRIVATE KEY", rawKey, 0600); err != nil {
		return err
	}
	return writePem(certFilename, "CERTIFICATE", der, 0644)
}

func writePem(filename, blockType string, data []byte, perm os.FileMode) error {
	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", filename)
	}
	if err = pem.Encode(file, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		file.Close()
		return errors.Wrapf(err, "unable to write %s", filename)
	}
	return errors.Wrapf(file.Close(), "unable to close %s", filename)
}
